// Package events provides sinks for account events.
package events

import (
	"context"

	"github.com/sheikh-saqib/account-ledger/internal/config"
	"github.com/sheikh-saqib/account-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	modelevents "github.com/sheikh-saqib/account-ledger/internal/models/events"
)

type discard struct{}

func (discard) Publish(context.Context, modelevents.AccountEvent) error { return nil }
func (discard) Close() error                                            { return nil }

// Discard drops every event. It is used when no broker is configured.
var Discard interfaces.EventPublisher = discard{}

// Publisher is an event sink that holds resources until closed.
type Publisher interface {
	interfaces.EventPublisher
	Close() error
}

// Open returns the Kafka publisher when brokers are configured and a
// discarding sink otherwise.
func Open(cfg config.KafkaConfig) (Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return discard{}, nil
	}
	p, err := kafka.NewPublisher(kafka.Config{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Compression: cfg.Compression,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}
