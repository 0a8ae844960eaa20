package interfaces

import (
	"context"

	"github.com/sheikh-saqib/account-ledger/internal/models/events"
)

type EventPublisher interface {
	Publish(ctx context.Context, event events.AccountEvent) error
}
