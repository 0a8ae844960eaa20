package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types emitted after a successful ledger mutation.
const (
	AccountRegistered = "account.registered"
	AccountDeposited  = "account.deposited"
	AccountWithdrawn  = "account.withdrawn"
)

// AccountEvent describes one applied mutation. It never carries the account secret.
type AccountEvent struct {
	EventID    string          `json:"event_id" yaml:"event_id"`
	Type       string          `json:"type" yaml:"type"`
	Identifier string          `json:"identifier" yaml:"identifier"`
	Amount     decimal.Decimal `json:"amount" yaml:"amount"`
	Balance    decimal.Decimal `json:"balance" yaml:"balance"`
	OccurredAt time.Time       `json:"occurred_at" yaml:"occurred_at"`
}
