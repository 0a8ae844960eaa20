package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	interfaces "github.com/sheikh-saqib/account-ledger/internal/interfaces"
	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/sheikh-saqib/account-ledger/internal/models/events"
	"github.com/shopspring/decimal"
)

const (
	// DefaultCapacity is the maximum number of accounts a ledger holds unless configured otherwise.
	DefaultCapacity = 100

	MinSecret = 1000
	MaxSecret = 9999

	// balances and amounts are kept at this many decimal places
	moneyPlaces = 2
)

// Handle refers to a record position inside one Ledger. It stays valid for
// the lifetime of that Ledger because records are never removed.
type Handle int

// Options configures a Ledger. Zero values select the defaults.
type Options struct {
	Capacity         int
	MaxIdentifierLen int
	Publisher        interfaces.EventPublisher
	Logger           *slog.Logger
	Now              func() time.Time
}

// Ledger holds the ordered account records in memory and mirrors every
// change to its RecordStore. It is meant for a single goroutine.
type Ledger struct {
	store       interfaces.RecordStore
	publisher   interfaces.EventPublisher
	logger      *slog.Logger
	now         func() time.Time
	capacity    int
	maxIdentLen int
	records     []models.Record
}

// Open loads the records held by store and returns a ledger owning them.
// Records past the capacity are dropped and identifiers are normalized.
func Open(ctx context.Context, store interfaces.RecordStore, opts Options) (*Ledger, error) {
	l := &Ledger{
		store:       store,
		publisher:   opts.Publisher,
		logger:      opts.Logger,
		now:         opts.Now,
		capacity:    opts.Capacity,
		maxIdentLen: opts.MaxIdentifierLen,
	}
	if l.capacity <= 0 {
		l.capacity = DefaultCapacity
	}
	if l.maxIdentLen <= 0 {
		l.maxIdentLen = models.DefaultMaxIdentifierLen
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	if l.now == nil {
		l.now = time.Now
	}

	loaded, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: load records: %w", ErrStorage, err)
	}

	if len(loaded) > l.capacity {
		l.logger.Warn("ledger capacity reached, dropping extra records",
			"capacity", l.capacity, "dropped", len(loaded)-l.capacity)
		loaded = loaded[:l.capacity]
	}

	l.records = make([]models.Record, 0, len(loaded))
	for _, r := range loaded {
		if !models.AmountInRange(r.Balance) {
			l.logger.Warn("dropping record with out of range balance", "identifier", r.Identifier)
			continue
		}
		r.Identifier = models.NormalizeIdentifier(r.Identifier, l.maxIdentLen)
		r.Balance = r.Balance.Round(moneyPlaces)
		l.records = append(l.records, r)
	}

	l.logger.Info("ledger loaded", "accounts", len(l.records), "capacity", l.capacity)
	return l, nil
}

// Save rewrites the whole record list to the backing store.
func (l *Ledger) Save(ctx context.Context) error {
	if err := l.store.SaveRecords(ctx, l.Records()); err != nil {
		l.logger.Error("failed to save ledger", "error", err)
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return nil
}

// Close performs the final save done when the operator exits.
func (l *Ledger) Close(ctx context.Context) error {
	return l.Save(ctx)
}

// FindBySecret returns the first record whose secret matches.
func (l *Ledger) FindBySecret(secret int) (Handle, error) {
	for i, r := range l.records {
		if r.Secret == secret {
			return Handle(i), nil
		}
	}
	return -1, ErrNotFound
}

// IsSecretUnique reports whether no record uses secret.
func (l *Ledger) IsSecretUnique(secret int) bool {
	_, err := l.FindBySecret(secret)
	return err != nil
}

// Register appends a new zero-balance account and saves the ledger.
//
// Duplicate identifiers are accepted; only secrets must be unique. When the
// save fails the account stays registered in memory and the handle is
// returned alongside an error wrapping ErrStorage.
func (l *Ledger) Register(ctx context.Context, identifier string, secret int) (Handle, error) {
	if len(l.records) >= l.capacity {
		return -1, fmt.Errorf("%w (max %d accounts)", ErrCapacityExceeded, l.capacity)
	}
	if identifier == "" || strings.IndexFunc(identifier, unicode.IsSpace) >= 0 {
		return -1, ErrInvalidIdentifier
	}
	if secret < MinSecret || secret > MaxSecret {
		return -1, ErrInvalidSecret
	}
	if !l.IsSecretUnique(secret) {
		return -1, ErrDuplicateSecret
	}

	r := models.Record{
		Identifier: models.NormalizeIdentifier(identifier, l.maxIdentLen),
		Secret:     secret,
		Balance:    decimal.Zero,
	}
	l.records = append(l.records, r)
	h := Handle(len(l.records) - 1)
	l.logger.Debug("account registered", "identifier", r.Identifier, "handle", int(h))

	if err := l.Save(ctx); err != nil {
		return h, err
	}
	l.publish(ctx, events.AccountRegistered, r, decimal.Zero)
	return h, nil
}

// Deposit credits amount, rounded to cents, to the account and saves the ledger.
func (l *Ledger) Deposit(ctx context.Context, h Handle, amount decimal.Decimal) (decimal.Decimal, error) {
	r, err := l.record(h)
	if err != nil {
		return decimal.Zero, err
	}
	if !models.AmountInRange(amount) {
		return r.Balance, ErrAmountOutOfRange
	}
	amount = amount.Round(moneyPlaces)
	if !amount.IsPositive() {
		return r.Balance, ErrNonPositiveAmount
	}

	r.Balance = r.Balance.Add(amount)
	l.logger.Debug("deposit applied", "identifier", r.Identifier, "amount", amount.StringFixed(moneyPlaces))

	if err := l.Save(ctx); err != nil {
		return r.Balance, err
	}
	l.publish(ctx, events.AccountDeposited, *r, amount)
	return r.Balance, nil
}

// Withdraw debits amount, rounded to cents, from the account and saves the ledger.
// Withdrawing the full balance is allowed.
func (l *Ledger) Withdraw(ctx context.Context, h Handle, amount decimal.Decimal) (decimal.Decimal, error) {
	r, err := l.record(h)
	if err != nil {
		return decimal.Zero, err
	}
	if !models.AmountInRange(amount) {
		return r.Balance, ErrAmountOutOfRange
	}
	amount = amount.Round(moneyPlaces)
	if !amount.IsPositive() {
		return r.Balance, ErrNonPositiveAmount
	}
	if amount.GreaterThan(r.Balance) {
		return r.Balance, fmt.Errorf("%w: balance %s", ErrInsufficientFunds, r.Balance.StringFixed(moneyPlaces))
	}

	r.Balance = r.Balance.Sub(amount)
	l.logger.Debug("withdrawal applied", "identifier", r.Identifier, "amount", amount.StringFixed(moneyPlaces))

	if err := l.Save(ctx); err != nil {
		return r.Balance, err
	}
	l.publish(ctx, events.AccountWithdrawn, *r, amount)
	return r.Balance, nil
}

// Record returns a copy of the record behind h.
func (l *Ledger) Record(h Handle) (models.Record, error) {
	r, err := l.record(h)
	if err != nil {
		return models.Record{}, err
	}
	return *r, nil
}

// Balance returns the current balance behind h.
func (l *Ledger) Balance(h Handle) (decimal.Decimal, error) {
	r, err := l.record(h)
	if err != nil {
		return decimal.Zero, err
	}
	return r.Balance, nil
}

// Records returns a copy of all records in insertion order.
func (l *Ledger) Records() []models.Record {
	copied := make([]models.Record, len(l.records))
	copy(copied, l.records)
	return copied
}

func (l *Ledger) Len() int      { return len(l.records) }
func (l *Ledger) Capacity() int { return l.capacity }

func (l *Ledger) record(h Handle) (*models.Record, error) {
	if h < 0 || int(h) >= len(l.records) {
		return nil, ErrInvalidHandle
	}
	return &l.records[h], nil
}

// publish is best effort: a failing sink never undoes a saved mutation.
func (l *Ledger) publish(ctx context.Context, eventType string, r models.Record, amount decimal.Decimal) {
	if l.publisher == nil {
		return
	}
	event := events.AccountEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Identifier: r.Identifier,
		Amount:     amount,
		Balance:    r.Balance,
		OccurredAt: l.now().UTC(),
	}
	if err := l.publisher.Publish(ctx, event); err != nil {
		l.logger.Warn("failed to publish account event", "type", eventType, "identifier", r.Identifier, "error", err)
	}
}
