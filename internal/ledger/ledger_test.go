package ledger_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sheikh-saqib/account-ledger/internal/interfaces/mocks"
	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/sheikh-saqib/account-ledger/internal/models/events"
	"github.com/sheikh-saqib/account-ledger/internal/storage/file"
	"github.com/sheikh-saqib/account-ledger/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func openMemory(t *testing.T, opts ledger.Options, seed ...models.Record) (*ledger.Ledger, *memory.MemoryRecordStore) {
	t.Helper()
	store := memory.NewMemoryRecordStore(seed...)
	if opts.Logger == nil {
		opts.Logger = quiet
	}
	l, err := ledger.Open(context.Background(), store, opts)
	require.NoError(t, err)
	return l, store
}

func TestRegister_FindBySecret(t *testing.T) {
	ctx := context.Background()
	l, store := openMemory(t, ledger.Options{})

	secrets := []int{1000, 4321, 9999, 1234}
	for i, secret := range secrets {
		h, err := l.Register(ctx, fmt.Sprintf("user%d", i), secret)
		require.NoError(t, err)

		found, err := l.FindBySecret(secret)
		require.NoError(t, err)
		assert.Equal(t, h, found)

		rec, err := l.Record(found)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("user%d", i), rec.Identifier)
		assert.True(t, rec.Balance.IsZero())
	}

	assert.Equal(t, len(secrets), l.Len())
	assert.Equal(t, len(secrets), store.Saves())

	_, err := l.FindBySecret(5555)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	assert.True(t, l.IsSecretUnique(5555))
	assert.False(t, l.IsSecretUnique(4321))
}

func TestRegister_Validation(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		identifier string
		secret     int
		wantErr    error
	}{
		{name: "secret too small", identifier: "alice", secret: 999, wantErr: ledger.ErrInvalidSecret},
		{name: "secret too large", identifier: "alice", secret: 10000, wantErr: ledger.ErrInvalidSecret},
		{name: "duplicate secret", identifier: "bob", secret: 1111, wantErr: ledger.ErrDuplicateSecret},
		{name: "empty identifier", identifier: "", secret: 2222, wantErr: ledger.ErrInvalidIdentifier},
		{name: "identifier with space", identifier: "al ice", secret: 2222, wantErr: ledger.ErrInvalidIdentifier},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, store := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111})

			_, err := l.Register(ctx, tt.identifier, tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, 1, l.Len())
			assert.Zero(t, store.Saves())
		})
	}
}

func TestRegister_DuplicateIdentifierAllowed(t *testing.T) {
	l, _ := openMemory(t, ledger.Options{})

	_, err := l.Register(context.Background(), "alice", 1111)
	require.NoError(t, err)
	_, err = l.Register(context.Background(), "alice", 2222)
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
}

func TestRegister_TruncatesIdentifier(t *testing.T) {
	l, _ := openMemory(t, ledger.Options{MaxIdentifierLen: 5})

	h, err := l.Register(context.Background(), "bartholomew", 1111)
	require.NoError(t, err)
	rec, err := l.Record(h)
	require.NoError(t, err)
	assert.Equal(t, "barth", rec.Identifier)
}

func TestRegister_CapacityExceeded(t *testing.T) {
	ctx := context.Background()
	l, _ := openMemory(t, ledger.Options{})

	for i := 0; i < ledger.DefaultCapacity; i++ {
		_, err := l.Register(ctx, fmt.Sprintf("user%d", i), 1000+i)
		require.NoError(t, err)
	}
	require.Equal(t, 100, l.Len())

	_, err := l.Register(ctx, "late", 9999)
	assert.ErrorIs(t, err, ledger.ErrCapacityExceeded)
	assert.Equal(t, 100, l.Len())
}

func TestDepositWithdraw(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip", func(t *testing.T) {
		l, _ := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111, Balance: dec("10.10")})
		h, err := l.FindBySecret(1111)
		require.NoError(t, err)

		after, err := l.Deposit(ctx, h, dec("123.45"))
		require.NoError(t, err)
		assert.Equal(t, "133.55", after.StringFixed(2))

		back, err := l.Withdraw(ctx, h, dec("123.45"))
		require.NoError(t, err)
		assert.True(t, dec("10.10").Equal(back))
	})

	t.Run("withdraw full balance", func(t *testing.T) {
		l, _ := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111, Balance: dec("42.42")})

		_, err := l.Withdraw(ctx, 0, dec("42.43"))
		assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

		bal, err := l.Withdraw(ctx, 0, dec("42.42"))
		require.NoError(t, err)
		assert.True(t, bal.IsZero())
	})

	t.Run("non positive amounts", func(t *testing.T) {
		l, store := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111, Balance: dec("5")})

		for _, amount := range []string{"0", "-1", "0.004"} {
			_, err := l.Deposit(ctx, 0, dec(amount))
			assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount, "deposit %s", amount)
			_, err = l.Withdraw(ctx, 0, dec(amount))
			assert.ErrorIs(t, err, ledger.ErrNonPositiveAmount, "withdraw %s", amount)
		}
		bal, err := l.Balance(0)
		require.NoError(t, err)
		assert.True(t, dec("5").Equal(bal))
		assert.Zero(t, store.Saves())
	})

	t.Run("amounts out of range", func(t *testing.T) {
		l, store := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111, Balance: dec("5")})

		for _, amount := range []string{"1e999999999", "1e-999999999"} {
			_, err := l.Deposit(ctx, 0, dec(amount))
			assert.ErrorIs(t, err, ledger.ErrAmountOutOfRange, "deposit %s", amount)
			_, err = l.Withdraw(ctx, 0, dec(amount))
			assert.ErrorIs(t, err, ledger.ErrAmountOutOfRange, "withdraw %s", amount)
		}
		assert.Zero(t, store.Saves())
	})

	t.Run("very large deposit", func(t *testing.T) {
		l, _ := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111})

		bal, err := l.Deposit(ctx, 0, dec("1e17"))
		require.NoError(t, err)
		assert.Equal(t, "100000000000000000.00", bal.StringFixed(2))
	})

	t.Run("amounts rounded to cents", func(t *testing.T) {
		l, _ := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111})

		bal, err := l.Deposit(ctx, 0, dec("0.015"))
		require.NoError(t, err)
		assert.Equal(t, "0.02", bal.StringFixed(2))
	})

	t.Run("invalid handle", func(t *testing.T) {
		l, _ := openMemory(t, ledger.Options{})

		_, err := l.Deposit(ctx, 3, dec("1"))
		assert.ErrorIs(t, err, ledger.ErrInvalidHandle)
		_, err = l.Withdraw(ctx, -1, dec("1"))
		assert.ErrorIs(t, err, ledger.ErrInvalidHandle)
		_, err = l.Balance(0)
		assert.ErrorIs(t, err, ledger.ErrInvalidHandle)
	})
}

func TestScenario_FileRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "accounts.txt")

	l, err := ledger.Open(ctx, file.New(file.Config{Path: path, Logger: quiet}), ledger.Options{Logger: quiet})
	require.NoError(t, err)
	assert.Zero(t, l.Len())

	h, err := l.Register(ctx, "alice", 1111)
	require.NoError(t, err)
	bal, err := l.Balance(h)
	require.NoError(t, err)
	assert.Equal(t, "0.00", bal.StringFixed(2))

	bal, err = l.Deposit(ctx, h, dec("500.00"))
	require.NoError(t, err)
	assert.Equal(t, "500.00", bal.StringFixed(2))

	bal, err = l.Withdraw(ctx, h, dec("150.25"))
	require.NoError(t, err)
	assert.Equal(t, "349.75", bal.StringFixed(2))

	reloaded, err := ledger.Open(ctx, file.New(file.Config{Path: path, Logger: quiet}), ledger.Options{Logger: quiet})
	require.NoError(t, err)
	found, err := reloaded.FindBySecret(1111)
	require.NoError(t, err)
	rec, err := reloaded.Record(found)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Identifier)
	assert.Equal(t, "349.75", rec.Balance.StringFixed(2))
}

func TestOpen_DropsRecordsPastCapacity(t *testing.T) {
	seed := []models.Record{
		{Identifier: "a", Secret: 1001},
		{Identifier: "b", Secret: 1002},
		{Identifier: "c", Secret: 1003},
	}
	l, _ := openMemory(t, ledger.Options{Capacity: 2}, seed...)

	assert.Equal(t, 2, l.Len())
	assert.Equal(t, 2, l.Capacity())
	_, err := l.FindBySecret(1003)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
}

func TestOpen_DropsOutOfRangeBalances(t *testing.T) {
	l, _ := openMemory(t, ledger.Options{},
		models.Record{Identifier: "a", Secret: 1001, Balance: dec("1e999999999")},
		models.Record{Identifier: "b", Secret: 1002, Balance: dec("2.50")},
	)

	require.Equal(t, 1, l.Len())
	rec, err := l.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "b", rec.Identifier)
}

func TestOpen_FileWithOversizedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.txt")
	content := "alice 1111 5.00\n" + strings.Repeat("x", 2<<20) + " 2222 1.00\nbob 3333 7.00\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	l, err := ledger.Open(context.Background(), file.New(file.Config{Path: path, Logger: quiet}), ledger.Options{Logger: quiet})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Len())
	_, err = l.FindBySecret(2222)
	assert.ErrorIs(t, err, ledger.ErrNotFound)
	h, err := l.FindBySecret(3333)
	require.NoError(t, err)
	bal, err := l.Balance(h)
	require.NoError(t, err)
	assert.Equal(t, "7.00", bal.StringFixed(2))
}

func TestOpen_LoadError(t *testing.T) {
	store := mocks.NewRecordStore(t)
	store.On("LoadRecords", mock.Anything).Return(nil, errors.New("permission denied"))

	_, err := ledger.Open(context.Background(), store, ledger.Options{Logger: quiet})
	assert.ErrorIs(t, err, ledger.ErrStorage)
	assert.ErrorContains(t, err, "permission denied")
}

func TestSaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	store := mocks.NewRecordStore(t)
	store.On("LoadRecords", mock.Anything).Return([]models.Record{{Identifier: "alice", Secret: 1111, Balance: dec("10")}}, nil)
	store.On("SaveRecords", mock.Anything, mock.Anything).Return(errors.New("read-only file system"))

	publisher := mocks.NewEventPublisher(t)

	l, err := ledger.Open(ctx, store, ledger.Options{Logger: quiet, Publisher: publisher})
	require.NoError(t, err)

	bal, err := l.Deposit(ctx, 0, dec("5"))
	assert.ErrorIs(t, err, ledger.ErrStorage)
	assert.Equal(t, "15.00", bal.StringFixed(2))

	current, err := l.Balance(0)
	require.NoError(t, err)
	assert.Equal(t, "15.00", current.StringFixed(2), "mutation is not rolled back")

	h, err := l.Register(ctx, "bob", 2222)
	assert.ErrorIs(t, err, ledger.ErrStorage)
	assert.Equal(t, ledger.Handle(1), h)
	assert.Equal(t, 2, l.Len())

	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestEventsPublished(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

	publisher := mocks.NewEventPublisher(t)
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.AccountEvent) bool {
		return e.Type == events.AccountRegistered && e.Identifier == "alice" && e.Balance.IsZero()
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.AccountEvent) bool {
		return e.Type == events.AccountDeposited && e.Amount.Equal(dec("20")) && e.Balance.Equal(dec("20"))
	})).Return(nil).Once()
	publisher.On("Publish", mock.Anything, mock.MatchedBy(func(e events.AccountEvent) bool {
		return e.Type == events.AccountWithdrawn && e.Amount.Equal(dec("7.5")) && e.Balance.Equal(dec("12.5")) &&
			e.EventID != "" && e.OccurredAt.Equal(now)
	})).Return(errors.New("broker unavailable")).Once()

	l, _ := openMemory(t, ledger.Options{Publisher: publisher, Now: func() time.Time { return now }})

	h, err := l.Register(ctx, "alice", 1111)
	require.NoError(t, err)
	_, err = l.Deposit(ctx, h, dec("20"))
	require.NoError(t, err)
	bal, err := l.Withdraw(ctx, h, dec("7.5"))
	require.NoError(t, err, "publish failures do not fail the operation")
	assert.Equal(t, "12.50", bal.StringFixed(2))
}

func TestRecordsReturnsCopy(t *testing.T) {
	l, _ := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111})

	records := l.Records()
	records[0].Identifier = "mallory"

	rec, err := l.Record(0)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Identifier)
}

func TestClose_Saves(t *testing.T) {
	l, store := openMemory(t, ledger.Options{}, models.Record{Identifier: "alice", Secret: 1111})

	require.NoError(t, l.Close(context.Background()))
	assert.Equal(t, 1, store.Saves())
}
