package ledger

import "errors"

// ErrStorage wraps any failure reported by the backing RecordStore.
// The in-memory ledger keeps the attempted change when it is returned.
var ErrStorage = errors.New("storage failure")

// ErrNotFound is returned when no record matches a secret.
var ErrNotFound = errors.New("no account matches secret")

// ErrInvalidHandle is returned when a handle does not point into the ledger.
var ErrInvalidHandle = errors.New("invalid account handle")

// ErrCapacityExceeded is returned when registering into a full ledger.
var ErrCapacityExceeded = errors.New("ledger is at capacity")

// ErrInvalidSecret is returned when a secret is outside MinSecret..MaxSecret.
var ErrInvalidSecret = errors.New("secret must be a 4-digit number between 1000 and 9999")

// ErrDuplicateSecret is returned when a secret is already in use.
var ErrDuplicateSecret = errors.New("secret already in use")

// ErrInvalidIdentifier is returned for empty identifiers or identifiers containing whitespace.
var ErrInvalidIdentifier = errors.New("identifier must be a single non-empty token")

// ErrNonPositiveAmount is returned when a deposit or withdrawal is zero or negative.
var ErrNonPositiveAmount = errors.New("amount must be positive")

// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrAmountOutOfRange is returned for amounts whose exponent is too large or too small to handle.
var ErrAmountOutOfRange = errors.New("amount out of range")
