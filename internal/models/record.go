package models

import (
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// DefaultMaxIdentifierLen bounds identifiers read from storage or entered by an operator.
const DefaultMaxIdentifierLen = 49

// MaxAmountExponent bounds the decimal exponent of any amount or balance.
// Rounding a value like 1e999999999 to cents would allocate a huge integer.
const MaxAmountExponent = 64

// Record represents a single account held by the ledger
type Record struct {
	Identifier string          // display name, no whitespace
	Secret     int             // 4-digit code, the only lookup key
	Balance    decimal.Decimal // 2 decimal places, never negative
}

// NormalizeIdentifier truncates id to at most maxLen bytes without splitting a rune.
// A non-positive maxLen leaves id untouched.
func NormalizeIdentifier(id string, maxLen int) string {
	if maxLen <= 0 || len(id) <= maxLen {
		return id
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(id[cut]) {
		cut--
	}
	return id[:cut]
}

// AmountInRange reports whether d can be rounded to cents cheaply.
func AmountInRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp <= MaxAmountExponent && exp >= -MaxAmountExponent
}
