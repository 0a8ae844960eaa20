// Package report renders ledger contents for people: money display, account
// tables and exports.
package report

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// FormatMoney displays amount in currency, e.g. "₱349.75".
// The amount is rounded to the currency's minor unit.
func FormatMoney(amount decimal.Decimal, currency string) string {
	c := money.New(0, currency).Currency()
	minor := amount.Shift(int32(c.Fraction)).Round(0)
	n := minor.BigInt()
	if n.IsInt64() {
		return money.New(n.Int64(), currency).Display()
	}
	return formatMinorUnits(n, c)
}

// formatMinorUnits lays out amounts too large for int64 the way go-money's
// Formatter does.
func formatMinorUnits(minor *big.Int, c *money.Currency) string {
	digits := new(big.Int).Abs(minor).String()
	if len(digits) <= c.Fraction {
		digits = strings.Repeat("0", c.Fraction-len(digits)+1) + digits
	}

	if c.Thousand != "" {
		for i := len(digits) - c.Fraction - 3; i > 0; i -= 3 {
			digits = digits[:i] + c.Thousand + digits[i:]
		}
	}
	if c.Fraction > 0 {
		digits = digits[:len(digits)-c.Fraction] + c.Decimal + digits[len(digits)-c.Fraction:]
	}

	out := strings.Replace(c.Template, "1", digits, 1)
	out = strings.Replace(out, "$", c.Grapheme, 1)
	if minor.Sign() < 0 {
		out = "-" + out
	}
	return out
}

// Accounts returns a markdown table listing every record. Secrets are not shown.
func Accounts(records []models.Record, currency string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")
	if len(records) == 0 {
		b.WriteString("_No accounts registered._\n")
		return b.String()
	}

	total := decimal.Zero
	b.WriteString("| # | Account | Balance |\n")
	b.WriteString("|--:|:--------|--------:|\n")
	for i, r := range records {
		fmt.Fprintf(&b, "| %d | %s | %s |\n", i+1, escape(r.Identifier), FormatMoney(r.Balance, currency))
		total = total.Add(r.Balance)
	}
	fmt.Fprintf(&b, "\n**%d accounts**, total holdings %s\n", len(records), FormatMoney(total, currency))
	return b.String()
}

// Render formats markdown for a terminal of the given width.
func Render(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}

type exportedAccount struct {
	Identifier string `yaml:"identifier"`
	Balance    string `yaml:"balance"`
}

type exportDocument struct {
	Currency string            `yaml:"currency"`
	Accounts []exportedAccount `yaml:"accounts"`
}

// ExportYAML writes identifiers and balances as YAML. Secrets are never exported.
func ExportYAML(w io.Writer, records []models.Record, currency string) error {
	doc := exportDocument{Currency: currency, Accounts: make([]exportedAccount, 0, len(records))}
	for _, r := range records {
		doc.Accounts = append(doc.Accounts, exportedAccount{
			Identifier: r.Identifier,
			Balance:    r.Balance.StringFixed(2),
		})
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode accounts: %w", err)
	}
	return enc.Close()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
