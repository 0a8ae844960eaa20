package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/report"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register <identifier> <secret>",
	Short: "Register a new account",
	Long: `Register a new account with a zero balance.

The identifier must be a single word; longer names are truncated.
The secret must be a 4-digit number (1000-9999) not used by any
other account.

Example:
  ledger register alice 1111`,
	Args: cobra.ExactArgs(2),
	Run:  runAccountCommand(registerAccount, "failed to register account"),
}

var depositCmd = &cobra.Command{
	Use:   "deposit <secret> <amount>",
	Short: "Deposit money into an account",
	Long: `Deposit a positive amount into the account owned by secret.
Amounts are rounded to 2 decimal places.

Example:
  ledger deposit 1111 500`,
	Args: cobra.ExactArgs(2),
	Run:  runAccountCommand(deposit, "failed to deposit"),
}

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <secret> <amount>",
	Short: "Withdraw money from an account",
	Long: `Withdraw a positive amount from the account owned by secret.
The balance may reach zero but never go below it.

Example:
  ledger withdraw 1111 150.25`,
	Args: cobra.ExactArgs(2),
	Run:  runAccountCommand(withdraw, "failed to withdraw"),
}

var balanceCmd = &cobra.Command{
	Use:   "balance <secret>",
	Short: "Show the balance of an account",
	Args:  cobra.ExactArgs(1),
	Run:   runAccountCommand(showBalance, "failed to read balance"),
}

// accountFunc runs one command against an opened ledger.
type accountFunc func(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error

func runAccountCommand(fn accountFunc, msg string) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		a, err := openApp(ctx)
		exitOnError(err, "failed to open ledger")

		err = fn(ctx, a.ledger, os.Stdout, a.cfg.Ledger.Currency, args)
		a.Close()
		exitOnError(err, msg)
	}
}

func registerAccount(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	secret, err := parseSecret(args[1])
	if err != nil {
		return err
	}
	h, err := l.Register(ctx, args[0], secret)
	if err != nil {
		return err
	}
	rec, err := l.Record(h)
	if err != nil {
		return err
	}
	slog.Info("Account registered", "identifier", rec.Identifier, "accounts", l.Len())
	fmt.Fprintf(w, "Account registered successfully! Welcome, %s.\n", rec.Identifier)
	return nil
}

func deposit(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	h, amount, err := resolveMovement(l, args)
	if err != nil {
		return err
	}
	bal, err := l.Deposit(ctx, h, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Successfully deposited %s. New balance: %s\n",
		report.FormatMoney(amount, currency), report.FormatMoney(bal, currency))
	return nil
}

func withdraw(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	h, amount, err := resolveMovement(l, args)
	if err != nil {
		return err
	}
	bal, err := l.Withdraw(ctx, h, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Successfully withdrew %s. New balance: %s\n",
		report.FormatMoney(amount, currency), report.FormatMoney(bal, currency))
	return nil
}

func showBalance(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	h, err := resolveSecret(l, args[0])
	if err != nil {
		return err
	}
	rec, err := l.Record(h)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: %s\n", rec.Identifier, report.FormatMoney(rec.Balance, currency))
	return nil
}

func resolveMovement(l *ledger.Ledger, args []string) (ledger.Handle, decimal.Decimal, error) {
	h, err := resolveSecret(l, args[0])
	if err != nil {
		return 0, decimal.Zero, err
	}
	amount, err := decimal.NewFromString(args[1])
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("invalid amount %q", args[1])
	}
	return h, amount, nil
}

func resolveSecret(l *ledger.Ledger, arg string) (ledger.Handle, error) {
	secret, err := parseSecret(arg)
	if err != nil {
		return 0, err
	}
	return l.FindBySecret(secret)
}

func parseSecret(arg string) (int, error) {
	secret, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("secret must be a number, got %q", arg)
	}
	return secret, nil
}
