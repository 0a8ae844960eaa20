// Package console runs the interactive register / login / banking menus on top of a ledger.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/models"
	"github.com/sheikh-saqib/account-ledger/internal/report"
	"github.com/shopspring/decimal"
)

// Session is one operator sitting at the console. Every request is handled to
// completion before the next prompt; rejected input only re-prompts.
type Session struct {
	ledger   *ledger.Ledger
	in       *bufio.Scanner
	out      io.Writer
	currency string
	logger   *slog.Logger
	done     bool // input exhausted
}

// NewSession reads operator input from in and writes prompts to out.
func NewSession(l *ledger.Ledger, in io.Reader, out io.Writer, currency string, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		ledger:   l,
		in:       bufio.NewScanner(in),
		out:      out,
		currency: currency,
		logger:   logger,
	}
}

// Run drives the main menu until the operator exits or input ends, then
// saves the ledger one last time. Only an input read failure is returned.
func (s *Session) Run(ctx context.Context) error {
	s.printf("============================================================\n")
	s.printf("  Account Ledger (%d/%d accounts)\n", s.ledger.Len(), s.ledger.Capacity())
	s.printf("============================================================\n")

	for {
		s.printf("\n==== Main Menu ====\n")
		s.printf("1. Register New Account\n")
		s.printf("2. Login (by secret)\n")
		s.printf("3. Exit\n")

		choice, ok := s.promptInt("Choose (1-3): ")
		if !ok {
			if s.eof() {
				break
			}
			s.printf("Invalid input. Please enter a number.\n")
			continue
		}

		switch choice {
		case 1:
			s.register(ctx)
		case 2:
			s.login(ctx)
		case 3:
			s.printf("Goodbye, thanks for using the ledger.\n")
		default:
			s.printf("Invalid choice. Enter 1, 2, or 3.\n")
		}
		if choice == 3 || s.eof() {
			break
		}
	}

	if err := s.ledger.Close(ctx); err != nil {
		s.printf("Error: %v. Changes not saved.\n", err)
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

func (s *Session) register(ctx context.Context) {
	if s.ledger.Len() >= s.ledger.Capacity() {
		s.printf("Ledger is full (max %d accounts). Cannot register more.\n", s.ledger.Capacity())
		return
	}

	line, ok := s.prompt("Enter your name (no spaces): ")
	fields := strings.Fields(line)
	if !ok || len(fields) == 0 {
		s.printf("Invalid name input. Registration cancelled.\n")
		return
	}
	identifier := fields[0]

	for {
		secret, ok := s.promptInt(fmt.Sprintf("Set a 4-digit secret (%d-%d): ", ledger.MinSecret, ledger.MaxSecret))
		if !ok {
			if s.eof() {
				return
			}
			s.printf("Invalid input. Please enter numbers only.\n")
			continue
		}

		h, err := s.ledger.Register(ctx, identifier, secret)
		switch {
		case errors.Is(err, ledger.ErrInvalidSecret):
			s.printf("Secret must be a 4-digit number between %d and %d.\n", ledger.MinSecret, ledger.MaxSecret)
			continue
		case errors.Is(err, ledger.ErrDuplicateSecret):
			s.printf("Secret already in use. Choose a different secret.\n")
			continue
		case errors.Is(err, ledger.ErrStorage):
			s.printf("Error: %v. Changes not saved.\n", err)
		case err != nil:
			s.printf("Registration failed: %v\n", err)
			return
		}

		rec, _ := s.ledger.Record(h)
		s.printf("Account registered successfully! Welcome, %s.\n", rec.Identifier)
		return
	}
}

func (s *Session) login(ctx context.Context) {
	secret, ok := s.promptInt("Enter your 4-digit secret: ")
	if !ok {
		if !s.eof() {
			s.printf("Invalid input. Returning to main menu.\n")
		}
		return
	}
	h, err := s.ledger.FindBySecret(secret)
	if err != nil {
		s.printf("Invalid secret. No matching account.\n")
		return
	}
	s.bankingMenu(ctx, h)
}

func (s *Session) bankingMenu(ctx context.Context, h ledger.Handle) {
	rec, err := s.ledger.Record(h)
	if err != nil {
		s.printf("Internal error: %v\n", err)
		return
	}

	for {
		s.printf("\n==== Banking Menu for %s ====\n", rec.Identifier)
		s.printf("1. Check Balance\n")
		s.printf("2. Deposit Money\n")
		s.printf("3. Withdraw Money\n")
		s.printf("4. Logout\n")

		choice, ok := s.promptInt("Choose (1-4): ")
		if !ok {
			if s.eof() {
				return
			}
			s.printf("Invalid choice. Try again.\n")
			continue
		}

		switch choice {
		case 1:
			bal, _ := s.ledger.Balance(h)
			s.printf("Current Balance: %s\n", s.money(bal))
		case 2:
			s.deposit(ctx, h)
		case 3:
			s.withdraw(ctx, h)
		case 4:
			s.printf("Logging out %s...\n", rec.Identifier)
			return
		default:
			s.printf("Invalid option. Enter a number 1-4.\n")
		}
		if s.eof() {
			return
		}
	}
}

func (s *Session) deposit(ctx context.Context, h ledger.Handle) {
	amount, ok := s.promptAmount("Enter deposit amount (positive number): ")
	if !ok {
		return
	}
	bal, err := s.ledger.Deposit(ctx, h, amount)
	switch {
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		s.printf("Deposit must be positive.\n")
		return
	case errors.Is(err, ledger.ErrStorage):
		s.printf("Error: %v. Changes not saved.\n", err)
	case err != nil:
		s.printf("Deposit failed: %v\n", err)
		return
	}
	s.printf("Successfully deposited %s. New balance: %s\n", s.money(amount), s.money(bal))
}

func (s *Session) withdraw(ctx context.Context, h ledger.Handle) {
	amount, ok := s.promptAmount("Enter withdrawal amount: ")
	if !ok {
		return
	}
	bal, err := s.ledger.Withdraw(ctx, h, amount)
	switch {
	case errors.Is(err, ledger.ErrNonPositiveAmount):
		s.printf("Withdrawal must be positive.\n")
		return
	case errors.Is(err, ledger.ErrInsufficientFunds):
		s.printf("Insufficient balance. Your balance: %s\n", s.money(bal))
		return
	case errors.Is(err, ledger.ErrStorage):
		s.printf("Error: %v. Changes not saved.\n", err)
	case err != nil:
		s.printf("Withdrawal failed: %v\n", err)
		return
	}
	s.printf("Successfully withdrew %s. New balance: %s\n", s.money(amount), s.money(bal))
}

func (s *Session) promptAmount(label string) (decimal.Decimal, bool) {
	line, ok := s.prompt(label)
	if !ok {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(firstField(line))
	if err != nil || !models.AmountInRange(amount) {
		s.printf("Invalid amount.\n")
		return decimal.Zero, false
	}
	return amount, true
}

func (s *Session) promptInt(label string) (int, bool) {
	line, ok := s.prompt(label)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(firstField(line))
	if err != nil {
		return 0, false
	}
	return n, true
}

// prompt prints label and reads one line. ok is false once input is exhausted.
func (s *Session) prompt(label string) (string, bool) {
	s.printf("%s", label)
	if !s.in.Scan() {
		s.done = true
		s.printf("\n")
		return "", false
	}
	return s.in.Text(), true
}

func (s *Session) eof() bool {
	return s.done
}

func (s *Session) money(d decimal.Decimal) string {
	return report.FormatMoney(d, s.currency)
}

func (s *Session) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(s.out, format, args...); err != nil {
		s.logger.Debug("console write failed", "error", err)
	}
}

func firstField(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
