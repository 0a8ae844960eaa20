package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/sheikh-saqib/account-ledger/internal/ledger"
	"github.com/sheikh-saqib/account-ledger/internal/report"
	"github.com/sheikh-saqib/account-ledger/internal/storage/file"
	"github.com/spf13/cobra"
)

var (
	listWidth    int
	listRaw      bool
	exportFormat string
)

// listCmd represents the list command.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all accounts and balances",
	Long: `List every account in registration order with its balance and the
total held by the ledger. Secrets are not shown.

Example:
  ledger list
  ledger list --raw > accounts.md`,
	Args: cobra.NoArgs,
	Run:  runAccountCommand(listAccounts, "failed to list accounts"),
}

// exportCmd represents the export command.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write all accounts to stdout",
	Long: `Write all accounts to stdout.

Formats:
- text: the accounts file format, one "identifier secret balance" line per account
- yaml: identifiers and balances only

Example:
  ledger export --backend sqlite > accounts.txt
  ledger export --format yaml`,
	Args: cobra.NoArgs,
	Run:  runAccountCommand(exportAccounts, "failed to export accounts"),
}

func init() {
	listCmd.Flags().IntVar(&listWidth, "width", 80, "wrap the rendered table at this width")
	listCmd.Flags().BoolVar(&listRaw, "raw", false, "print markdown without terminal rendering")
	exportCmd.Flags().StringVar(&exportFormat, "format", "text", "output format: text or yaml")
}

func listAccounts(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	markdown := report.Accounts(l.Records(), currency)
	if listRaw {
		_, err := io.WriteString(w, markdown)
		return err
	}
	out, err := report.Render(markdown, listWidth)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func exportAccounts(ctx context.Context, l *ledger.Ledger, w io.Writer, currency string, args []string) error {
	switch exportFormat {
	case "text", "":
		return file.EncodeRecords(w, l.Records())
	case "yaml":
		return report.ExportYAML(w, l.Records(), currency)
	default:
		return fmt.Errorf("unknown export format %q", exportFormat)
	}
}
