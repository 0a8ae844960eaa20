// Package cmd provides CLI commands for the ledger.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/sheikh-saqib/account-ledger/internal/console"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	debug    bool
	dataFile string
	backend  string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Small account ledger with secret-based login",
	Long: `ledger keeps a list of named accounts, each protected by a 4-digit
secret and holding a balance. Without a subcommand it starts the
interactive menu: register, log in by secret, then deposit, withdraw
or check the balance.

Accounts are saved after every change to a plain text file by default
(one "identifier secret balance" line per account). SQLite, PostgreSQL
and an in-memory store can be selected instead.

Example:
  ledger
  ledger register alice 1111
  ledger deposit 1111 500
  ledger list`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Setup logging
		logLevel := slog.LevelInfo
		if debug || envDebug() {
			logLevel = slog.LevelDebug
		}

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: logLevel,
		}))
		slog.SetDefault(logger)
	},
	Run: runSession,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dataFile, "file", "", "accounts file for the file backend (overrides LEDGER_DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend: file, memory, sqlite or postgres (overrides LEDGER_BACKEND)")

	// Add subcommands
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(depositCmd)
	rootCmd.AddCommand(withdrawCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

// runSession starts the interactive menu. It never fails the process: setup
// problems are reported and the command still exits 0.
func runSession(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	a, err := openApp(ctx)
	if err != nil {
		slog.Error("failed to open ledger", "error", err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	defer a.Close()

	session := console.NewSession(a.ledger, os.Stdin, os.Stdout, a.cfg.Ledger.Currency, slog.Default())
	if err := session.Run(ctx); err != nil {
		slog.Error("console session ended with an error", "error", err)
	}
}

// Helper function to get config file path.
func getConfigFile() string {
	if cfgFile != "" {
		return cfgFile
	}
	return "" // Will use default .env loading
}

func envDebug() bool {
	v, err := strconv.ParseBool(os.Getenv("DEBUG"))
	return err == nil && v
}

// Helper function to handle errors and exit.
func exitOnError(err error, msg string) {
	if err != nil {
		slog.Error(msg, "error", err)
		fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
		os.Exit(1)
	}
}
