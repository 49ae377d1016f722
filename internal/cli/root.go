// Package cli wires the command-line surface: one cobra command per
// operation, all driving a single session over the local data directory.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"freightbook/internal/log"
	"freightbook/internal/session"
	"freightbook/internal/storage"
)

var dataDirFlag string

var rootCmd = &cobra.Command{
	Use:   "freightbook",
	Short: "A shipment ledger for transport freight tables",
	Long: `Freightbook keeps date-sequenced shipment tables on local disk:
one JSON document per table, with per-row freight amounts computed in
exact decimal arithmetic. Tables can be edited interactively, summarized,
and exported as CSV.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Errors are printed once, here, and become the
// process exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "data directory (default $FREIGHTBOOK_DATA_DIR or ~/.freightbook)")
}

// dataDir resolves the data directory: flag, then environment, then a
// dot directory under the user's home.
func dataDir() (string, error) {
	if dataDirFlag != "" {
		return dataDirFlag, nil
	}
	if dir := os.Getenv("FREIGHTBOOK_DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".freightbook"), nil
}

// newSession bootstraps the application for one command invocation:
// optional .env for local development, structured logging, store, session.
func newSession() (*session.Session, error) {
	_ = godotenv.Load()

	level := log.LevelFromEnv()
	dir, err := dataDir()
	if err != nil {
		return nil, err
	}
	store, err := storage.NewStore(dir, log.New("storage", level))
	if err != nil {
		return nil, err
	}
	return session.New(store, log.New("session", level)), nil
}
