// Package cli implements the screfinery-admin tool: user and migration
// management straight against the database, for operators without a running
// server.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/internal/store/drivers/sqlite"
	"github.com/screfinery/screfinery/pkg/cryptox"
)

// Execute runs the CLI and returns a process exit code.
func Execute() int {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var (
		dbFile     string
		pepperFile string
	)

	rootCmd := &cobra.Command{
		Use:           "screfinery-admin",
		Short:         "Administrative tool for the screfinery database",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			// flag > env > default
			if !cmd.Flags().Changed("db") {
				if v := os.Getenv("SCREF_DATABASE_FILE"); v != "" {
					dbFile = v
				}
			}
			if !cmd.Flags().Changed("pepper") {
				if v := os.Getenv("SCREF_PEPPER_FILE"); v != "" {
					pepperFile = v
				}
			}
			cryptox.SetPepperPath(pepperFile)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dbFile, "db", "screfinery.db", "path to the SQLite database file")
	rootCmd.PersistentFlags().StringVar(&pepperFile, "pepper", "pepper", "path to the password pepper file")

	openStore := func() (store.Store, error) {
		dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", dbFile)
		return sqlite.NewStore(dsn)
	}

	rootCmd.AddCommand(newMigrateCmd(openStore))
	rootCmd.AddCommand(newUserCmd(openStore))

	return rootCmd
}

func newMigrateCmd(openStore func() (store.Store, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.ApplyMigrations(); err != nil {
				return fmt.Errorf("applying migrations: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
