// Package cli implements the storage command-line tool.
package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	storage "github.com/temifoden/alx-backend-storage"
)

// RootOptions holds global flags for all commands. Empty connection flags
// fall back to the STORAGE_* environment and then to the library defaults.
type RootOptions struct {
	Backend    string
	RedisAddr  string
	DSN        string
	SQLitePath string
	KeyPrefix  string
	Verbose    bool
	Metrics    bool

	// keyFunc overrides key generation in tests.
	keyFunc func() string
}

// ValidBackends defines the accepted --backend values.
var ValidBackends = []string{
	storage.DriverRedis,
	storage.DriverMemory,
	storage.DriverPostgres,
	storage.DriverSQLite,
}

// NewRootCommand creates the root command for the storage CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "storage",
		Short: "Instrumented key-value cache",
		Long: `Store and read values in a key-value cache whose store operation is
counted and recorded, and replay the recorded call history.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Backend != "" && !slices.Contains(ValidBackends, opts.Backend) {
				return fmt.Errorf("invalid backend %q: must be one of %v", opts.Backend, ValidBackends)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Backend, "backend", "", "backend driver (redis|memory|postgres|sqlite); default $STORAGE_DRIVER or redis")
	cmd.PersistentFlags().StringVar(&opts.RedisAddr, "redis-addr", "", "Redis address; default $STORAGE_REDIS_ADDR or localhost:6379")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", "", "PostgreSQL DSN for the postgres backend")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite-path", "", "database file for the sqlite backend")
	cmd.PersistentFlags().StringVar(&opts.KeyPrefix, "key-prefix", "", "namespace prefix for every key")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log cache activity to stderr")
	cmd.PersistentFlags().BoolVar(&opts.Metrics, "metrics", false, "print Prometheus metrics to stderr on exit")

	cmd.AddCommand(NewDemoCommand(opts))
	cmd.AddCommand(NewStoreCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewCallsCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewResetCommand(opts))
	cmd.AddCommand(NewSchoolsCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			b := storage.Build()
			fmt.Fprintf(cmd.OutOrStdout(), "storage %s (%s %s)\n", b.Version, b.GoVersion, b.Platform)
		},
	}
}
