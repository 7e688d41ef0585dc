// Package cli wires the point of sale into a cobra command tree.
//
// Every command runs as an authenticated operator: the global --user
// and --password flags are checked against the catalog and the
// operator's role must grant the section a command belongs to. Output
// goes through one formatter so json mode stays machine-clean.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	DB       string // sqlite path, or ":memory:" for an ephemeral store
	Format   string // "json" | "text"
	Verbose  bool
	User     string // operator email
	Password string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the till CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "till",
		Short: "till - point of sale for the counter and the back office",
		Long: `A point of sale core: sell over the counter, track orders through
the kitchen, settle dine-in tabs and report on the day's sales.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			configureLogging(opts.Verbose)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "till.db", "sqlite database path (\":memory:\" for ephemeral)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.User, "user", "cashier@pos.com", "operator email")
	cmd.PersistentFlags().StringVar(&opts.Password, "password", "password", "operator password")

	cmd.AddCommand(NewSellCommand(opts))
	cmd.AddCommand(NewOrdersCommand(opts))
	cmd.AddCommand(NewMonitorCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// configureLogging routes slog to stderr. Quiet by default so text and
// json output stay parseable; --verbose opens the debug firehose.
func configureLogging(verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
