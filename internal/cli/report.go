package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/sales"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
	Range string
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Summarize sales for a period",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Range, "range", string(sales.WindowToday), "reporting window (today|week|month|all)")

	return cmd
}

func runReport(cmd *cobra.Command, opts *ReportOptions) error {
	window := sales.Window(opts.Range)
	if !window.Valid() {
		return NewExitError(ExitCommandError, "invalid range "+opts.Range)
	}

	sess, err := newSession(cmd, opts.RootOptions, auth.SectionReports)
	if err != nil {
		return err
	}
	defer sess.Close()

	txns, err := sess.store.ListTransactions(cmd.Context())
	if err != nil {
		return WrapExitError(ExitCommandError, "reading database", err)
	}

	summary := sales.Summarize(txns, window, time.Now())

	if sess.out.Format == "json" {
		return sess.out.Success(summary)
	}
	return sess.out.Success(strings.TrimRight(sess.render.Report(summary), "\n"))
}
