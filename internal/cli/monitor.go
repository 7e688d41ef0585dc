package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/kitchen"
)

// MonitorOptions holds flags for the monitor command.
type MonitorOptions struct {
	*RootOptions
	Interval time.Duration
	Ticks    int
}

// NewMonitorCommand creates the monitor command.
func NewMonitorCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MonitorOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the kitchen simulator over active orders",
		Long: `Run the kitchen simulator: every interval each active order has a
small chance of moving one step down the status chain, the way a real
kitchen would work through tickets. Runs until interrupted, or for
--ticks sweeps when set.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(cmd, opts)
		},
	}

	cmd.Flags().DurationVar(&opts.Interval, "interval", kitchen.DefaultInterval, "sweep interval")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", 0, "stop after this many sweeps (0 = run until interrupted)")

	return cmd
}

func runMonitor(cmd *cobra.Command, opts *MonitorOptions) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionOrders)
	if err != nil {
		return err
	}
	defer sess.Close()

	sim := kitchen.New(sess.store, kitchen.WithInterval(opts.Interval))

	if opts.Ticks > 0 {
		total := 0
		for i := 0; i < opts.Ticks; i++ {
			if i > 0 {
				time.Sleep(opts.Interval)
			}
			n, err := sim.Tick(cmd.Context())
			if err != nil {
				return WrapExitError(ExitCommandError, "sweep failed", err)
			}
			total += n
			sess.out.VerboseLog("sweep %d: advanced %d", i+1, n)
		}
		return sess.out.Success(fmt.Sprintf("%d sweep(s), %d order(s) advanced", opts.Ticks, total))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := sim.Run(ctx); ctx.Err() == nil && err != nil {
		return WrapExitError(ExitCommandError, "simulator failed", err)
	}
	return sess.out.Success("monitor stopped")
}
