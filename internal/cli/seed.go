package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/sales"
)

// SeedOptions holds flags for the seed command.
type SeedOptions struct {
	*RootOptions
	Transactions int
	Seed         int64
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SeedOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the store with synthetic sales history",
		Long: `Fill the store with synthetic transactions spread over the last 30
days, for demos and report development. The generator is deterministic
for a given --seed.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Transactions, "transactions", 50, "how many transactions to generate")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 1, "random seed")

	return cmd
}

func runSeed(cmd *cobra.Command, opts *SeedOptions) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionSettings)
	if err != nil {
		return err
	}
	defer sess.Close()

	gen := sales.NewGenerator(sess.catalog, opts.Seed, time.Now())
	txns := gen.Transactions(opts.Transactions)
	for i := range txns {
		if err := sess.store.InsertTransaction(cmd.Context(), &txns[i]); err != nil {
			return WrapExitError(ExitCommandError, "writing database", err)
		}
	}

	if sess.out.Format == "json" {
		return sess.out.Success(map[string]any{"inserted": len(txns)})
	}
	return sess.out.Success(fmt.Sprintf("inserted %d transaction(s)", len(txns)))
}
