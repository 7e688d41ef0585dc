package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/catalog"
	"github.com/roach88/till/internal/checkout"
	"github.com/roach88/till/internal/receipt"
	"github.com/roach88/till/internal/store"
)

// session is the per-command runtime: catalog, authenticated operator,
// open store and the services over them. Commands create one, do their
// work and Close it.
type session struct {
	opts     *RootOptions
	catalog  *catalog.Catalog
	user     catalog.User
	store    store.Store
	checkout *checkout.Service
	render   *receipt.Renderer
	out      *OutputFormatter
}

// newSession authenticates the operator, enforces the section policy
// and opens the store. Authentication problems are command errors;
// a policy denial is a domain failure.
func newSession(cmd *cobra.Command, opts *RootOptions, section auth.Section) (*session, error) {
	cat, err := catalog.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "loading catalog", err)
	}

	user, err := auth.Authenticate(cat, opts.User, opts.Password)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "login failed", err)
	}
	if !auth.Allowed(user.Role, section) {
		return nil, NewExitError(ExitFailure,
			"role "+string(user.Role)+" may not open "+string(section))
	}

	var st store.Store
	if opts.DB == ":memory:" {
		st = store.NewMemory()
	} else {
		st, err = store.Open(opts.DB)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "opening database", err)
		}
	}

	// Resume order/receipt numbering past everything the store
	// already holds, seeded transactions included.
	orders, err := st.ListOrders(cmd.Context())
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "reading database", err)
	}
	txns, err := st.ListTransactions(cmd.Context())
	if err != nil {
		st.Close()
		return nil, WrapExitError(ExitCommandError, "reading database", err)
	}

	return &session{
		opts:    opts,
		catalog: cat,
		user:    user,
		store:   st,
		checkout: checkout.New(st, cat,
			checkout.WithSequence(checkout.ResumeSequence(orders, txns)),
		),
		render: receipt.NewRenderer(cat),
		out: &OutputFormatter{
			Format:    opts.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   opts.Verbose,
		},
	}, nil
}

func (s *session) Close() error {
	return s.store.Close()
}

// rejected reports a domain rejection through the formatter and turns
// it into an exit-code-1 error.
func (s *session) rejected(code, message string) error {
	s.out.Error(code, message)
	return NewExitError(ExitFailure, message)
}
