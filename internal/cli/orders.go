package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/checkout"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
	"github.com/roach88/till/internal/store"
)

// OrdersOptions holds flags for the orders command family.
type OrdersOptions struct {
	*RootOptions
	All      bool
	Pay      string
	Tendered float64
}

// NewOrdersCommand creates the orders command and its subcommands.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &OrdersOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Track and move orders through the kitchen",
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List orders (active by default)",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersList(cmd, opts)
		},
	}
	list.Flags().BoolVar(&opts.All, "all", false, "include completed and cancelled orders")

	advance := &cobra.Command{
		Use:           "advance ORDER",
		Short:         "Move an order one step forward",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersAdvance(cmd, opts, args[0])
		},
	}

	cancel := &cobra.Command{
		Use:           "cancel ORDER",
		Short:         "Cancel an order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersCancel(cmd, opts, args[0])
		},
	}

	settle := &cobra.Command{
		Use:           "settle ORDER",
		Short:         "Collect payment on a dine-in order",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrdersSettle(cmd, opts, args[0])
		},
	}
	settle.Flags().StringVar(&opts.Pay, "pay", string(sales.Cash), "payment method (cash|card|mobile)")
	settle.Flags().Float64Var(&opts.Tendered, "tendered", 0, "cash handed over (0 = exact)")

	cmd.AddCommand(list, advance, cancel, settle)
	return cmd
}

// findOrder resolves an operator-supplied reference: an ORD- number as
// printed on tickets, or a raw internal id.
func findOrder(sess *session, cmd *cobra.Command, ref string) (*order.Order, error) {
	if strings.HasPrefix(ref, "ORD-") {
		all, err := sess.store.ListOrders(cmd.Context())
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "reading database", err)
		}
		for i := range all {
			if all[i].OrderNumber == ref {
				return &all[i], nil
			}
		}
		return nil, NewExitError(ExitCommandError, "no order "+ref)
	}
	o, err := sess.store.GetOrder(cmd.Context(), ref)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NewExitError(ExitCommandError, "no order "+ref)
	}
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "reading database", err)
	}
	return o, nil
}

func runOrdersList(cmd *cobra.Command, opts *OrdersOptions) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionOrders)
	if err != nil {
		return err
	}
	defer sess.Close()

	var orders []order.Order
	if opts.All {
		orders, err = sess.store.ListOrders(cmd.Context())
	} else {
		orders, err = sess.store.ActiveOrders(cmd.Context())
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "reading database", err)
	}

	if sess.out.Format == "json" {
		return sess.out.Success(orders)
	}

	if len(orders) == 0 {
		return sess.out.Success("no orders")
	}
	now := time.Now()
	var b strings.Builder
	fmt.Fprintf(&b, "%-12s %-10s %-9s %-6s %9s  %s\n",
		"ORDER", "STATUS", "TYPE", "TABLE", "TOTAL", "AGE")
	for _, o := range orders {
		age := now.Sub(o.CreatedAt).Round(time.Minute)
		flag := ""
		if o.Urgent(now) {
			flag = " !"
		}
		fmt.Fprintf(&b, "%-12s %-10s %-9s %-6s %9.2f  %s%s\n",
			o.OrderNumber, o.Status, o.Type, o.TableID, o.Total, age, flag)
	}
	return sess.out.Success(strings.TrimRight(b.String(), "\n"))
}

func runOrdersAdvance(cmd *cobra.Command, opts *OrdersOptions, ref string) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionOrders)
	if err != nil {
		return err
	}
	defer sess.Close()

	o, err := findOrder(sess, cmd, ref)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := o.Advance(now); err != nil {
		var te *order.TransitionError
		if errors.As(err, &te) {
			return sess.rejected(string(te.Code), err.Error())
		}
		return WrapExitError(ExitCommandError, "advance failed", err)
	}
	if err := sess.store.UpdateOrderStatus(cmd.Context(), o.ID, o.Status, now); err != nil {
		return WrapExitError(ExitCommandError, "writing database", err)
	}

	if sess.out.Format == "json" {
		return sess.out.Success(o)
	}
	return sess.out.Success(fmt.Sprintf("%s is now %s", o.OrderNumber, o.Status))
}

func runOrdersCancel(cmd *cobra.Command, opts *OrdersOptions, ref string) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionOrders)
	if err != nil {
		return err
	}
	defer sess.Close()

	o, err := findOrder(sess, cmd, ref)
	if err != nil {
		return err
	}

	now := time.Now()
	if err := o.Cancel(now); err != nil {
		var te *order.TransitionError
		if errors.As(err, &te) {
			return sess.rejected(string(te.Code), err.Error())
		}
		return WrapExitError(ExitCommandError, "cancel failed", err)
	}
	if err := sess.store.UpdateOrderStatus(cmd.Context(), o.ID, o.Status, now); err != nil {
		return WrapExitError(ExitCommandError, "writing database", err)
	}

	if sess.out.Format == "json" {
		return sess.out.Success(o)
	}
	return sess.out.Success(o.OrderNumber + " cancelled")
}

func runOrdersSettle(cmd *cobra.Command, opts *OrdersOptions, ref string) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionOrders)
	if err != nil {
		return err
	}
	defer sess.Close()

	o, err := findOrder(sess, cmd, ref)
	if err != nil {
		return err
	}

	txn, err := sess.checkout.Settle(cmd.Context(), o.ID, sales.PaymentMethod(opts.Pay), opts.Tendered)
	if err != nil {
		if code, ok := checkout.IsReject(err); ok {
			return sess.rejected(string(code), err.Error())
		}
		return WrapExitError(ExitCommandError, "settle failed", err)
	}

	if sess.out.Format == "json" {
		return sess.out.Success(txn)
	}
	return sess.out.Success(strings.TrimRight(sess.render.Receipt(txn), "\n"))
}
