package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
	"github.com/roach88/till/internal/cart"
	"github.com/roach88/till/internal/checkout"
	"github.com/roach88/till/internal/order"
	"github.com/roach88/till/internal/sales"
)

// SellOptions holds flags for the sell command.
type SellOptions struct {
	*RootOptions
	Type     string
	Table    string
	Customer string
	Pay      string
	Tendered float64
	Notes    string
}

// NewSellCommand creates the sell command.
func NewSellCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SellOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sell SKU[=QTY] [SKU[=QTY]...]",
		Short: "Ring up a sale",
		Long: `Ring up a sale from catalog SKUs.

Dine-in orders need an available table and are committed unpaid; the
tab is settled later with "orders settle". Takeaway and delivery are
paid at the counter and print a receipt.

Examples:
  till sell COFFEE-001=2 CROISSANT-001 --pay cash --tendered 20
  till sell WINGS-001 --type dine-in --table 4`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSell(cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.Type, "type", string(order.Takeaway), "order type (dine-in|takeaway|delivery)")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table id for dine-in orders")
	cmd.Flags().StringVar(&opts.Customer, "customer", "", "customer id for loyalty attribution")
	cmd.Flags().StringVar(&opts.Pay, "pay", "", "payment method (cash|card|mobile)")
	cmd.Flags().Float64Var(&opts.Tendered, "tendered", 0, "cash handed over (0 = exact)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "kitchen notes")

	return cmd
}

func runSell(cmd *cobra.Command, opts *SellOptions, args []string) error {
	sess, err := newSession(cmd, opts.RootOptions, auth.SectionPOS)
	if err != nil {
		return err
	}
	defer sess.Close()

	// Repeated SKUs accumulate, so "COFFEE-001 COFFEE-001" rings up
	// two coffees.
	wanted := make(map[string]int)
	var c cart.Cart
	c.TableID = opts.Table
	c.CustomerID = opts.Customer
	for _, arg := range args {
		sku, qty, err := parseLine(arg)
		if err != nil {
			return WrapExitError(ExitCommandError, "bad line item", err)
		}
		p, ok := sess.catalog.ProductBySKU(sku)
		if !ok {
			return NewExitError(ExitCommandError, "unknown SKU "+sku)
		}
		if wanted[p.ID] == 0 {
			c.AddProduct(p)
		}
		wanted[p.ID] += qty
		c.SetQuantity(p.ID, wanted[p.ID])
	}

	res, err := sess.checkout.Checkout(cmd.Context(), &c, checkout.Request{
		Cashier:       sess.user,
		Type:          order.Type(opts.Type),
		TableID:       opts.Table,
		PaymentMethod: sales.PaymentMethod(opts.Pay),
		Tendered:      opts.Tendered,
		Notes:         opts.Notes,
	})
	if err != nil {
		if code, ok := checkout.IsReject(err); ok {
			return sess.rejected(string(code), err.Error())
		}
		return WrapExitError(ExitCommandError, "checkout failed", err)
	}

	if sess.out.Format == "json" {
		return sess.out.Success(res)
	}
	if res.Transaction != nil {
		return sess.out.Success(strings.TrimRight(sess.render.Receipt(res.Transaction), "\n"))
	}
	return sess.out.Success(fmt.Sprintf("%s committed for table %s: %d line(s), total %.2f (pay on settle)",
		res.Order.OrderNumber, res.Order.TableID, len(res.Order.Items), res.Order.Total))
}

// parseLine splits SKU=QTY. A bare SKU means quantity 1.
func parseLine(arg string) (sku string, qty int, err error) {
	sku, raw, found := strings.Cut(arg, "=")
	if sku == "" {
		return "", 0, fmt.Errorf("empty SKU in %q", arg)
	}
	if !found {
		return sku, 1, nil
	}
	qty, err = strconv.Atoi(raw)
	if err != nil || qty < 1 {
		return "", 0, fmt.Errorf("bad quantity %q for %s", raw, sku)
	}
	return sku, qty, nil
}
