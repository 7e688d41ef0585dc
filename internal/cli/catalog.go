package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/till/internal/auth"
)

// NewCatalogCommand creates the catalog command and its subcommands.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the product and table catalog",
	}

	products := &cobra.Command{
		Use:           "products",
		Short:         "List active products by category",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogProducts(cmd, rootOpts)
		},
	}

	tables := &cobra.Command{
		Use:           "tables",
		Short:         "List tables and their occupancy",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogTables(cmd, rootOpts)
		},
	}

	lowStock := &cobra.Command{
		Use:           "low-stock",
		Short:         "List products at or below their reorder threshold",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCatalogLowStock(cmd, rootOpts)
		},
	}

	cmd.AddCommand(products, tables, lowStock)
	return cmd
}

func runCatalogProducts(cmd *cobra.Command, rootOpts *RootOptions) error {
	sess, err := newSession(cmd, rootOpts, auth.SectionProducts)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.out.Format == "json" {
		return sess.out.Success(sess.catalog.Products)
	}

	var b strings.Builder
	for _, category := range sess.catalog.Categories() {
		fmt.Fprintln(&b, category)
		for _, p := range sess.catalog.ProductsInCategory(category) {
			fmt.Fprintf(&b, "  %-16s %-28s %7.2f  stock %d\n", p.SKU, p.Name, p.Price, p.Stock)
		}
	}
	return sess.out.Success(strings.TrimRight(b.String(), "\n"))
}

func runCatalogTables(cmd *cobra.Command, rootOpts *RootOptions) error {
	sess, err := newSession(cmd, rootOpts, auth.SectionProducts)
	if err != nil {
		return err
	}
	defer sess.Close()

	if sess.out.Format == "json" {
		return sess.out.Success(sess.catalog.Tables)
	}

	var b strings.Builder
	for _, t := range sess.catalog.Tables {
		fmt.Fprintf(&b, "%-3s %-10s seats %d  %s\n", t.ID, t.Name, t.Capacity, t.Status)
	}
	return sess.out.Success(strings.TrimRight(b.String(), "\n"))
}

func runCatalogLowStock(cmd *cobra.Command, rootOpts *RootOptions) error {
	sess, err := newSession(cmd, rootOpts, auth.SectionProducts)
	if err != nil {
		return err
	}
	defer sess.Close()

	low := sess.catalog.LowStock()
	if sess.out.Format == "json" {
		return sess.out.Success(low)
	}

	if len(low) == 0 {
		return sess.out.Success("no products low on stock")
	}
	var b strings.Builder
	for _, p := range low {
		fmt.Fprintf(&b, "%-16s %-28s stock %d (min %d)\n", p.SKU, p.Name, p.Stock, p.MinStock)
	}
	return sess.out.Success(strings.TrimRight(b.String(), "\n"))
}
