package cli

import (
	"fmt"
	"io"

	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/fekuna/omnipos-register/internal/product/dto"
	"github.com/spf13/cobra"
)

func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the starter catalog into an empty store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			seeded, err := a.Products.SeedIfEmpty(cmd.Context())
			if err != nil {
				return err
			}
			out := newFormatter(rootOpts, cmd.OutOrStdout())
			return out.Print(map[string]bool{"seeded": seeded}, func(w io.Writer) {
				if seeded {
					fmt.Fprintln(w, "starter catalog loaded")
				} else {
					fmt.Fprintln(w, "catalog not empty, nothing seeded")
				}
			})
		},
	}
}

func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	filters := &dto.ProductFilters{}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			products, err := a.Products.ListProducts(cmd.Context(), filters)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Print(products, productTable(products))
		},
	}

	cmd.Flags().StringVarP(&filters.Keyword, "query", "q", "", "match product name")
	cmd.Flags().StringVar(&filters.Category, "category", "", "exact category")
	cmd.Flags().StringVar(&filters.SortBy, "sort", "", "sort by name|price|stock")
	cmd.Flags().StringVar(&filters.SortOrder, "order", "asc", "asc|desc")
	return cmd
}

func NewLowStockCommand(rootOpts *RootOptions) *cobra.Command {
	var threshold int

	cmd := &cobra.Command{
		Use:   "low-stock",
		Short: "List products at or below a stock threshold",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if !cmd.Flags().Changed("threshold") {
				threshold = a.Config.Engine.LowStockThreshold
			}
			products, err := a.Analytics.LowStock(cmd.Context(), threshold)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd.OutOrStdout()).Print(products, productTable(products))
		},
	}

	cmd.Flags().IntVarP(&threshold, "threshold", "t", 5, "stock threshold (defaults to LOW_STOCK_THRESHOLD)")
	return cmd
}

func productTable(products []model.Product) func(w io.Writer) {
	return func(w io.Writer) {
		fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tSTOCK\tBARCODE")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n", p.ID, p.Name, p.Category, model.FormatMoney(p.Price), p.Stock, p.Barcode)
		}
	}
}
