package cli

import (
	"fmt"
	"io"

	"github.com/fekuna/omnipos-register/internal/invoice/receipt"
	"github.com/fekuna/omnipos-register/internal/model"
	"github.com/spf13/cobra"
)

type salesOptions struct {
	from  string
	to    string
	today bool
	month bool
}

func NewSalesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &salesOptions{}

	cmd := &cobra.Command{
		Use:   "sales",
		Short: "Summarize committed sales",
		Long: `Summarize committed invoices over an inclusive date range.

--today and --month print the running total for the current day or month.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			out := newFormatter(rootOpts, cmd.OutOrStdout())
			s, err := a.Settings.GetSettings(cmd.Context())
			if err != nil {
				return err
			}

			if opts.today || opts.month {
				label := "today"
				total, err := a.Analytics.TotalSalesToday(cmd.Context())
				if opts.month {
					label = "month"
					total, err = a.Analytics.TotalSalesMonth(cmd.Context())
				}
				if err != nil {
					return err
				}
				return out.Print(map[string]any{"period": label, "total": total}, func(w io.Writer) {
					fmt.Fprintf(w, "%s\t%s\n", label, receipt.Money(s.Currency, total))
				})
			}

			summary, err := a.Analytics.SalesBetween(cmd.Context(), opts.from, opts.to)
			if err != nil {
				return err
			}
			return out.Print(summary, salesTable(summary, s.Currency))
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&opts.to, "to", "", "last day, YYYY-MM-DD")
	cmd.Flags().BoolVar(&opts.today, "today", false, "total for today")
	cmd.Flags().BoolVar(&opts.month, "month", false, "total for the current month")
	cmd.MarkFlagsMutuallyExclusive("today", "month")
	return cmd
}

func salesTable(s *model.SalesSummary, cur string) func(w io.Writer) {
	return func(w io.Writer) {
		from, to := s.From, s.To
		if from == "" {
			from = "-"
		}
		if to == "" {
			to = "-"
		}
		fmt.Fprintf(w, "range\t%s .. %s\n", from, to)
		fmt.Fprintf(w, "invoices\t%d\n", s.Count)
		fmt.Fprintf(w, "units\t%d\n", s.Units)
		fmt.Fprintf(w, "subtotal\t%s\n", receipt.Money(cur, s.Subtotal))
		fmt.Fprintf(w, "tax\t%s\n", receipt.Money(cur, s.Tax))
		fmt.Fprintf(w, "total\t%s\n", receipt.Money(cur, s.Total))
	}
}

func NewReceiptCommand(rootOpts *RootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "receipt <invoice-id>",
		Short: "Render the receipt of a committed invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			inv, err := a.Invoices.GetInvoice(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if inv == nil {
				return fmt.Errorf("invoice %s not found", args[0])
			}
			s, err := a.Settings.GetSettings(cmd.Context())
			if err != nil {
				return err
			}

			body, _, err := receipt.Render(format, inv, s)
			if err != nil {
				return err
			}
			_, err = io.WriteString(cmd.OutOrStdout(), body)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "as", receipt.FormatText, "receipt format (text|html)")
	return cmd
}
