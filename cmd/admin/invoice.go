package main

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"carteira/internal/domain/forecast"
	"carteira/internal/domain/installment"
)

func invoiceCmd() *cobra.Command {
	var userID, cardID, month string

	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Print the invoice of a card for a month",
		Example: `  admin invoice --user=u-1 --card=c-1
  admin invoice --user=u-1 --card=c-1 --month=2026-03`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := monthOrCurrent(month)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			view, err := svc.cards.Invoice(cmd.Context(), cardID, userID, m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", view.CardName, view.Month)
			fmt.Fprintf(out, "cycle %s .. %s, due %s\n\n",
				view.Cycle.Start.Format(time.DateOnly), view.Cycle.End.Format(time.DateOnly), view.DueDate.Format(time.DateOnly))
			printLineItems(out, view.Items)
			fmt.Fprintf(out, "\ntotal: %s\n", view.Total.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "owner of the card")
	cmd.Flags().StringVar(&cardID, "card", "", "card ID")
	cmd.Flags().StringVar(&month, "month", "", "invoice month as YYYY-MM (default: current month)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("card")

	return cmd
}

func projectionCmd() *cobra.Command {
	var userID, start string
	var months int

	cmd := &cobra.Command{
		Use:   "projection",
		Short: "Print a user's monthly income and expense projection",
		Example: `  admin projection --user=u-1
  admin projection --user=u-1 --months=12 --start=2026-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := monthOrCurrent(start)
			if err != nil {
				return err
			}
			if months < 0 || months > forecast.MaxMonthsAhead {
				return forecast.ErrInvalidHorizon
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer svc.Close()

			p, err := svc.forecasts.Project(cmd.Context(), userID, months, m)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "contracts per month: %s\n\n", p.ContractsMonthlyTotal.StringFixed(2))

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "MONTH\tINCOME\tEXPENSES\tBALANCE\t")
			for _, s := range p.Months {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n",
					s.Month, s.Income.StringFixed(2), s.Expenses.StringFixed(2), s.Balance.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "user to project")
	cmd.Flags().IntVar(&months, "months", forecast.DefaultMonthsAhead, "months after the start month")
	cmd.Flags().StringVar(&start, "start", "", "first month as YYYY-MM (default: current month)")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func printLineItems(out io.Writer, items []installment.LineItem) {
	if len(items) == 0 {
		fmt.Fprintln(out, "(no installments)")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DATE\tDESCRIPTION\tINSTALLMENT\tAMOUNT")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%s\n",
			item.Date.Format(time.DateOnly),
			item.Purchase.Description,
			item.CurrentInstallment,
			item.Purchase.InstallmentCount,
			item.Amount.StringFixed(2),
		)
	}
	_ = w.Flush()
}

// monthOrCurrent parses a YYYY-MM flag value, defaulting to the current month.
func monthOrCurrent(s string) (installment.Month, error) {
	if s == "" {
		return installment.MonthOf(time.Now()), nil
	}
	m, err := installment.ParseMonth(s)
	if err != nil {
		return installment.Month{}, errors.Join(errors.New("invalid --month/--start value"), err)
	}
	return m, nil
}
