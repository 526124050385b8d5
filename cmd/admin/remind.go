package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"carteira/internal/interfaces/scheduler"
)

func remindCmd() *cobra.Command {
	var (
		userIDs []string
		all     bool
		date    string
		workers int
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send the invoice reminders due on a date",
		Long: `Runs the same reminder jobs as the API scheduler, on demand.
Reminders already sent for a card and invoice are not sent again.`,
		Example: `  admin remind --user=u-1
  admin remind --user=u-1,u-2 --date=2026-03-10
  admin remind --all --workers=8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(userIDs) == 0 && !all {
				return errors.New("must specify --user or --all")
			}

			on := time.Now()
			if date != "" {
				parsed, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q (expected YYYY-MM-DD): %w", date, err)
				}
				on = parsed
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := openServices(cmd.Context(), cfg, true)
			if err != nil {
				return err
			}
			defer svc.Close()

			var jobs []scheduler.Job
			if all {
				jobs, err = scheduler.InvoiceReminderJobs(svc.cards, svc.reminders)(cmd.Context(), on)
				if err != nil {
					return err
				}
			} else {
				for _, id := range userIDs {
					jobs = append(jobs, scheduler.NewInvoiceReminderJob(id, on, svc.reminders))
				}
			}

			if len(jobs) == 0 {
				slog.Info("no users to process")
				return nil
			}

			slog.Info("sending reminders", "users", len(jobs), "date", on.Format(time.DateOnly), "workers", workers)
			startTime := time.Now()

			pool := scheduler.NewWorkerPool(workers, 0, cfg.Scheduler.JobTimeout, len(jobs))
			pool.Start()
			queued := pool.SubmitBatch(jobs)
			pool.ShutdownWithTimeout(timeout)

			slog.Info("reminders completed", "queued", queued, "elapsed", time.Since(startTime))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&userIDs, "user", nil, "user ID(s) to remind (comma-separated)")
	cmd.Flags().BoolVar(&all, "all", false, "remind every user with an active card")
	cmd.Flags().StringVar(&date, "date", "", "reminder date as YYYY-MM-DD (default: today)")
	cmd.Flags().IntVar(&workers, "workers", 4, "number of concurrent workers")
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Minute, "timeout for the whole run")

	return cmd
}
