package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"learnhub/backend/routes"
	"learnhub/backend/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the reminder scheduler",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		scheduler := services.NewSchedulerService(time.UTC)
		entry, err := scheduler.Schedule(rt.cfg.ReminderCron, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			sent, err := rt.services.Reminders.SendInactivityReminders(ctx, time.Now())
			if err != nil {
				rt.logger.Printf("reminder sweep: %v", err)
				return
			}
			rt.logger.Printf("reminder sweep: %d reminders sent", sent)
		})
		if err != nil {
			return err
		}
		scheduler.Start()
		rt.logger.Printf("reminder sweep scheduled, next run at %s", scheduler.Next(entry).Format(time.RFC3339))

		app := routes.NewApp(rt.db, rt.cfg, rt.services, rt.logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		errCh := make(chan error, 1)
		go func() {
			errCh <- app.Listen(":" + rt.cfg.ServerPort)
		}()

		select {
		case err = <-errCh:
			err = fmt.Errorf("server stopped: %w", err)
		case <-ctx.Done():
			rt.logger.Println("shutting down")
			err = app.ShutdownWithTimeout(10 * time.Second)
		}

		scheduler.Stop()
		rt.services.Mail.Wait()
		return err
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
