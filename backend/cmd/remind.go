package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var remindCmd = &cobra.Command{
	Use:   "remind",
	Short: "Send inactivity reminders once and exit",
	Long: `Mail and notify the owners of unfinished learning tasks that have not been
updated for INACTIVITY_DAYS days. The serve command runs the same sweep on
REMINDER_CRON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}

		sent, err := rt.services.Reminders.SendInactivityReminders(cmd.Context(), time.Now())
		rt.services.Mail.Wait()
		if err != nil {
			return fmt.Errorf("sending reminders: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d reminders sent.\n", sent)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(remindCmd)
}
