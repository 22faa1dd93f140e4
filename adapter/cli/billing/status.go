package billing

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func parseUser() (uuid.UUID, error) {
	if userFlag == "" {
		return uuid.Nil, fmt.Errorf("--user is required")
	}
	id, err := uuid.Parse(userFlag)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --user: %w", err)
	}
	return id, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show subscription status",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BillingService == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Billing status requires database connection.")
			return nil
		}
		userID, err := parseUser()
		if err != nil {
			return err
		}

		subscription, err := app.BillingService.GetSubscription(cmd.Context(), userID)
		if err != nil {
			return err
		}
		if subscription == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "No subscription found.")
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription: %s (%s)\n", subscription.Plan, subscription.Status)
		if subscription.CurrentPeriodEnd != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Renews: %s\n", subscription.CurrentPeriodEnd.Local().Format(time.RFC1123))
		}
		if subscription.IsActive() {
			fmt.Fprintln(cmd.OutOrStdout(), "Pro modes: unlocked")
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "Pro modes: locked")
		}
		return nil
	},
}
