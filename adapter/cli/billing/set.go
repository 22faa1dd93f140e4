package billing

import (
	"fmt"
	"time"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	"github.com/spf13/cobra"
)

var (
	setPlan      string
	setStatus    string
	setPeriodEnd string
)

var setCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace a subscription record",
	Long: `Create or replace a user's subscription record.

Examples:
  inkwell billing set --user 6f1c... --plan pro --status active
  inkwell billing set --user 6f1c... --plan pro --status trialing --period-end 2026-12-01`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.BillingService == nil {
			return fmt.Errorf("application not initialized - database connection required")
		}
		userID, err := parseUser()
		if err != nil {
			return err
		}

		var periodEnd *time.Time
		if setPeriodEnd != "" {
			t, err := time.Parse(time.DateOnly, setPeriodEnd)
			if err != nil {
				return fmt.Errorf("invalid --period-end (use YYYY-MM-DD): %w", err)
			}
			periodEnd = &t
		}

		sub, err := app.BillingService.SetSubscription(cmd.Context(), userID, setPlan, setStatus, periodEnd)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Subscription for %s set to %s (%s)\n", sub.UserID, sub.Plan, sub.Status)
		return nil
	},
}

func init() {
	setCmd.Flags().StringVar(&setPlan, "plan", "pro", "plan (free, pro)")
	setCmd.Flags().StringVar(&setStatus, "status", "active", "status (active, trialing, past_due, canceled)")
	setCmd.Flags().StringVar(&setPeriodEnd, "period-end", "", "current period end (YYYY-MM-DD)")
}
