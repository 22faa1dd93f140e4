// Package billing holds the subscription commands.
package billing

import "github.com/spf13/cobra"

// Cmd is the billing command group.
var Cmd = &cobra.Command{
	Use:   "billing",
	Short: "Inspect and set subscription records",
	Long: `Inspect a user's mirrored subscription record, or set it by hand.

Payment itself is handled by the payment provider; these commands only touch
the local record that Pro-mode gating reads.`,
}

var userFlag string

func init() {
	Cmd.PersistentFlags().StringVar(&userFlag, "user", "", "user id (uuid)")
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(setCmd)
}
