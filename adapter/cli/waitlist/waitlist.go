// Package waitlist holds the waitlist commands.
package waitlist

import (
	"fmt"
	"strings"
	"time"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	waitlistApp "github.com/felixgeelhaar/inkwell/internal/waitlist/application"
	"github.com/spf13/cobra"
)

// Cmd is the waitlist command group.
var Cmd = &cobra.Command{
	Use:   "waitlist",
	Short: "Manage the waitlist",
}

var (
	joinName   string
	joinTools  []string
	joinSource string
	listLimit  int
)

func service() (*waitlistApp.Service, error) {
	app := cli.GetApp()
	if app == nil || app.WaitlistService == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	return app.WaitlistService, nil
}

var joinCmd = &cobra.Command{
	Use:   "join <email>",
	Short: "Add an address to the waitlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service()
		if err != nil {
			return err
		}
		res, err := svc.Join(cmd.Context(), waitlistApp.JoinCommand{
			Email:  args[0],
			Name:   joinName,
			Tools:  joinTools,
			Source: joinSource,
		})
		if err != nil {
			return err
		}
		if res.Created {
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s to the waitlist\n", res.Entry.Email)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already on the waitlist\n", res.Entry.Email)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List recent signups",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service()
		if err != nil {
			return err
		}
		entries, err := svc.List(cmd.Context(), listLimit)
		if err != nil {
			return err
		}
		total, err := svc.Count(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "%s  %-32s %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Email, strings.Join(e.Tools, ","))
		}
		fmt.Fprintf(out, "%d of %d signups\n", len(entries), total)
		return nil
	},
}

func init() {
	joinCmd.Flags().StringVar(&joinName, "name", "", "display name")
	joinCmd.Flags().StringSliceVar(&joinTools, "tools", nil, "tools of interest (comma separated)")
	joinCmd.Flags().StringVar(&joinSource, "source", "cli", "signup source")
	listCmd.Flags().IntVar(&listLimit, "limit", waitlistApp.DefaultListLimit, "maximum entries to show")

	Cmd.AddCommand(joinCmd)
	Cmd.AddCommand(listCmd)
}
