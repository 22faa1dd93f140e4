package tools

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tools",
	Aliases: []string{"ls"},
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := catalog()
		if err != nil {
			return err
		}
		tools := svc.Tools()
		if listJSON {
			return writeJSON(cmd.OutOrStdout(), tools)
		}
		for _, t := range tools {
			fmt.Fprintf(cmd.OutOrStdout(), "%-20s %-20s %d modes\n", t.ID, t.Name, len(t.Modes))
		}
		return nil
	},
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
}
