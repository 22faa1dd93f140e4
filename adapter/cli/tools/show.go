package tools

import (
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <tool-id>",
	Short: "Show a tool and its modes",
	Long: `Show a tool and its modes. Unknown ids are reported as an error here;
the web routes fall back to the grammar checker instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := catalog()
		if err != nil {
			return err
		}
		tool, ok := svc.Lookup(args[0])
		if !ok {
			return fmt.Errorf("unknown tool %q", args[0])
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s)\n", tool.Name, tool.ID)
		fmt.Fprintf(out, "%s\n\n", tool.Summary)
		for _, m := range svc.View(cmd.Context(), tool.ID, nil).Modes {
			marker := ""
			if m.ProOnly {
				marker = " [Pro]"
			}
			fmt.Fprintf(out, "  %-14s %s%s\n", m.ID, m.Description, marker)
		}
		return nil
	},
}
