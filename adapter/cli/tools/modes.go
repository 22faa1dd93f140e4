package tools

import (
	"fmt"

	"github.com/felixgeelhaar/inkwell/internal/catalog/domain"
	"github.com/spf13/cobra"
)

var modesPro bool

var modesCmd = &cobra.Command{
	Use:   "modes <tool-id>",
	Short: "Show which modes are locked",
	Long: `Show each mode of a tool and whether it is locked for a caller without
(default) or with (--pro) an active subscription.`,
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
		for _, m := range domain.ModeAccessFor(tool, modesPro) {
			state := "open"
			if m.Locked {
				state = "locked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%-14s %s\n", m.ID, state)
		}
		return nil
	},
}

func init() {
	modesCmd.Flags().BoolVar(&modesPro, "pro", false, "evaluate for an active subscriber")
}
