package tools

import (
	"github.com/spf13/cobra"
)

var metaPage bool

var metaCmd = &cobra.Command{
	Use:   "meta [tool-id|page]",
	Short: "Print SEO metadata as JSON",
	Long: `Print the SEO metadata for a tool id, an informational page (with --page),
or the home page when no argument is given. Unknown ids print the site default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := catalog()
		if err != nil {
			return err
		}
		switch {
		case len(args) == 0:
			return writeJSON(cmd.OutOrStdout(), svc.HomeMetadata())
		case metaPage:
			return writeJSON(cmd.OutOrStdout(), svc.PageMetadata(args[0]))
		default:
			return writeJSON(cmd.OutOrStdout(), svc.Metadata(args[0]))
		}
	},
}

func init() {
	metaCmd.Flags().BoolVar(&metaPage, "page", false, "treat the argument as a page slug")
}
