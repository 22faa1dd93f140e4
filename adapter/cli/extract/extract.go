// Package extract holds the text extraction commands.
package extract

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	"github.com/felixgeelhaar/inkwell/internal/extraction"
	"github.com/spf13/cobra"
)

// Cmd is the extract command group.
var Cmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract plain text from a document or a web page",
}

var fileCmd = &cobra.Command{
	Use:   "file <path>",
	Short: "Extract the text of a document",
	Long: `Extract the text of a document. Plain text is read locally; other
formats are sent to the processing backend. The upload limit applies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Documents == nil {
			return fmt.Errorf("application not initialized")
		}

		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		doc, err := app.Documents.Extract(cmd.Context(), extraction.Upload{
			Filename:    filepath.Base(args[0]),
			ContentType: mime.TypeByExtension(filepath.Ext(args[0])),
			Size:        info.Size(),
			Body:        f,
		})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
		return nil
	},
}

var urlCmd = &cobra.Command{
	Use:   "url <url>",
	Short: "Extract the readable text of a web page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := cli.GetApp()
		if app == nil || app.Articles == nil {
			return fmt.Errorf("application not initialized")
		}
		article, err := app.Articles.Extract(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if article.Title != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n", article.Title)
		}
		fmt.Fprintln(cmd.OutOrStdout(), article.Text)
		return nil
	},
}

func init() {
	Cmd.AddCommand(fileCmd)
	Cmd.AddCommand(urlCmd)
}
