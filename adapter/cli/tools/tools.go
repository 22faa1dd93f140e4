// Package tools holds the catalog commands.
package tools

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/felixgeelhaar/inkwell/adapter/cli"
	catalogApp "github.com/felixgeelhaar/inkwell/internal/catalog/application"
	"github.com/spf13/cobra"
)

// Cmd is the tools command group.
var Cmd = &cobra.Command{
	Use:   "tools",
	Short: "Browse the tool catalog",
	Long:  `List the writing tools, their modes, Pro-only gating and SEO metadata.`,
}

func init() {
	Cmd.AddCommand(listCmd)
	Cmd.AddCommand(showCmd)
	Cmd.AddCommand(metaCmd)
	Cmd.AddCommand(modesCmd)
}

func catalog() (*catalogApp.Service, error) {
	app := cli.GetApp()
	if app == nil || app.Catalog == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app.Catalog, nil
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
