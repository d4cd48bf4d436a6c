package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/raysh454/harplay/internal/model"
)

func newSummaryCommand(r *root) *cobra.Command {
	var filters filterFlags

	cmd := &cobra.Command{
		Use:   "summary <archive.har|->",
		Short: "Prints a table of the requests a scenario would replay.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := filters.convert(cmd, r, args[0])
			if err != nil {
				return fmt.Errorf("summary %s: %w", args[0], err)
			}
			renderSummary(cmd, def)
			return nil
		},
	}

	filters.register(cmd)
	return cmd
}

func renderSummary(cmd *cobra.Command, def *model.ScenarioDefinition) {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.AppendHeader(table.Row{"#", "Method", "URI", "Status", "Body", "Resources"})

	resources := 0
	for i, el := range def.Elements {
		kind := model.BodyKindNone
		if el.Element.Body != nil {
			kind = el.Element.Body.Kind()
		}
		t.AppendRow(table.Row{i, el.Element.Method, el.Element.URI, el.Element.Status, kind, len(el.Element.Resources)})
		resources += len(el.Element.Resources)
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d requests", len(def.Elements)), "", "", resources})

	t.SetStyle(table.StyleRounded)
	t.Style().Format.Footer = text.FormatDefault
	t.Render()
}
