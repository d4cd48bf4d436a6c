package cli

import (
	"fmt"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/raysh454/harplay/internal/model"
)

// filterFlags extend the configured filters for a single run.
type filterFlags struct {
	allow      []string
	deny       []string
	hosts      []string
	skipStatic bool
}

func (f *filterFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringArrayVar(&f.allow, "allow", nil, "keep only URLs fully matching this regexp (repeatable)")
	flags.StringArrayVar(&f.deny, "deny", nil, "drop URLs fully matching this regexp (repeatable)")
	flags.StringArrayVar(&f.hosts, "host", nil, "keep only requests to this host (repeatable)")
	flags.BoolVar(&f.skipStatic, "skip-static", false, "drop scripts, stylesheets, images and fonts")
}

// convert applies the flags on top of the configured filters and runs the
// conversion for path.
func (f *filterFlags) convert(cmd *cobra.Command, r *root, path string) (*model.ScenarioDefinition, error) {
	filters := &r.app.Config.Filters
	filters.Allow = append(filters.Allow, f.allow...)
	filters.Deny = append(filters.Deny, f.deny...)
	filters.Hosts = append(filters.Hosts, f.hosts...)
	if cmd.Flags().Changed("skip-static") {
		filters.SkipStatic = f.skipStatic
	}

	opts, err := r.app.Options()
	if err != nil {
		return nil, err
	}

	in, err := openInput(path, cmd.InOrStdin())
	if err != nil {
		return nil, err
	}
	defer in.Close()

	return r.app.Converter.Convert(in, opts)
}

func newConvertCommand(r *root) *cobra.Command {
	var (
		filters filterFlags
		indent  bool
	)

	cmd := &cobra.Command{
		Use:   "convert <archive.har|->",
		Short: "Converts an HTTP archive into a scenario definition and prints it as JSON.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := filters.convert(cmd, r, args[0])
			if err != nil {
				return fmt.Errorf("convert %s: %w", args[0], err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			if indent {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(def)
		},
	}

	filters.register(cmd)
	cmd.Flags().BoolVar(&indent, "indent", false, "pretty-print the JSON output")
	return cmd
}
