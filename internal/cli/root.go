// Package cli implements the harplay command tree.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/raysh454/harplay/internal/app"
	"github.com/raysh454/harplay/internal/config"
)

const defaultConfigPath = "harplay.json5"

// root carries state from the persistent flags to the subcommands.
type root struct {
	configPath string
	envFile    string
	logLevel   string
	logFormat  string

	app *app.Application
}

// NewRootCommand builds the command tree. It reads nothing from os.Args, so
// tests can drive it with SetArgs.
func NewRootCommand() *cobra.Command {
	r := &root{}

	cmd := &cobra.Command{
		Use:           "harplay",
		Short:         "Converts recorded HTTP archives into replayable load-test scenarios.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return r.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&r.configPath, "config", defaultConfigPath, "path to a JSON5 config file; <name>.local.json5 overrides it")
	flags.StringVar(&r.envFile, "env-file", ".env", "dotenv file loaded before HARPLAY_* overrides are read")
	flags.StringVar(&r.logLevel, "log-level", "", "debug, info, warn or error")
	flags.StringVar(&r.logFormat, "log-format", "", "text or json")

	cmd.AddCommand(
		newConvertCommand(r),
		newSummaryCommand(r),
		newServeCommand(r),
	)
	return cmd
}

// Execute runs the command tree against os.Args and reports errors on
// stderr. It returns the process exit code.
func Execute() int {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "error:", err)
		return 1
	}
	return 0
}

func (r *root) setup(cmd *cobra.Command) error {
	if err := config.LoadEnv(r.envFile); err != nil {
		return err
	}

	if cmd.Flags().Changed("config") {
		if _, err := os.Stat(r.configPath); err != nil {
			return fmt.Errorf("config file: %w", err)
		}
	}
	cfg, err := app.LoadConfig(r.configPath)
	if err != nil {
		return err
	}
	if r.logLevel != "" {
		cfg.Logging.Level = r.logLevel
	}
	if r.logFormat != "" {
		cfg.Logging.Format = r.logFormat
	}

	logger, err := app.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	r.app = app.NewApplication(cfg, logger)
	return nil
}

// openInput opens path for reading; "-" reads from in.
func openInput(path string, in io.Reader) (io.ReadCloser, error) {
	if path == "-" {
		if in == nil {
			return nil, errors.New("no standard input")
		}
		return io.NopCloser(in), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}
