// Package commands provides the command-line interface for the pixsecret tool.
//
// It implements commands for:
//   - deriving secret exports from a password or from seed files
//   - inspecting and verifying exports
//   - checking include/exclude patterns
//   - generating random passwords
//
// Flags are bound to PIXSECRET_* environment variables through viper and the
// resulting configuration is validated before any command runs.
package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/pixsecret/internal/config"
)

// errShown stops execution after --show printed the configuration.
var errShown = errors.New("configuration shown")

// preRun returns a PreRunE handler that loads flags and environment into cfg,
// resolves positional args into cfg.Files and validates the configuration.
// defaultFiles is used when no positional args are given.
func preRun(cfg *config.Config, defaultFiles ...string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := load(cmd, cfg); err != nil {
			return err
		}

		cfg.Files = args
		if len(args) == 0 {
			cfg.Files = defaultFiles
		}

		if cfg.Show {
			out, err := yaml.Marshal(cfg.Masked())
			if err != nil {
				return fmt.Errorf("rendering configuration: %w", err)
			}

			fmt.Fprint(cmd.OutOrStdout(), string(out))

			return errShown
		}

		return cfg.Validate()
	}
}

// load binds the command's flags and PIXSECRET_* environment variables into cfg.
func load(cmd *cobra.Command, cfg *config.Config) error {
	v := viper.New()

	v.SetEnvPrefix("PIXSECRET")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}

// Execute runs the root command and reports whether it failed.
func Execute(version string) int {
	var cfg config.Config

	root := NewRootCommand(&cfg, version)

	if err := root.Execute(); err != nil {
		if err == errShown { //nolint:errorlint // sentinel is returned unwrapped
			return 0
		}

		fmt.Fprintln(os.Stderr, "Error:", err)

		return 1
	}

	return 0
}
