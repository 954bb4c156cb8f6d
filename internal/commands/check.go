package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "check [flags] [paths...]",
		Short:   "Validate that include/exclude patterns match files",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, "."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunCheck(cfg, newLogger(cmd.ErrOrStderr(), cfg.Quiet))
		},
	}
}
