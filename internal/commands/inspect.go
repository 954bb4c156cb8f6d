package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/logic"
)

// NewInspectCommand creates a new cobra command for the inspect subcommand.
func NewInspectCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "inspect [flags] [exports/dirs...]",
		Aliases: []string{"ins", "verify"},
		Short:   "Validate exports and optionally verify them against a password",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg, "."),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunInspect(cfg, newLogger(cmd.ErrOrStderr(), cfg.Quiet))
		},
	}
}
