package commands

import (
	"github.com/spf13/cobra"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/internal/logic"
)

// NewDeriveCommand creates a new cobra command for the derive subcommand.
func NewDeriveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "derive [flags] [seed files/dirs...]",
		Aliases: []string{"der"},
		Short:   "Derive secret exports",
		Long: `Without positional arguments the secret is derived from --password, --password-file
or a password read from the terminal, and written to --output.
With positional arguments every file is used as a seed and its export is written
next to it with --suffix appended.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(cfg),
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cfg.HasSeed() && len(cfg.Files) == 0 {
				password, err := promptPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
				if err != nil {
					return err
				}

				cfg.Password = password
			}

			return logic.RunDerive(cfg, newLogger(cmd.ErrOrStderr(), cfg.Quiet))
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output path when deriving from a password")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy seed file modification times to their exports")

	return cmd
}
