package commands

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/idelchi/pixsecret/internal/config"
	"github.com/idelchi/pixsecret/pkg/digest"
)

// NewRootCommand creates the root command with common configuration.
// Persistent flags are shared by every subcommand and can also be set through
// PIXSECRET_* environment variables.
func NewRootCommand(cfg *config.Config, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "pixsecret [flags] command [flags]",
		Short: "Derive image scrambling secrets from passwords",
		Long: `Derives a substitution sequence and a 65536-entry permutation from a password
or seed file, for scrambling and descrambling pixel data.
Provides commands to derive, inspect and verify secret exports.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()

	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.Bool("stats", false, "Print a summary after processing")
	flags.Bool("dry", false, "Show what would be processed without writing anything")

	flags.StringP("password", "p", "", "Password to derive the secret from")
	flags.String("password-file", "", "File whose contents are used as the seed")
	flags.IntP("length", "n", 256, "Requested edge length; the substitution sequence covers length² values")
	flags.String("digest", digest.SHA512.String(), "Digest used for expansion: sha512, blake2b-512 or sha3-512")

	flags.StringP("key", "k", "", "Sealing key (at least 32 bytes, hex-encoded)")
	flags.StringP("key-file", "f", "", "Path to a file with the hex-encoded sealing key")
	flags.String("suffix", ".pxs", "Suffix of secret exports")

	flags.StringSlice("include", nil, "Only process files matching these patterns")
	flags.StringSlice("exclude", nil, "Skip files matching these patterns")
	flags.String("include-from", "", "JSONC file with include patterns")
	flags.String("exclude-from", "", "JSONC file with exclude patterns")

	root.AddCommand(
		NewDeriveCommand(cfg),
		NewInspectCommand(cfg),
		NewCheckCommand(cfg),
		NewGenerateCommand(),
	)

	return root
}
