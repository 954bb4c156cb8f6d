package commands

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
)

const passwordAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!@#%+="

// NewGenerateCommand creates a command printing a random password suitable as a seed.
func NewGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a random password",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			chars, err := cmd.Flags().GetInt("chars")
			if err != nil {
				return err
			}

			password, err := generatePassword(chars)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), password)

			return nil
		},
	}

	cmd.Flags().Int("chars", 32, "Number of characters")

	return cmd
}

func generatePassword(length int) (string, error) {
	if length < 1 {
		return "", errors.New("password length must be positive")
	}

	limit := big.NewInt(int64(len(passwordAlphabet)))
	out := make([]byte, length)

	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generating password: %w", err)
		}

		out[i] = passwordAlphabet[idx.Int64()]
	}

	return string(out), nil
}
