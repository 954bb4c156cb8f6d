// Package config holds the runtime configuration shared by all pixsecret commands.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/idelchi/pixsecret/pkg/digest"
	"github.com/idelchi/pixsecret/pkg/seed"
)

// ErrNoKey is returned by SealKey when neither a key nor a key file is configured.
var ErrNoKey = errors.New("no sealing key configured")

// Config is populated from flags and PIXSECRET_* environment variables.
type Config struct {
	// Show prints the resolved configuration and exits.
	Show bool

	// Seed material
	Password     string `label:"password"      validate:"exclusive=PasswordFile"`
	PasswordFile string `label:"password-file" mapstructure:"password-file"`

	// Derivation
	Length int    `label:"length" validate:"min=1,max=8192"`
	Digest string `label:"digest" validate:"oneof=sha512 blake2b-512 sha3-512"`

	// Output
	Output             string
	Suffix             string `label:"suffix" validate:"required"`
	PreserveTimestamps bool   `mapstructure:"preserve-timestamps"`

	// Sealing
	Key     string `label:"key"      validate:"omitempty,hexadecimal,exclusive=KeyFile"`
	KeyFile string `label:"key-file" mapstructure:"key-file"`

	// File selection
	Include     []string
	Exclude     []string
	IncludeFrom string `mapstructure:"include-from"`
	ExcludeFrom string `mapstructure:"exclude-from"`

	// Execution
	Parallel int `label:"parallel" validate:"min=1"`
	Quiet    bool
	Stats    bool
	Dry      bool

	// Positional arguments
	Files []string `mapstructure:"-"`
}

// Validate validates the configuration against the struct tags.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := registerExclusive(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("validating configuration: %w", err)
	}

	return nil
}

// Algorithm returns the configured digest algorithm.
func (c *Config) Algorithm() (digest.Algorithm, error) {
	return digest.ParseAlgorithm(c.Digest)
}

// HasSeed reports whether a password or password file was configured.
func (c *Config) HasSeed() bool {
	return c.Password != "" || c.PasswordFile != ""
}

// Seed returns the configured password or the contents of the password file.
func (c *Config) Seed() (seed.Seed, error) {
	switch {
	case c.Password != "":
		return seed.FromText(c.Password), nil
	case c.PasswordFile != "":
		return seed.FromFile(c.PasswordFile)
	default:
		return nil, errors.New("no password or password file configured")
	}
}

// SealKey decodes the hex key from Key or KeyFile.
func (c *Config) SealKey() ([]byte, error) {
	var encoded string

	switch {
	case c.Key != "":
		encoded = c.Key
	case c.KeyFile != "":
		data, err := os.ReadFile(filepath.Clean(c.KeyFile))
		if err != nil {
			return nil, fmt.Errorf("reading key file: %w", err)
		}

		encoded = string(data)
	default:
		return nil, ErrNoKey
	}

	key, err := hex.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("invalid key format: %w", err)
	}

	return key, nil
}

// Sealed reports whether exports should be sealed.
func (c *Config) Sealed() bool {
	return c.Key != "" || c.KeyFile != ""
}

// Masked returns a copy with secrets replaced, suitable for printing.
func (c Config) Masked() Config {
	const mask = "********"

	if c.Password != "" {
		c.Password = mask
	}

	if c.Key != "" {
		c.Key = mask
	}

	return c
}
