// Package seed acquires the raw bytes secrets are derived from.
package seed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
)

// ErrIO is returned when seed material cannot be read.
var ErrIO = errors.New("reading seed")

// Seed is immutable seed material.
type Seed []byte

// FromText returns the UTF-8 encoding of text.
func FromText(text string) Seed {
	return Seed(text)
}

// FromBytes returns a copy of b.
func FromBytes(b []byte) Seed {
	return Seed(slices.Clone(b))
}

// FromFile reads the current contents of path. Each call opens and reads the file
// again, so changes on disk between calls are observed.
func FromFile(path string) (Seed, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("%w: opening %q: %w", ErrIO, path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %q: %w", ErrIO, path, err)
	}

	return Seed(data), nil
}

// FromReader consumes r entirely.
func FromReader(r io.Reader) (Seed, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}

	return Seed(data), nil
}

// Bytes returns a copy of the seed material.
func (s Seed) Bytes() []byte {
	return slices.Clone([]byte(s))
}
