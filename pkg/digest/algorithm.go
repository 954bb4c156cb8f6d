package digest

import (
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a 512-bit hash function usable for expansion.
type Algorithm string

const (
	// SHA512 is the default algorithm.
	SHA512 Algorithm = "sha512"
	// BLAKE2b512 is unkeyed BLAKE2b with a 64-byte digest.
	BLAKE2b512 Algorithm = "blake2b-512"
	// SHA3512 is SHA3-512.
	SHA3512 Algorithm = "sha3-512"
)

// Algorithms lists the supported algorithms in their canonical order.
//
//nolint:gochecknoglobals
var Algorithms = []Algorithm{SHA512, BLAKE2b512, SHA3512}

// ParseAlgorithm resolves a name to an Algorithm. The empty string selects SHA512.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return SHA512, nil
	}

	for _, alg := range Algorithms {
		if string(alg) == name {
			return alg, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// New returns a fresh hash state for the algorithm.
func (a Algorithm) New() (hash.Hash, error) {
	factory, err := a.factory()
	if err != nil {
		return nil, err
	}

	return factory(), nil
}

// factory returns a constructor for the algorithm's hash state.
func (a Algorithm) factory() (func() hash.Hash, error) {
	switch a {
	case SHA512, "":
		return sha512.New, nil
	case BLAKE2b512:
		return func() hash.Hash {
			h, _ := blake2b.New512(nil) //nolint:errcheck // unkeyed construction cannot fail

			return h
		}, nil
	case SHA3512:
		return sha3.New512, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, string(a))
	}
}

// ID returns the single-byte identifier used in serialized exports.
func (a Algorithm) ID() byte {
	for i, alg := range Algorithms {
		if alg == a {
			return byte(i + 1)
		}
	}

	return 0
}

// AlgorithmFromID is the inverse of Algorithm.ID.
func AlgorithmFromID(id byte) (Algorithm, error) {
	if id == 0 || int(id) > len(Algorithms) {
		return "", fmt.Errorf("%w: id %d", ErrUnknownAlgorithm, id)
	}

	return Algorithms[id-1], nil
}

func (a Algorithm) String() string {
	return string(a)
}
