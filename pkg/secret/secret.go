package secret

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"slices"

	"github.com/idelchi/pixsecret/pkg/digest"
)

// MaxSequenceLength bounds the substitution sequence to keep memory use reasonable.
// It corresponds to a requested length of 8192.
const MaxSequenceLength = 1 << 26

// maxRequested is the largest requested length whose sequence fits MaxSequenceLength.
const maxRequested = 1 << 13

// CipherSecret holds the sequences derived from a seed. It is immutable: accessors
// return copies.
type CipherSecret struct {
	algorithm    digest.Algorithm
	requested    int
	substitution []uint16
	permutation  []uint16
}

// Option configures Build.
type Option func(*options)

type options struct {
	algorithm digest.Algorithm
}

// WithAlgorithm selects the digest used for expansion. The default is SHA-512.
func WithAlgorithm(alg digest.Algorithm) Option {
	return func(o *options) {
		o.algorithm = alg
	}
}

// SequenceLength returns the smallest multiple of digest.BlockSize that is at least
// requested². It fails with ErrRange when requested is not positive or the result
// exceeds MaxSequenceLength.
func SequenceLength(requested int) (int, error) {
	if requested < 1 {
		return 0, fmt.Errorf("%w: requested length %d must be positive", ErrRange, requested)
	}

	// Checked before squaring so the product cannot overflow.
	if requested > maxRequested {
		return 0, fmt.Errorf("%w: requested length %d exceeds %d", ErrRange, requested, maxRequested)
	}

	return digest.RoundUp(requested * requested), nil
}

// Build derives a CipherSecret for requestedLength from seed.
//
// The stream is expanded to cover both the substitution sequence and the full
// IndexSpace used by the permutation, so short requested lengths still produce
// a complete permutation.
func Build(seed []byte, requestedLength int, opts ...Option) (*CipherSecret, error) {
	cfg := options{algorithm: digest.SHA512}
	for _, opt := range opts {
		opt(&cfg)
	}

	length, err := SequenceLength(requestedLength)
	if err != nil {
		return nil, err
	}

	expander, err := digest.NewExpander(cfg.algorithm)
	if err != nil {
		return nil, fmt.Errorf("creating expander: %w", err)
	}

	stream := expander.Expand(seed, max(length, IndexSpace))

	perm, err := Permutation(stream)
	if err != nil {
		return nil, fmt.Errorf("building permutation: %w", err)
	}

	substitution := make([]uint16, length)
	for i := range substitution {
		substitution[i] = uint16(stream[i])
	}

	return &CipherSecret{
		algorithm:    expander.Algorithm(),
		requested:    requestedLength,
		substitution: substitution,
		permutation:  perm,
	}, nil
}

// FromParts reassembles a CipherSecret from previously derived sequences, validating
// the length formula, the value range and the permutation.
func FromParts(alg digest.Algorithm, requested int, substitution, permutation []uint16) (*CipherSecret, error) {
	length, err := SequenceLength(requested)
	if err != nil {
		return nil, err
	}

	if len(substitution) != length {
		return nil, fmt.Errorf("%w: substitution has %d values, want %d", ErrRange, len(substitution), length)
	}

	for i, v := range substitution {
		if v > 0xff {
			return nil, fmt.Errorf("%w: substitution value %d at %d exceeds a byte", ErrRange, v, i)
		}
	}

	if !IsPermutation(permutation) {
		return nil, fmt.Errorf("%w: permutation is not a bijection over %d indices", ErrRange, IndexSpace)
	}

	alg, err = digest.ParseAlgorithm(string(alg))
	if err != nil {
		return nil, err
	}

	return &CipherSecret{
		algorithm:    alg,
		requested:    requested,
		substitution: slices.Clone(substitution),
		permutation:  slices.Clone(permutation),
	}, nil
}

// Algorithm returns the digest the secret was derived with.
func (s *CipherSecret) Algorithm() digest.Algorithm {
	return s.algorithm
}

// RequestedLength returns the edge length the secret was built for.
func (s *CipherSecret) RequestedLength() int {
	return s.requested
}

// SequenceLength returns the number of substitution values.
func (s *CipherSecret) SequenceLength() int {
	return len(s.substitution)
}

// Substitution returns a copy of the substitution sequence.
func (s *CipherSecret) Substitution() []uint16 {
	return slices.Clone(s.substitution)
}

// Permutation returns a copy of the permutation sequence.
func (s *CipherSecret) Permutation() []uint16 {
	return slices.Clone(s.permutation)
}

// InversePermutation returns the mapping that undoes Permutation.
func (s *CipherSecret) InversePermutation() []uint16 {
	return Invert(s.permutation)
}

// Equal reports whether both secrets hold identical sequences.
func (s *CipherSecret) Equal(other *CipherSecret) bool {
	if s == nil || other == nil {
		return s == other
	}

	return s.algorithm == other.algorithm &&
		s.requested == other.requested &&
		slices.Equal(s.substitution, other.substitution) &&
		slices.Equal(s.permutation, other.permutation)
}

// Fingerprint returns a hex SHA-256 over the secret's contents. Equal secrets share
// a fingerprint, which makes it suitable as a map key.
func (s *CipherSecret) Fingerprint() string {
	h := sha256.New()

	var header [9]byte

	header[0] = s.algorithm.ID()
	binary.BigEndian.PutUint32(header[1:5], uint32(s.requested))         //nolint:gosec // bounded by maxRequested
	binary.BigEndian.PutUint32(header[5:9], uint32(len(s.substitution))) //nolint:gosec // bounded by MaxSequenceLength
	h.Write(header[:])

	buf := make([]byte, 0, len(s.substitution))
	for _, v := range s.substitution {
		buf = append(buf, byte(v))
	}

	h.Write(buf)

	perm := make([]byte, 2*len(s.permutation))
	for i, v := range s.permutation {
		binary.BigEndian.PutUint16(perm[2*i:], v)
	}

	h.Write(perm)

	return hex.EncodeToString(h.Sum(nil))
}

func (s *CipherSecret) String() string {
	return fmt.Sprintf("CipherSecret{%s, requested=%d, length=%d, fingerprint=%s}",
		s.algorithm, s.requested, len(s.substitution), s.Fingerprint()[:16])
}
