package digest

import (
	"crypto/sha512"
	"hash"
)

const (
	// BlockSize is the size of one digest block in bytes.
	BlockSize = 64
	// MaxChainBlocks is the number of blocks produced by hashing before the
	// stream switches to repeating FallbackWindow.
	MaxChainBlocks = 1024
	// FallbackWindow is the length of the stream prefix that is repeated
	// once MaxChainBlocks is reached.
	FallbackWindow = 256
)

// Expander produces deterministic byte streams with a fixed hash algorithm.
// It holds no mutable state and is safe for concurrent use.
type Expander struct {
	algorithm Algorithm
	newHash   func() hash.Hash
}

// NewExpander returns an Expander for the given algorithm.
func NewExpander(alg Algorithm) (*Expander, error) {
	factory, err := alg.factory()
	if err != nil {
		return nil, err
	}

	if alg == "" {
		alg = SHA512
	}

	return &Expander{algorithm: alg, newHash: factory}, nil
}

// Algorithm returns the hash algorithm in use.
func (e *Expander) Algorithm() Algorithm {
	return e.algorithm
}

// Expand returns RoundUp(totalLength) bytes derived from seed.
// A non-positive totalLength yields an empty stream.
func (e *Expander) Expand(seed []byte, totalLength int) []byte {
	if totalLength <= 0 {
		return []byte{}
	}

	total := RoundUp(totalLength)
	blocksNeeded := total / BlockSize

	stream := make([]byte, 0, total)

	h := e.newHash()
	h.Write(seed)

	stream = h.Sum(stream)

	// From here on h absorbs the stream itself, so Sum yields the hash of
	// every block produced so far.
	h.Reset()
	h.Write(stream)

	for blocks := 1; blocks < blocksNeeded; blocks++ {
		if blocks == MaxChainBlocks {
			return fillFallback(stream, total)
		}

		start := len(stream)
		stream = h.Sum(stream)

		h.Write(stream[start:])
	}

	return stream
}

// fillFallback extends stream to total bytes by cycling over its first
// FallbackWindow bytes.
func fillFallback(stream []byte, total int) []byte {
	window := stream[:FallbackWindow:FallbackWindow]

	for len(stream) < total {
		n := min(FallbackWindow, total-len(stream))
		stream = append(stream, window[:n]...)
	}

	return stream
}

// Expand expands seed with SHA-512. See Expander.Expand.
func Expand(seed []byte, totalLength int) []byte {
	return defaultExpander.Expand(seed, totalLength)
}

// RoundUp returns the smallest multiple of BlockSize that is >= n.
func RoundUp(n int) int {
	if n <= 0 {
		return 0
	}

	return (n + BlockSize - 1) / BlockSize * BlockSize
}

//nolint:gochecknoglobals
var defaultExpander = &Expander{algorithm: SHA512, newHash: sha512.New}
