package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	chunkSize = 64 * 1024
	// sivOverhead is the synthetic IV prepended by AES-SIV.
	sivOverhead = 16
	// chunkPrefixSize is the big-endian length in front of every sealed chunk.
	chunkPrefixSize = 4
)

// sealedChunks frames a payload as length-prefixed AES-SIV chunks. The associated
// data of chunk i is the envelope header followed by i, so chunks cannot be
// reordered or moved between exports.
type sealedChunks struct {
	daead  tink.DeterministicAEAD
	header []byte
	index  uint64
}

func newSealedChunks(daead tink.DeterministicAEAD, header []byte) *sealedChunks {
	return &sealedChunks{daead: daead, header: slices.Clone(header)}
}

// seal writes payload to w as consecutive sealed chunks of at most chunkSize bytes.
func (s *sealedChunks) seal(w io.Writer, payload []byte) error {
	bw := bufio.NewWriter(w)

	for chunk := range slices.Chunk(payload, chunkSize) {
		sealed, err := s.daead.EncryptDeterministically(chunk, s.associatedData())
		if err != nil {
			return fmt.Errorf("sealing chunk %d: %w", s.index, err)
		}

		var prefix [chunkPrefixSize]byte

		binary.BigEndian.PutUint32(prefix[:], uint32(len(sealed))) //nolint:gosec // at most chunkSize+sivOverhead

		if _, err := bw.Write(prefix[:]); err != nil {
			return fmt.Errorf("writing chunk %d: %w", s.index, err)
		}

		if _, err := bw.Write(sealed); err != nil {
			return fmt.Errorf("writing chunk %d: %w", s.index, err)
		}

		s.index++
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flushing sealed payload: %w", err)
	}

	return nil
}

// opener returns a reader over the plaintext of the sealed chunks in r.
func (s *sealedChunks) opener(r io.Reader) io.Reader {
	src := bufio.NewReader(r)

	var plain []byte

	return readerFunc(func(p []byte) (int, error) {
		for len(plain) == 0 {
			next, err := s.open(src)
			if err != nil {
				return 0, err
			}

			plain = next
		}

		n := copy(p, plain)
		plain = plain[n:]

		return n, nil
	})
}

// open reads and decrypts the next chunk. A clean end of input is io.EOF.
func (s *sealedChunks) open(src *bufio.Reader) ([]byte, error) {
	var prefix [chunkPrefixSize]byte
	if _, err := io.ReadFull(src, prefix[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}

		return nil, fmt.Errorf("%w: reading chunk %d size: %w", ErrFormat, s.index, err)
	}

	size := binary.BigEndian.Uint32(prefix[:])
	if size < sivOverhead || size > chunkSize+sivOverhead {
		return nil, fmt.Errorf("%w: sealed chunk of %d bytes", ErrFormat, size)
	}

	sealed := make([]byte, size)
	if _, err := io.ReadFull(src, sealed); err != nil {
		return nil, fmt.Errorf("%w: reading chunk %d: %w", ErrFormat, s.index, err)
	}

	plain, err := s.daead.DecryptDeterministically(sealed, s.associatedData())
	if err != nil {
		return nil, fmt.Errorf("%w: opening chunk %d: %w", ErrSealed, s.index, err)
	}

	s.index++

	return plain, nil
}

func (s *sealedChunks) associatedData() []byte {
	return binary.BigEndian.AppendUint64(slices.Clone(s.header), s.index)
}

type readerFunc func([]byte) (int, error)

func (f readerFunc) Read(p []byte) (int, error) {
	return f(p)
}
