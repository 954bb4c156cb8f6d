package export

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/idelchi/pixsecret/pkg/secret"
)

// Info describes an export without exposing its sequences.
type Info struct {
	Sealed bool
	Secret *secret.CipherSecret
}

// Encode writes sec to w. A nil sealer writes the payload in the clear.
func Encode(w io.Writer, sec *secret.CipherSecret, sealer *Sealer) error {
	header := newEnvelopeHeader(sec.Algorithm(), sealer != nil)
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	if sealer == nil {
		buffered := bufio.NewWriter(w)
		if err := writePayload(buffered, sec); err != nil {
			return err
		}

		if err := buffered.Flush(); err != nil {
			return fmt.Errorf("flushing payload: %w", err)
		}

		return nil
	}

	var payload bytes.Buffer
	if err := writePayload(&payload, sec); err != nil {
		return err
	}

	return newSealedChunks(sealer.daead, header).seal(w, payload.Bytes())
}

// Decode reads an export from r. Sealed exports need the sealer they were written with;
// plain exports ignore it.
func Decode(r io.Reader, sealer *Sealer) (Info, error) {
	header := make([]byte, envelopeHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return Info{}, fmt.Errorf("%w: reading header: %w", ErrFormat, err)
	}

	alg, sealed, err := parseEnvelopeHeader(header)
	if err != nil {
		return Info{}, err
	}

	var payload io.Reader

	switch {
	case !sealed:
		payload = bufio.NewReader(r)
	case sealer == nil:
		return Info{}, fmt.Errorf("%w: a key is required", ErrSealed)
	default:
		payload = newSealedChunks(sealer.daead, header).opener(r)
	}

	requested, substitution, permutation, err := readPayload(payload)
	if err != nil {
		return Info{}, err
	}

	sec, err := secret.FromParts(alg, requested, substitution, permutation)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return Info{Sealed: sealed, Secret: sec}, nil
}

func writePayload(w io.Writer, sec *secret.CipherSecret) error {
	var lengths [8]byte

	binary.BigEndian.PutUint32(lengths[:4], uint32(sec.RequestedLength())) //nolint:gosec // bounded by secret.SequenceLength
	binary.BigEndian.PutUint32(lengths[4:], uint32(sec.SequenceLength()))  //nolint:gosec // bounded by secret.MaxSequenceLength

	if _, err := w.Write(lengths[:]); err != nil {
		return fmt.Errorf("writing lengths: %w", err)
	}

	substitution := sec.Substitution()

	values := make([]byte, len(substitution))
	for i, v := range substitution {
		values[i] = byte(v)
	}

	if _, err := w.Write(values); err != nil {
		return fmt.Errorf("writing substitution: %w", err)
	}

	permutation := sec.Permutation()

	indices := make([]byte, 2*len(permutation))
	for i, v := range permutation {
		binary.BigEndian.PutUint16(indices[2*i:], v)
	}

	if _, err := w.Write(indices); err != nil {
		return fmt.Errorf("writing permutation: %w", err)
	}

	return nil
}

func readPayload(r io.Reader) (int, []uint16, []uint16, error) {
	var lengths [8]byte
	if _, err := io.ReadFull(r, lengths[:]); err != nil {
		return 0, nil, nil, wrapRead("reading lengths", err)
	}

	requested := int(binary.BigEndian.Uint32(lengths[:4]))
	stored := int(binary.BigEndian.Uint32(lengths[4:]))

	// Validated before allocating anything sized by the input.
	want, err := secret.SequenceLength(requested)
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	if stored != want {
		return 0, nil, nil, fmt.Errorf("%w: sequence length %d does not match requested length %d",
			ErrFormat, stored, requested)
	}

	values := make([]byte, stored)
	if _, err := io.ReadFull(r, values); err != nil {
		return 0, nil, nil, wrapRead("reading substitution", err)
	}

	substitution := make([]uint16, stored)
	for i, v := range values {
		substitution[i] = uint16(v)
	}

	indices := make([]byte, 2*secret.IndexSpace)
	if _, err := io.ReadFull(r, indices); err != nil {
		return 0, nil, nil, wrapRead("reading permutation", err)
	}

	permutation := make([]uint16, secret.IndexSpace)
	for i := range permutation {
		permutation[i] = binary.BigEndian.Uint16(indices[2*i:])
	}

	var trailing [1]byte

	n, err := r.Read(trailing[:])

	switch {
	case n > 0:
		return 0, nil, nil, fmt.Errorf("%w: trailing data after payload", ErrFormat)
	case err != nil && !errors.Is(err, io.EOF):
		return 0, nil, nil, wrapRead("reading trailer", err)
	}

	return requested, substitution, permutation, nil
}

// wrapRead keeps sealing failures distinguishable from truncation.
func wrapRead(what string, err error) error {
	if errors.Is(err, ErrSealed) || errors.Is(err, ErrFormat) {
		return fmt.Errorf("%s: %w", what, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrFormat, what, err)
}
