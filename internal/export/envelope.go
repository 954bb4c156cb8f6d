package export

import (
	"bytes"
	"fmt"

	"github.com/idelchi/pixsecret/pkg/digest"
)

const (
	envelopeMagic   = "PXSC"
	envelopeVersion = byte(1)

	envelopeFlagSealed = 0x01
)

const envelopeHeaderSize = len(envelopeMagic) + 3

func newEnvelopeHeader(alg digest.Algorithm, sealed bool) []byte {
	header := make([]byte, envelopeHeaderSize)
	copy(header, envelopeMagic)

	header[len(envelopeMagic)] = envelopeVersion

	var flags byte

	if sealed {
		flags |= envelopeFlagSealed
	}

	header[len(envelopeMagic)+1] = flags
	header[len(envelopeMagic)+2] = alg.ID()

	return header
}

func parseEnvelopeHeader(header []byte) (digest.Algorithm, bool, error) {
	if len(header) != envelopeHeaderSize {
		return "", false, fmt.Errorf("%w: envelope header too short", ErrFormat)
	}

	if !bytes.Equal(header[:len(envelopeMagic)], []byte(envelopeMagic)) {
		return "", false, fmt.Errorf("%w: invalid envelope magic", ErrFormat)
	}

	version := header[len(envelopeMagic)]
	if version != envelopeVersion {
		return "", false, fmt.Errorf("%w: unsupported envelope version %d", ErrFormat, version)
	}

	flags := header[len(envelopeMagic)+1]
	if flags&^envelopeFlagSealed != 0 {
		return "", false, fmt.Errorf("%w: unknown envelope flags %#x", ErrFormat, flags)
	}

	alg, err := digest.AlgorithmFromID(header[len(envelopeMagic)+2])
	if err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrFormat, err)
	}

	return alg, flags&envelopeFlagSealed != 0, nil
}
