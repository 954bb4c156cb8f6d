package export

import (
	"bytes"
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"google.golang.org/protobuf/proto"

	"github.com/tink-crypto/tink-go/v2/daead"
	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	aes_sivpb "github.com/tink-crypto/tink-go/v2/proto/aes_siv_go_proto"
	tinkpb "github.com/tink-crypto/tink-go/v2/proto/tink_go_proto"
	"github.com/tink-crypto/tink-go/v2/tink"
)

const (
	// MinKeySize is the shortest accepted sealing key in bytes.
	MinKeySize = 32

	aesSivKeySize = 64
	sealKeyInfo   = "pixsecret/seal/v1"
)

// Sealer encrypts export payloads deterministically, so the same secret sealed
// with the same key always produces the same file.
type Sealer struct {
	daead tink.DeterministicAEAD
}

// NewSealer derives an AES-SIV key from key material of at least MinKeySize bytes.
func NewSealer(key []byte) (*Sealer, error) {
	if len(key) < MinKeySize {
		return nil, fmt.Errorf("%w: got %d bytes, need at least %d", ErrKeySize, len(key), MinKeySize)
	}

	sivKey, err := deriveSealKey(key)
	if err != nil {
		return nil, err
	}

	kh, err := newDeterministicAEADKeyHandle(sivKey)
	if err != nil {
		return nil, fmt.Errorf("creating keyset handle: %w", err)
	}

	primitive, err := daead.New(kh)
	if err != nil {
		return nil, fmt.Errorf("creating DeterministicAEAD: %w", err)
	}

	return &Sealer{daead: primitive}, nil
}

func deriveSealKey(key []byte) ([]byte, error) {
	reader := hkdf.New(sha512.New, key, nil, []byte(sealKeyInfo))
	derived := make([]byte, aesSivKeySize)

	if _, err := io.ReadFull(reader, derived); err != nil {
		return nil, fmt.Errorf("deriving sealing key: %w", err)
	}

	return derived, nil
}

// newDeterministicAEADKeyHandle wraps raw AES-SIV key bytes in a single-key Tink keyset.
func newDeterministicAEADKeyHandle(key []byte) (*keyset.Handle, error) {
	serializedKey, err := proto.Marshal(&aes_sivpb.AesSivKey{
		Version:  0,
		KeyValue: key,
	})
	if err != nil {
		return nil, fmt.Errorf("serializing AesSivKey: %w", err)
	}

	keySet := &tinkpb.Keyset{
		PrimaryKeyId: 1,
		Key: []*tinkpb.Keyset_Key{
			{
				KeyData: &tinkpb.KeyData{
					TypeUrl:         "type.googleapis.com/google.crypto.tink.AesSivKey",
					Value:           serializedKey,
					KeyMaterialType: tinkpb.KeyData_SYMMETRIC,
				},
				Status:           tinkpb.KeyStatusType_ENABLED,
				KeyId:            1,
				OutputPrefixType: tinkpb.OutputPrefixType_RAW,
			},
		},
	}

	serializedKeyset, err := proto.Marshal(keySet)
	if err != nil {
		return nil, fmt.Errorf("serializing keyset: %w", err)
	}

	handle, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(serializedKeyset)))
	if err != nil {
		return nil, fmt.Errorf("reading keyset: %w", err)
	}

	return handle, nil
}
