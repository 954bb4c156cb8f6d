package digest_test

import (
	"bytes"
	"crypto/sha512"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/idelchi/pixsecret/pkg/digest"
)

func TestExpandChainsBlocks(t *testing.T) {
	t.Parallel()

	seed := []byte("password")
	stream := digest.Expand(seed, 3*digest.BlockSize)
	require.Len(t, stream, 3*digest.BlockSize)

	block0 := sha512.Sum512(seed)
	block1 := sha512.Sum512(block0[:])
	block2 := sha512.Sum512(append(block0[:], block1[:]...))

	assert.Equal(t, block0[:], stream[:64])
	assert.Equal(t, block1[:], stream[64:128])
	assert.Equal(t, block2[:], stream[128:192])
}

func TestExpandDeterministic(t *testing.T) {
	t.Parallel()

	a := digest.Expand([]byte("secret"), 4096)
	b := digest.Expand([]byte("secret"), 4096)

	assert.True(t, bytes.Equal(a, b))
}

func TestExpandEmptySeed(t *testing.T) {
	t.Parallel()

	stream := digest.Expand(nil, digest.BlockSize)
	want := sha512.Sum512(nil)

	assert.Equal(t, want[:], stream)
}

func TestExpandLengths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		total int
		want  int
	}{
		{name: "zero", total: 0, want: 0},
		{name: "negative", total: -64, want: 0},
		{name: "one block", total: 64, want: 64},
		{name: "rounded up", total: 65, want: 128},
		{name: "chain limit", total: digest.MaxChainBlocks * digest.BlockSize, want: 65536},
		{name: "past chain limit", total: 70000, want: 70016},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Len(t, digest.Expand([]byte("x"), tt.total), tt.want)
		})
	}
}

func TestExpandPrefixStable(t *testing.T) {
	t.Parallel()

	seed := []byte("prefix")
	full := digest.Expand(seed, digest.MaxChainBlocks*digest.BlockSize)

	for _, k := range []int{1, 2, 17, 512, digest.MaxChainBlocks} {
		prefix := digest.Expand(seed, k*digest.BlockSize)
		assert.Equal(t, full[:k*digest.BlockSize], prefix, "k=%d", k)
	}
}

func TestExpandFallbackRepeatsWindow(t *testing.T) {
	t.Parallel()

	seed := []byte("fallback")
	chained := digest.MaxChainBlocks * digest.BlockSize
	total := chained + 10*digest.BlockSize

	stream := digest.Expand(seed, total)
	require.Len(t, stream, total)

	assert.Equal(t, digest.Expand(seed, chained), stream[:chained])

	for p := chained; p < total; p++ {
		require.Equal(t, stream[(p-chained)%digest.FallbackWindow], stream[p], "offset %d", p)
	}
}

func TestExpanderAlgorithms(t *testing.T) {
	t.Parallel()

	seed := []byte("alg")

	blake, err := digest.NewExpander(digest.BLAKE2b512)
	require.NoError(t, err)

	wantBlake := blake2b.Sum512(seed)
	assert.Equal(t, wantBlake[:], blake.Expand(seed, 64))

	keccak, err := digest.NewExpander(digest.SHA3512)
	require.NoError(t, err)

	wantSHA3 := sha3.Sum512(seed)
	assert.Equal(t, wantSHA3[:], keccak.Expand(seed, 64))

	def, err := digest.NewExpander("")
	require.NoError(t, err)
	assert.Equal(t, digest.SHA512, def.Algorithm())
	assert.Equal(t, digest.Expand(seed, 256), def.Expand(seed, 256))
}

func TestParseAlgorithm(t *testing.T) {
	t.Parallel()

	for _, alg := range digest.Algorithms {
		got, err := digest.ParseAlgorithm(alg.String())
		require.NoError(t, err)
		assert.Equal(t, alg, got)

		back, err := digest.AlgorithmFromID(alg.ID())
		require.NoError(t, err)
		assert.Equal(t, alg, back)
	}

	_, err := digest.ParseAlgorithm("md5")
	require.ErrorIs(t, err, digest.ErrUnknownAlgorithm)

	_, err = digest.NewExpander("md5")
	require.ErrorIs(t, err, digest.ErrUnknownAlgorithm)

	_, err = digest.AlgorithmFromID(0)
	require.ErrorIs(t, err, digest.ErrUnknownAlgorithm)
}

func TestRoundUp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, digest.RoundUp(0))
	assert.Equal(t, 64, digest.RoundUp(1))
	assert.Equal(t, 64, digest.RoundUp(64))
	assert.Equal(t, 128, digest.RoundUp(65))
}
