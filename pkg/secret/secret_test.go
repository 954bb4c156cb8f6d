package secret_test

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idelchi/pixsecret/pkg/digest"
	"github.com/idelchi/pixsecret/pkg/secret"
)

func identity() []uint16 {
	ids := make([]uint16, secret.IndexSpace)
	for i := range ids {
		ids[i] = uint16(i)
	}

	return ids
}

func TestBuildPasswordExample(t *testing.T) {
	t.Parallel()

	sec, err := secret.Build([]byte("password"), 4)
	require.NoError(t, err)

	assert.Equal(t, 4, sec.RequestedLength())
	assert.Equal(t, 64, sec.SequenceLength())
	assert.Len(t, sec.Substitution(), 64)
	assert.Len(t, sec.Permutation(), secret.IndexSpace)
	assert.Equal(t, digest.SHA512, sec.Algorithm())

	stream := digest.Expand([]byte("password"), 64)
	for i, v := range sec.Substitution() {
		assert.LessOrEqual(t, v, uint16(255))
		assert.Equal(t, uint16(stream[i]), v, "index %d", i)
	}
}

func TestBuildDeterministic(t *testing.T) {
	t.Parallel()

	a, err := secret.Build([]byte("secret"), 300)
	require.NoError(t, err)

	b, err := secret.Build([]byte("secret"), 300)
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Equal(t, a.Substitution(), b.Substitution())
	assert.Equal(t, a.Permutation(), b.Permutation())
}

func TestBuildPermutationIsBijection(t *testing.T) {
	t.Parallel()

	for _, n := range []int{1, 4, 100, 256, 300} {
		sec, err := secret.Build([]byte("bijection"), n)
		require.NoError(t, err)

		perm := sec.Permutation()
		assert.True(t, secret.IsPermutation(perm), "n=%d", n)

		slices.Sort(perm)
		assert.Equal(t, identity(), perm, "n=%d", n)
	}
}

func TestSequenceLength(t *testing.T) {
	t.Parallel()

	tests := []struct {
		requested int
		want      int
	}{
		{requested: 1, want: 64},
		{requested: 4, want: 64},
		{requested: 8, want: 64},
		{requested: 9, want: 128},
		{requested: 256, want: 65536},
		{requested: 257, want: 66112},
		{requested: 8192, want: secret.MaxSequenceLength},
	}

	for _, tt := range tests {
		got, err := secret.SequenceLength(tt.requested)
		require.NoError(t, err)

		assert.Equal(t, tt.want, got, "requested=%d", tt.requested)
		assert.Zero(t, got%digest.BlockSize)
		assert.GreaterOrEqual(t, got, tt.requested*tt.requested)
	}
}

func TestSequenceLengthOutOfRange(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -1, 8193, 1 << 40} {
		_, err := secret.SequenceLength(n)
		require.ErrorIs(t, err, secret.ErrRange, "n=%d", n)

		_, err = secret.Build([]byte("x"), n)
		require.ErrorIs(t, err, secret.ErrRange, "n=%d", n)
	}
}

func TestBuildSubstitutionPastChainLimit(t *testing.T) {
	t.Parallel()

	// 300² = 90000 bytes, beyond the 65536 bytes produced by hashing.
	sec, err := secret.Build([]byte("large"), 300)
	require.NoError(t, err)

	subst := sec.Substitution()
	require.Len(t, subst, 90048)

	chained := digest.MaxChainBlocks * digest.BlockSize
	for p := chained; p < len(subst); p++ {
		require.Equal(t, subst[(p-chained)%digest.FallbackWindow], subst[p])
	}
}

func TestBuildSeedSensitivity(t *testing.T) {
	t.Parallel()

	a, err := secret.Build([]byte("secret"), 16)
	require.NoError(t, err)

	b, err := secret.Build([]byte("secrer"), 16)
	require.NoError(t, err)

	assert.NotEqual(t, a.Substitution(), b.Substitution())
	assert.NotEqual(t, a.Permutation(), b.Permutation())
	assert.False(t, a.Equal(b))
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

func TestBuildAlgorithmsDiffer(t *testing.T) {
	t.Parallel()

	def, err := secret.Build([]byte("alg"), 8)
	require.NoError(t, err)

	blake, err := secret.Build([]byte("alg"), 8, secret.WithAlgorithm(digest.BLAKE2b512))
	require.NoError(t, err)

	assert.Equal(t, digest.BLAKE2b512, blake.Algorithm())
	assert.False(t, def.Equal(blake))
	assert.True(t, secret.IsPermutation(blake.Permutation()))

	_, err = secret.Build([]byte("alg"), 8, secret.WithAlgorithm("md5"))
	require.ErrorIs(t, err, digest.ErrUnknownAlgorithm)
}

func TestPermutationTieBreak(t *testing.T) {
	t.Parallel()

	t.Run("all equal", func(t *testing.T) {
		t.Parallel()

		perm, err := secret.Permutation(make([]byte, secret.IndexSpace))
		require.NoError(t, err)

		assert.Equal(t, identity(), perm)
	})

	t.Run("repeated values", func(t *testing.T) {
		t.Parallel()

		stream := make([]byte, secret.IndexSpace)
		for i := range stream {
			stream[i] = byte(2 - i%3)
		}

		perm, err := secret.Permutation(stream)
		require.NoError(t, err)
		require.True(t, secret.IsPermutation(perm))

		// Value 0 sits at indices 2, 5, 8, ...; they come first, in index order.
		assert.Equal(t, []uint16{2, 5, 8, 11}, perm[:4])

		for k := 1; k < len(perm); k++ {
			prev, cur := perm[k-1], perm[k]
			if stream[prev] == stream[cur] {
				require.Less(t, prev, cur)
			} else {
				require.Less(t, stream[prev], stream[cur])
			}
		}
	})

	t.Run("extra bytes ignored", func(t *testing.T) {
		t.Parallel()

		stream := make([]byte, secret.IndexSpace+64)
		for i := secret.IndexSpace; i < len(stream); i++ {
			stream[i] = 0xff
		}

		perm, err := secret.Permutation(stream)
		require.NoError(t, err)
		assert.Equal(t, identity(), perm)
	})
}

func TestPermutationShortStream(t *testing.T) {
	t.Parallel()

	_, err := secret.Permutation(make([]byte, secret.IndexSpace-1))
	require.ErrorIs(t, err, secret.ErrRange)
}

func TestInversePermutation(t *testing.T) {
	t.Parallel()

	sec, err := secret.Build([]byte("inverse"), 32)
	require.NoError(t, err)

	perm := sec.Permutation()
	inv := sec.InversePermutation()

	for i, v := range perm {
		require.Equal(t, uint16(i), inv[v])
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	t.Parallel()

	sec, err := secret.Build([]byte("copies"), 4)
	require.NoError(t, err)

	fingerprint := sec.Fingerprint()

	subst := sec.Substitution()
	subst[0]++

	perm := sec.Permutation()
	perm[0], perm[1] = perm[1], perm[0]

	assert.Equal(t, fingerprint, sec.Fingerprint())
}

func TestFromParts(t *testing.T) {
	t.Parallel()

	sec, err := secret.Build([]byte("parts"), 10)
	require.NoError(t, err)

	rebuilt, err := secret.FromParts(sec.Algorithm(), sec.RequestedLength(), sec.Substitution(), sec.Permutation())
	require.NoError(t, err)
	assert.True(t, sec.Equal(rebuilt))

	_, err = secret.FromParts(sec.Algorithm(), 12, sec.Substitution(), sec.Permutation())
	require.ErrorIs(t, err, secret.ErrRange)

	badSubst := sec.Substitution()
	badSubst[3] = 256
	_, err = secret.FromParts(sec.Algorithm(), 10, badSubst, sec.Permutation())
	require.ErrorIs(t, err, secret.ErrRange)

	badPerm := sec.Permutation()
	badPerm[0] = badPerm[1]
	_, err = secret.FromParts(sec.Algorithm(), 10, sec.Substitution(), badPerm)
	require.ErrorIs(t, err, secret.ErrRange)
}

func TestFingerprintAsMapKey(t *testing.T) {
	t.Parallel()

	cache := make(map[string]*secret.CipherSecret)

	for _, seed := range []string{"a", "b", "a"} {
		sec, err := secret.Build([]byte(seed), 4)
		require.NoError(t, err)

		cache[sec.Fingerprint()] = sec
	}

	assert.Len(t, cache, 2)
}

func TestEqualNil(t *testing.T) {
	t.Parallel()

	var a, b *secret.CipherSecret

	assert.True(t, a.Equal(b))

	sec, err := secret.Build([]byte("x"), 1)
	require.NoError(t, err)
	assert.False(t, sec.Equal(nil))
}
