package trie_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpan/pmtrie/trie"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

// TestLeafRootHashInlineVector reproduces the Rust original's
// compute_hash test vector for a single leaf whose encoding falls at or
// under the 31-byte inline threshold, so no digest is applied.
func TestLeafRootHashInlineVector(t *testing.T) {
	tr := trie.NewKeccak256()
	_, err := tr.Insert([]byte("key"), []byte("value"))
	require.NoError(t, err)

	h, err := tr.RootHash()
	require.NoError(t, err)

	want := mustDecodeHex(t, "CB84206B65798576616C7565")
	assert.Equal(t, want, h)
	assert.Len(t, h, 12)
}

// TestLeafRootHashDigestVector reproduces the Rust original's
// compute_hash_long test vector: a leaf whose encoding exceeds 31 bytes,
// so the Keccak-256 digest of the encoding becomes the root hash.
func TestLeafRootHashDigestVector(t *testing.T) {
	tr := trie.NewKeccak256()
	_, err := tr.Insert([]byte("key"), []byte("a comparatively long value"))
	require.NoError(t, err)

	h, err := tr.RootHash()
	require.NoError(t, err)

	want := mustDecodeHex(t, "EB9275B3AE093A17757CFB42F7D557F9E577BD5BEB86A8684991A65B875F807A")
	assert.Equal(t, want, h)
	assert.Len(t, h, 32)
}

func TestEmptyTrieRootHashIsRLPEmptyString(t *testing.T) {
	tr := trie.NewKeccak256()
	h, err := tr.RootHash()
	require.NoError(t, err)
	assert.Equal(t, []byte{0x80}, h)
}

func TestRootHashCacheHitMatchesFreshRecomputation(t *testing.T) {
	withCache := trie.NewKeccak256()
	_, err := withCache.Insert([]byte("key"), []byte("a comparatively long value"))
	require.NoError(t, err)

	first, err := withCache.RootHash()
	require.NoError(t, err)
	second, err := withCache.RootHash()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	fresh := trie.NewKeccak256()
	_, err = fresh.Insert([]byte("key"), []byte("a comparatively long value"))
	require.NoError(t, err)
	freshHash, err := fresh.RootHash()
	require.NoError(t, err)

	assert.Equal(t, freshHash, second)
}
