package trie

import (
	"bytes"
	"hash"

	"github.com/jaiminpan/pmtrie/rlpenc"
	"golang.org/x/crypto/sha3"
)

// Hasher constructs the streaming digest used to hash node encodings longer
// than the 31-byte inline threshold. H is a compile-time/instantiation-time
// parameter of the trie (spec §6); Keccak256 is the Ethereum-compatible
// reference choice.
type Hasher func() hash.Hash

// Keccak256 is the Ethereum "modified Merkle Patricia trie" reference
// digest. NewLegacyKeccak256 (not the SHA-3 standardized variant) matches
// Ethereum's original Keccak padding, which every sibling repo in the
// retrieval pack also relies on for trie/state hashing.
var Keccak256 Hasher = sha3.NewLegacyKeccak256

// CachedHash holds a node's memoized encoding: either the inline bytes
// (length <= 31, stored verbatim with no hashing applied) or the full
// digest output, together with a dirty bit. A cache is only trusted when
// the dirty bit is clear.
type CachedHash struct {
	bytes []byte
	dirty bool
}

// MarkDirty invalidates the cache. Any mutation to a node must mark it (and
// every ancestor on the path to the root) dirty.
func (h *CachedHash) MarkDirty() {
	h.dirty = true
}

// ExtractRef returns the cached bytes if they are still valid.
func (h *CachedHash) ExtractRef() ([]byte, bool) {
	if h.dirty || h.bytes == nil {
		return nil, false
	}
	return h.bytes, true
}

func (h *CachedHash) set(b []byte) {
	h.bytes = b
	h.dirty = false
}

// NodeHasher streams a node's hex-prefix/RLP encoding and finalizes it into
// either the inline bytes or a fresh digest, caching the result.
type NodeHasher struct {
	hasher Hasher
	buf    bytes.Buffer
}

func newNodeHasher(h Hasher) *NodeHasher {
	return &NodeHasher{hasher: h}
}

// WriteListHeader writes the RLP list header for a payload of the given
// length.
func (nh *NodeHasher) WriteListHeader(payloadLen int) {
	rlpenc.WriteListHeader(&nh.buf, payloadLen)
}

// WriteBytes writes the RLP string encoding of b.
func (nh *NodeHasher) WriteBytes(b []byte) {
	rlpenc.WriteBytes(&nh.buf, b)
}

// WritePathSlice writes the hex-prefix encoded path of the given nibbles
// (one nibble value per input byte).
func (nh *NodeHasher) WritePathSlice(nibbles []byte, kind rlpenc.PathKind) {
	rlpenc.WritePath(&nh.buf, nibbles, kind)
}

// PathLen returns the RLP-encoded length of a hex-prefix path of
// nibbleCount nibbles.
func (nh *NodeHasher) PathLen(nibbleCount int) int {
	return rlpenc.PathLen(nibbleCount)
}

// BytesLen returns the RLP-encoded length of a byte string of length n
// whose first byte is first.
func (nh *NodeHasher) BytesLen(n int, first byte) int {
	return rlpenc.BytesLen(n, first)
}

// WriteRaw appends b verbatim, with no RLP framing of its own. Used to
// splice an already hex-prefix/RLP-encoded child ref (an inline node
// encoding) directly into a parent's payload.
func (nh *NodeHasher) WriteRaw(b []byte) {
	nh.buf.Write(b)
}

// childRefLen returns the RLP-encoded length a node-hash-ref occupies
// within a parent's payload. A nil ref is an absent child (the empty byte
// string); a 32-byte ref is a digest, framed as an RLP byte string; any
// shorter ref is an inline node encoding, already fully framed, spliced in
// verbatim.
func childRefLen(nh *NodeHasher, ref []byte) int {
	if ref == nil {
		return nh.BytesLen(0, 0)
	}
	if len(ref) == 32 {
		return nh.BytesLen(32, ref[0])
	}
	return len(ref)
}

// writeChildRef appends ref to nh's buffer per the same rule as
// childRefLen.
func writeChildRef(nh *NodeHasher, ref []byte) {
	if ref == nil {
		nh.WriteBytes(nil)
		return
	}
	if len(ref) == 32 {
		nh.WriteBytes(ref)
		return
	}
	nh.WriteRaw(ref)
}

// Finalize collapses the streamed encoding into its hash ref: the raw
// bytes if the encoding is at most 31 bytes long (inline encoding), or the
// digest output otherwise. The result is cached in cache.
func (nh *NodeHasher) Finalize(cache *CachedHash) []byte {
	encoded := nh.buf.Bytes()

	var out []byte
	if len(encoded) <= 31 {
		out = append([]byte(nil), encoded...)
	} else {
		h := nh.hasher()
		h.Write(encoded)
		out = h.Sum(nil)
	}
	cache.set(out)
	return out
}
