// Package nibble implements the 4-bit-digit view over a byte-sequence key
// that the trie's insertion and hashing engines descend along. It is the
// external "nibble-slicing" collaborator: an offset-aware window over a
// []byte key, plus the handful of operations the trie needs to compare,
// split and advance along key paths.
package nibble

// Slice is an offset-aware view over the nibbles of a byte-sequence key.
// The zero value is not meaningful; use New.
type Slice struct {
	key    []byte
	offset int // nibbles already consumed from the front of key
}

// New returns a Slice over key with its head at the first nibble.
func New(key []byte) Slice {
	return Slice{key: key}
}

// Offset reports how many nibbles have been consumed from the front.
func (s Slice) Offset() int {
	return s.offset
}

// Len reports the number of nibbles remaining past the current offset.
func (s Slice) Len() int {
	return len(s.key)*2 - s.offset
}

// TotalLen reports the total number of nibbles in the underlying key,
// regardless of the current offset.
func (s Slice) TotalLen() int {
	return len(s.key) * 2
}

// At returns the nibble i positions past the current offset.
func (s Slice) At(i int) byte {
	return At(s.key, s.offset+i)
}

// OffsetAdd returns a copy of s with its offset advanced by n nibbles.
func (s Slice) OffsetAdd(n int) Slice {
	return Slice{key: s.key, offset: s.offset + n}
}

// Next returns the nibble at the current offset together with a slice
// advanced past it.
func (s Slice) Next() (byte, Slice) {
	return s.At(0), s.OffsetAdd(1)
}

// CmpRest reports whether the remaining nibbles of s equal, in full, the
// nibble expansion of other, read starting at s's own current offset. This
// is what lets a Leaf compare its stored key against an inserting/looked-up
// path without the caller having to realign the two slices first.
func (s Slice) CmpRest(other []byte) bool {
	if s.Len() != Len(other)-s.offset {
		return false
	}
	for i := 0; i < s.Len(); i++ {
		if s.At(i) != At(other, s.offset+i) {
			return false
		}
	}
	return true
}

// CountPrefixSlice returns the length, in nibbles, of the longest common
// prefix between the remaining nibbles of s and the remaining nibbles of
// other, each measured from its own current offset.
func (s Slice) CountPrefixSlice(other Slice) int {
	n := s.Len()
	if m := other.Len(); m < n {
		n = m
	}
	i := 0
	for i < n && s.At(i) == other.At(i) {
		i++
	}
	return i
}

// SplitToVec materializes the next n nibbles (from the current offset) into
// an owned buffer, one nibble value (0-15) per output byte. This is the
// representation extension prefixes and hashing inputs use internally; it
// is realigned to a fresh offset-0 buffer regardless of where s's own
// offset fell, which is the "hex-prefix alignment" split_to_vec performs.
func (s Slice) SplitToVec(n int) []byte {
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = s.At(i)
	}
	return buf
}

// At returns nibble i (0 = high nibble of byte 0) of a raw byte key.
func At(key []byte, i int) byte {
	b := key[i/2]
	if i%2 == 0 {
		return b >> 4
	}
	return b & 0x0f
}

// Len returns the number of nibbles in a raw byte key.
func Len(key []byte) int {
	return len(key) * 2
}

// CommonPrefixLen returns the longest common prefix, in nibbles, between an
// already-split nibble buffer (one nibble value per byte, as produced by
// SplitToVec) and the remaining nibbles of s.
func CommonPrefixLen(nibbles []byte, s Slice) int {
	n := len(nibbles)
	if m := s.Len(); m < n {
		n = m
	}
	i := 0
	for i < n && nibbles[i] == s.At(i) {
		i++
	}
	return i
}
