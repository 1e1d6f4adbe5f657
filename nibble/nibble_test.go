package nibble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSliceLenAndAt(t *testing.T) {
	s := New([]byte{0x12, 0x34})
	require.Equal(t, 4, s.Len())
	assert.Equal(t, byte(0x1), s.At(0))
	assert.Equal(t, byte(0x2), s.At(1))
	assert.Equal(t, byte(0x3), s.At(2))
	assert.Equal(t, byte(0x4), s.At(3))
}

func TestSliceOffsetAddAndNext(t *testing.T) {
	s := New([]byte{0x12, 0x34}).OffsetAdd(1)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, byte(0x2), s.At(0))

	n, rest := s.Next()
	assert.Equal(t, byte(0x2), n)
	assert.Equal(t, 2, rest.Len())
	assert.Equal(t, byte(0x3), rest.At(0))
}

func TestCmpRest(t *testing.T) {
	s := New([]byte{0x12})
	assert.True(t, s.CmpRest([]byte{0x12}))
	assert.False(t, s.CmpRest([]byte{0x34}))
	assert.False(t, s.CmpRest([]byte{0x12, 0x34}))
}

func TestCmpRestAtNonZeroOffset(t *testing.T) {
	// other is a full key; s is a view into a longer key that happens to
	// share its tail with other read from s's own offset.
	s := New([]byte{0x99, 0x12, 0x34}).OffsetAdd(2)
	assert.True(t, s.CmpRest([]byte{0xaa, 0x12, 0x34}))
	assert.False(t, s.CmpRest([]byte{0xaa, 0x12, 0x99}))
	assert.False(t, s.CmpRest([]byte{0xaa, 0x12}))
}

func TestTotalLen(t *testing.T) {
	s := New([]byte{0x12, 0x34, 0x56}).OffsetAdd(3)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 6, s.TotalLen())
}

func TestCountPrefixSlice(t *testing.T) {
	a := New([]byte{0x12, 0x34})
	b := New([]byte{0x12, 0x56})
	assert.Equal(t, 2, a.CountPrefixSlice(b))

	c := New([]byte{0x99})
	assert.Equal(t, 0, a.CountPrefixSlice(c))
}

func TestSplitToVec(t *testing.T) {
	s := New([]byte{0x12, 0x34}).OffsetAdd(1)
	got := s.SplitToVec(2)
	assert.Equal(t, []byte{0x2, 0x3}, got)
}

func TestCommonPrefixLen(t *testing.T) {
	s := New([]byte{0x12, 0x34})
	assert.Equal(t, 3, CommonPrefixLen([]byte{0x1, 0x2, 0x3}, s))
	assert.Equal(t, 1, CommonPrefixLen([]byte{0x1, 0x9}, s))
}

func TestPackageLevelAtAndLen(t *testing.T) {
	key := []byte{0xab, 0xcd}
	assert.Equal(t, 4, Len(key))
	assert.Equal(t, byte(0xa), At(key, 0))
	assert.Equal(t, byte(0xb), At(key, 1))
	assert.Equal(t, byte(0xc), At(key, 2))
	assert.Equal(t, byte(0xd), At(key, 3))
}
