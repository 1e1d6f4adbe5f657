package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaiminpan/pmtrie/nibble"
)

func newTestTrie() *Trie {
	return &Trie{hasher: Keccak256}
}

func TestNewLeafNodeHasDefaultValueRef(t *testing.T) {
	n := newLeafNode(0)
	assert.False(t, n.ValueRef.Valid())
}

func TestLeafGetMatchAndMismatch(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12}, []byte{0x12, 0x34, 0x56, 0x78})
	leaf := newLeafNode(valueRef)

	v, err := tr.leafGet(leaf, nibble.New([]byte{0x12}))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, v)

	v, err = tr.leafGet(leaf, nibble.New([]byte{0x34}))
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestLeafInsertExactMatchReplaces(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12}, []byte("old"))
	leafRef := tr.nodes.Insert(newLeafNode(valueRef))
	leaf, _ := tr.nodes.Get(leafRef)

	rewritten, action, err := tr.leafInsert(leaf.(*LeafNode), nibble.New([]byte{0x12}))
	require.NoError(t, err)

	_, ok := rewritten.(*LeafNode)
	assert.True(t, ok)
	assert.Equal(t, actionReplace, action.kind)
	assert.Equal(t, valueRef, action.valueRef)
}

func TestLeafInsertDivergingByteYieldsBranch(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12}, []byte("a"))
	leafRef := tr.nodes.Insert(newLeafNode(valueRef))
	leaf, _ := tr.nodes.Get(leafRef)

	rewritten, action, err := tr.leafInsert(leaf.(*LeafNode), nibble.New([]byte{0x22}))
	require.NoError(t, err)

	branch, ok := rewritten.(*BranchNode)
	require.True(t, ok)
	assert.Equal(t, actionInsert, action.kind)
	assert.True(t, action.nodeRef.Valid())
	assert.True(t, branch.Choices[1].Valid())
}

func TestLeafInsertSharedNibbleYieldsExtension(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12}, []byte("a"))
	leafRef := tr.nodes.Insert(newLeafNode(valueRef))
	leaf, _ := tr.nodes.Get(leafRef)

	rewritten, action, err := tr.leafInsert(leaf.(*LeafNode), nibble.New([]byte{0x13}))
	require.NoError(t, err)

	ext, ok := rewritten.(*ExtensionNode)
	require.True(t, ok)
	assert.Equal(t, []byte{0x01}, ext.Prefix)
	assert.Equal(t, actionInsert, action.kind)

	branchNode, ok := tr.nodes.Get(ext.Child)
	require.True(t, ok)
	_, ok = branchNode.(*BranchNode)
	assert.True(t, ok)
}

func TestLeafInsertLongerKeyYieldsExtensionOverBranchWithValue(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12}, []byte("a"))
	leafRef := tr.nodes.Insert(newLeafNode(valueRef))
	leaf, _ := tr.nodes.Get(leafRef)

	rewritten, action, err := tr.leafInsert(leaf.(*LeafNode), nibble.New([]byte{0x12, 0x34}))
	require.NoError(t, err)

	ext, ok := rewritten.(*ExtensionNode)
	require.True(t, ok)
	assert.Equal(t, actionInsert, action.kind)

	branchNode, ok := tr.nodes.Get(ext.Child)
	require.True(t, ok)
	branch := branchNode.(*BranchNode)
	assert.Equal(t, valueRef, branch.ValueRef)
}

func TestLeafInsertShorterKeyYieldsExtensionQuantizedInsert(t *testing.T) {
	tr := newTestTrie()
	valueRef := tr.values.Insert([]byte{0x12, 0x34}, []byte("a"))
	leafRef := tr.nodes.Insert(newLeafNode(valueRef))
	leaf, _ := tr.nodes.Get(leafRef)

	rewritten, action, err := tr.leafInsert(leaf.(*LeafNode), nibble.New([]byte{0x12}))
	require.NoError(t, err)

	_, ok := rewritten.(*ExtensionNode)
	assert.True(t, ok)
	assert.Equal(t, actionInsert, action.kind)
	assert.True(t, action.nodeRef.Valid())
}
