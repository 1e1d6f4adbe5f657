package trie

import (
	"github.com/jaiminpan/pmtrie/nibble"
	"github.com/jaiminpan/pmtrie/rlpenc"
)

// leafGet returns the value stored at n iff path's remaining nibbles equal,
// in full, the nibble expansion of n's stored key.
func (t *Trie) leafGet(n *LeafNode, path nibble.Slice) ([]byte, error) {
	storedPath, value, ok := t.values.Get(n.ValueRef)
	if !ok {
		return nil, ErrInconsistentState
	}
	if !path.CmpRest(storedPath) {
		return nil, nil
	}
	return value, nil
}

// leafInsert resolves an insertion that has descended into a Leaf. Three
// outcomes are possible: the inserting path matches the leaf's own key
// exactly (a value replacement), or it diverges from it somewhere, in which
// case the leaf is rewritten into a Branch (optionally wrapped in an
// Extension, when the two keys shared a non-empty common prefix past the
// current offset).
func (t *Trie) leafInsert(n *LeafNode, path nibble.Slice) (Node, InsertAction, error) {
	n.Hash.MarkDirty()

	storedPath, _, ok := t.values.Get(n.ValueRef)
	if !ok {
		return nil, InsertAction{}, ErrInconsistentState
	}

	if path.CmpRest(storedPath) {
		return n, replaceAt(n.ValueRef), nil
	}

	stored := nibble.New(storedPath).OffsetAdd(path.Offset())
	common := path.CountPrefixSlice(stored)

	branchPoint := path.OffsetAdd(common)
	abs := branchPoint.Offset()

	branch := newBranchNode()
	var action InsertAction

	switch {
	case abs == path.TotalLen():
		// The inserting path is exhausted here: it is a prefix of the
		// stored leaf's key. The old leaf moves into the branch's slot
		// for its next nibble; the branch's own value slot takes the
		// new insertion.
		// TODO: dedicated method for branch-slot assignment by nibble.
		idx := nibble.At(storedPath, abs)
		branch.Choices[idx] = t.nodes.Insert(n)
		action = insertSelf()

	case abs == nibble.Len(storedPath):
		// The stored key is exhausted here: it is a prefix of the
		// inserting path. The old leaf's value moves onto the branch
		// itself; a fresh empty leaf takes the branch's slot for the
		// inserting path's next nibble.
		childRef := t.nodes.Insert(newLeafNode(0))
		nextNibble, _ := branchPoint.Next()
		branch.Choices[nextNibble] = childRef
		branch.ValueRef = n.ValueRef
		action = insertAt(childRef)

	default:
		// Both keys still have nibbles left past the common prefix,
		// diverging in different directions: the old leaf and a fresh
		// empty leaf both become children of the branch.
		// TODO: dedicated method for branch-slot assignment by nibble.
		oldIdx := nibble.At(storedPath, abs)
		branch.Choices[oldIdx] = t.nodes.Insert(n)

		childRef := t.nodes.Insert(newLeafNode(0))
		nextNibble, _ := branchPoint.Next()
		branch.Choices[nextNibble] = childRef
		action = insertAt(childRef)
	}

	if common == 0 {
		return branch, action, nil
	}

	branchRef := t.nodes.Insert(branch)
	action = action.quantizeSelf(branchRef)
	prefix := path.SplitToVec(common)
	return newExtensionNode(prefix, branchRef), action, nil
}

// leafComputeHash computes the RLP/hex-prefix encoding of n: a two-element
// list of the hex-prefix encoded key suffix (past keyOffset) and the raw
// value bytes.
func (t *Trie) leafComputeHash(n *LeafNode, keyOffset int) ([]byte, error) {
	if cached, ok := n.Hash.ExtractRef(); ok {
		return cached, nil
	}

	storedPath, value, ok := t.values.Get(n.ValueRef)
	if !ok {
		return nil, ErrInconsistentState
	}

	keySlice := nibble.New(storedPath).OffsetAdd(keyOffset)
	keyNibbles := keySlice.SplitToVec(keySlice.Len())

	nh := newNodeHasher(t.hasher)
	keyLen := nh.PathLen(len(keyNibbles))
	var firstByte byte
	if len(value) > 0 {
		firstByte = value[0]
	}
	valueLen := nh.BytesLen(len(value), firstByte)

	nh.WriteListHeader(keyLen + valueLen)
	nh.WritePathSlice(keyNibbles, rlpenc.Leaf)
	nh.WriteBytes(value)

	return nh.Finalize(&n.Hash), nil
}
