// Package trie implements an in-memory, single-threaded Patricia-Merkle
// trie: a radix-16, nibble-indexed authenticated key/value map producing an
// Ethereum "modified Merkle Patricia trie" compatible root hash.
//
// A Trie owns its two arenas (nodes and values) exclusively; Insert and
// RootHash require unique access, while Get may be called concurrently by
// readers that can guarantee no concurrent mutation is in flight. Deletion,
// disk persistence, proof generation and snapshotting are not implemented.
package trie

import (
	"bytes"

	"github.com/jaiminpan/pmtrie/nibble"
	"github.com/jaiminpan/pmtrie/rlpenc"
)

// Trie is a persistent-within-process, authenticated radix-16 map from
// byte-string keys to byte-string values. The zero value is not ready for
// use; construct with New.
type Trie struct {
	nodes  NodesStorage
	values ValuesStorage
	root   NodeRef
	hasher Hasher
}

// New returns an empty trie that hashes node encodings longer than the
// inline threshold with hasher.
func New(hasher Hasher) *Trie {
	return &Trie{hasher: hasher}
}

// NewKeccak256 returns an empty trie using the Ethereum-compatible
// Keccak256 digest.
func NewKeccak256() *Trie {
	return New(Keccak256)
}

// Get returns the value stored at key, or nil if no such key has been
// inserted.
func (t *Trie) Get(key []byte) ([]byte, error) {
	if !t.root.Valid() {
		return nil, nil
	}
	rootNode, ok := t.nodes.Get(t.root)
	if !ok {
		return nil, ErrInconsistentState
	}
	return t.nodeGet(rootNode, nibble.New(key))
}

// Insert binds value to key, returning the previous value if key was
// already present.
func (t *Trie) Insert(key, value []byte) ([]byte, error) {
	if !t.root.Valid() {
		valueRef := t.values.Insert(key, value)
		t.root = t.nodes.Insert(newLeafNode(valueRef))
		return nil, nil
	}

	rootNode, ok := t.nodes.Get(t.root)
	if !ok {
		return nil, ErrInconsistentState
	}

	rewritten, action, err := t.nodeInsert(rootNode, nibble.New(key))
	if err != nil {
		return nil, err
	}
	t.nodes.Set(t.root, rewritten)
	action = action.quantizeSelf(t.root)

	return t.commitAction(action, key, value)
}

// RootHash returns the trie's current root hash ref: the RLP encoding of
// the empty byte string for an empty trie, or the root node's own hash ref
// otherwise (its raw encoding if at most 31 bytes, else the digest output).
func (t *Trie) RootHash() ([]byte, error) {
	if !t.root.Valid() {
		var buf bytes.Buffer
		rlpenc.WriteBytes(&buf, nil)
		return buf.Bytes(), nil
	}

	rootNode, ok := t.nodes.Get(t.root)
	if !ok {
		return nil, ErrInconsistentState
	}
	return t.nodeComputeHash(rootNode, 0)
}

// commitAction binds the (key, value) pair per action, returning the
// previous value for a Replace and nil for a fresh Insert. An
// actionInsertSelf reaching here means the caller failed to quantizeSelf
// it against a concrete ref first, which is itself an inconsistency.
func (t *Trie) commitAction(action InsertAction, key, value []byte) ([]byte, error) {
	switch action.kind {
	case actionReplace:
		_, prev, ok := t.values.Get(action.valueRef)
		if !ok {
			return nil, ErrInconsistentState
		}
		t.values.Set(action.valueRef, key, value)
		return prev, nil

	case actionInsert:
		node, ok := t.nodes.Get(action.nodeRef)
		if !ok {
			return nil, ErrInconsistentState
		}
		newValueRef := t.values.Insert(key, value)
		if err := bindValueRef(node, newValueRef); err != nil {
			return nil, err
		}
		return nil, nil

	default:
		return nil, ErrInconsistentState
	}
}

// bindValueRef sets ref as n's own value slot and marks it dirty. Only
// Leaf and Branch carry a value slot; an Extension can never be the target
// of an Insert action.
func bindValueRef(n Node, ref ValueRef) error {
	switch nd := n.(type) {
	case *LeafNode:
		nd.ValueRef = ref
		nd.Hash.MarkDirty()
	case *BranchNode:
		nd.ValueRef = ref
		nd.Hash.MarkDirty()
	default:
		return ErrInconsistentState
	}
	return nil
}

// nodeGet dispatches Get to the right per-variant implementation.
func (t *Trie) nodeGet(n Node, path nibble.Slice) ([]byte, error) {
	switch nd := n.(type) {
	case *LeafNode:
		return t.leafGet(nd, path)
	case *ExtensionNode:
		return t.extensionGet(nd, path)
	case *BranchNode:
		return t.branchGet(nd, path)
	default:
		return nil, ErrInconsistentState
	}
}

// nodeInsert dispatches Insert to the right per-variant implementation.
func (t *Trie) nodeInsert(n Node, path nibble.Slice) (Node, InsertAction, error) {
	switch nd := n.(type) {
	case *LeafNode:
		return t.leafInsert(nd, path)
	case *ExtensionNode:
		return t.extensionInsert(nd, path)
	case *BranchNode:
		return t.branchInsert(nd, path)
	default:
		return nil, InsertAction{}, ErrInconsistentState
	}
}

// nodeComputeHash dispatches hash computation to the right per-variant
// implementation.
func (t *Trie) nodeComputeHash(n Node, keyOffset int) ([]byte, error) {
	switch nd := n.(type) {
	case *LeafNode:
		return t.leafComputeHash(nd, keyOffset)
	case *ExtensionNode:
		return t.extensionComputeHash(nd, keyOffset)
	case *BranchNode:
		return t.branchComputeHash(nd, keyOffset)
	default:
		return nil, ErrInconsistentState
	}
}
