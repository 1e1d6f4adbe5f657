package trie

import (
	"github.com/jaiminpan/pmtrie/nibble"
	"github.com/jaiminpan/pmtrie/rlpenc"
)

// extensionGet descends past n's shared prefix into its child, provided
// the path's next nibbles match the prefix in full.
func (t *Trie) extensionGet(n *ExtensionNode, path nibble.Slice) ([]byte, error) {
	if path.Len() < len(n.Prefix) {
		return nil, nil
	}
	for i, nb := range n.Prefix {
		if path.At(i) != nb {
			return nil, nil
		}
	}

	childNode, ok := t.nodes.Get(n.Child)
	if !ok {
		return nil, ErrInconsistentState
	}
	return t.nodeGet(childNode, path.OffsetAdd(len(n.Prefix)))
}

// extensionInsert resolves an insertion that has descended into an
// Extension. The common prefix length between n's own prefix and the
// inserting path decides which of three rewrites applies: a clean
// recursion past the whole prefix, a full dissolve when nothing is shared,
// or a three-way split at the point of divergence.
func (t *Trie) extensionInsert(n *ExtensionNode, path nibble.Slice) (Node, InsertAction, error) {
	n.Hash.MarkDirty()

	c := nibble.CommonPrefixLen(n.Prefix, path)

	switch {
	case c == len(n.Prefix):
		rest := path.OffsetAdd(c)
		childNode, ok := t.nodes.Get(n.Child)
		if !ok {
			return nil, InsertAction{}, ErrInconsistentState
		}
		rewritten, action, err := t.nodeInsert(childNode, rest)
		if err != nil {
			return nil, InsertAction{}, err
		}
		t.nodes.Set(n.Child, rewritten)
		action = action.quantizeSelf(n.Child)
		return n, action, nil

	case c == 0:
		return t.extensionDissolve(n, path)

	default:
		return t.extensionSplit(n, path, c)
	}
}

// extensionDissolve handles the c == 0 case: the extension shares nothing
// with the inserting path, so it collapses into a branch. The branch's
// slot for the extension's own first nibble holds whatever remains of the
// extension (or its child directly, if only one nibble remains), and the
// slot for the inserting path's next nibble holds a fresh empty leaf. If the
// inserting path ends here, the branch's own value slot takes the insertion
// instead.
func (t *Trie) extensionDissolve(n *ExtensionNode, path nibble.Slice) (Node, InsertAction, error) {
	branch := newBranchNode()

	if len(n.Prefix) == 1 {
		branch.Choices[n.Prefix[0]] = n.Child
	} else {
		remainder := append([]byte(nil), n.Prefix[1:]...)
		remRef := t.nodes.Insert(newExtensionNode(remainder, n.Child))
		branch.Choices[n.Prefix[0]] = remRef
	}

	if path.Len() == 0 {
		return branch, insertSelf(), nil
	}

	childRef := t.nodes.Insert(newLeafNode(0))
	nextNibble, _ := path.Next()
	branch.Choices[nextNibble] = childRef

	return branch, insertAt(childRef), nil
}

// extensionSplit handles 0 < c < len(prefix): the extension's prefix and
// the inserting path diverge partway through. The shared head (length c)
// stays an extension over a new branch; the divergence nibble routes to
// whatever remains of the original prefix (a shortened extension, or the
// original child directly), and the inserting path's own next nibble
// routes to a fresh empty leaf. If the inserting path ends at the point of
// divergence, the new branch's own value slot takes the insertion instead.
func (t *Trie) extensionSplit(n *ExtensionNode, path nibble.Slice, c int) (Node, InsertAction, error) {
	head := append([]byte(nil), n.Prefix[:c]...)
	divergence := n.Prefix[c]
	tail := n.Prefix[c+1:]

	branch := newBranchNode()
	if len(tail) == 0 {
		branch.Choices[divergence] = n.Child
	} else {
		tailCopy := append([]byte(nil), tail...)
		tailRef := t.nodes.Insert(newExtensionNode(tailCopy, n.Child))
		branch.Choices[divergence] = tailRef
	}

	rest := path.OffsetAdd(c)
	if rest.Len() == 0 {
		branchRef := t.nodes.Insert(branch)
		return newExtensionNode(head, branchRef), insertAt(branchRef), nil
	}

	childRef := t.nodes.Insert(newLeafNode(0))
	nextNibble, _ := rest.Next()
	branch.Choices[nextNibble] = childRef

	branchRef := t.nodes.Insert(branch)
	return newExtensionNode(head, branchRef), insertAt(childRef), nil
}

// extensionComputeHash encodes n as a two-element list: the hex-prefix
// encoded prefix nibbles and the child's hash ref.
func (t *Trie) extensionComputeHash(n *ExtensionNode, keyOffset int) ([]byte, error) {
	if cached, ok := n.Hash.ExtractRef(); ok {
		return cached, nil
	}

	childNode, ok := t.nodes.Get(n.Child)
	if !ok {
		return nil, ErrInconsistentState
	}
	childRef, err := t.nodeComputeHash(childNode, keyOffset+len(n.Prefix))
	if err != nil {
		return nil, err
	}

	nh := newNodeHasher(t.hasher)
	prefixLen := nh.PathLen(len(n.Prefix))
	childLen := childRefLen(nh, childRef)

	nh.WriteListHeader(prefixLen + childLen)
	nh.WritePathSlice(n.Prefix, rlpenc.Extension)
	writeChildRef(nh, childRef)

	return nh.Finalize(&n.Hash), nil
}
