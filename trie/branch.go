package trie

import "github.com/jaiminpan/pmtrie/nibble"

// branchGet consults n's own value when path is exhausted, else descends
// into the child selected by the next nibble.
func (t *Trie) branchGet(n *BranchNode, path nibble.Slice) ([]byte, error) {
	if path.Len() == 0 {
		if !n.ValueRef.Valid() {
			return nil, nil
		}
		_, value, ok := t.values.Get(n.ValueRef)
		if !ok {
			return nil, ErrInconsistentState
		}
		return value, nil
	}

	idx, rest := path.Next()
	childRef := n.Choices[idx]
	if !childRef.Valid() {
		return nil, nil
	}
	childNode, ok := t.nodes.Get(childRef)
	if !ok {
		return nil, ErrInconsistentState
	}
	return t.nodeGet(childNode, rest)
}

// branchInsert resolves an insertion that has descended into a Branch: a
// terminal binding on the branch itself if the path is exhausted here, an
// allocation into an empty child slot, or a recursive descent into an
// existing child.
func (t *Trie) branchInsert(n *BranchNode, path nibble.Slice) (Node, InsertAction, error) {
	n.Hash.MarkDirty()

	if path.Len() == 0 {
		if n.ValueRef.Valid() {
			return n, replaceAt(n.ValueRef), nil
		}
		return n, insertSelf(), nil
	}

	idx, rest := path.Next()
	child := n.Choices[idx]

	if !child.Valid() {
		newRef := t.nodes.Insert(newLeafNode(0))
		n.Choices[idx] = newRef
		return n, insertAt(newRef), nil
	}

	childNode, ok := t.nodes.Get(child)
	if !ok {
		return nil, InsertAction{}, ErrInconsistentState
	}

	rewritten, action, err := t.nodeInsert(childNode, rest)
	if err != nil {
		return nil, InsertAction{}, err
	}

	t.nodes.Set(child, rewritten)
	action = action.quantizeSelf(child)
	n.Choices[idx] = child

	return n, action, nil
}

// branchComputeHash encodes n as a 17-item list: 16 child refs (inline
// bytes or digests) followed by the branch's own value, or an empty byte
// string when absent.
func (t *Trie) branchComputeHash(n *BranchNode, keyOffset int) ([]byte, error) {
	if cached, ok := n.Hash.ExtractRef(); ok {
		return cached, nil
	}

	childRefs := make([][]byte, 16)
	for i, child := range n.Choices {
		if !child.Valid() {
			continue
		}
		childNode, ok := t.nodes.Get(child)
		if !ok {
			return nil, ErrInconsistentState
		}
		ref, err := t.nodeComputeHash(childNode, keyOffset+1)
		if err != nil {
			return nil, err
		}
		childRefs[i] = ref
	}

	var value []byte
	if n.ValueRef.Valid() {
		_, v, ok := t.values.Get(n.ValueRef)
		if !ok {
			return nil, ErrInconsistentState
		}
		value = v
	}

	nh := newNodeHasher(t.hasher)

	payloadLen := 0
	for _, ref := range childRefs {
		payloadLen += childRefLen(nh, ref)
	}
	var firstByte byte
	if len(value) > 0 {
		firstByte = value[0]
	}
	payloadLen += nh.BytesLen(len(value), firstByte)

	nh.WriteListHeader(payloadLen)
	for _, ref := range childRefs {
		writeChildRef(nh, ref)
	}
	nh.WriteBytes(value)

	return nh.Finalize(&n.Hash), nil
}
