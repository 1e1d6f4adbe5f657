package trie

// NodeRef is a stable handle into a NodesStorage arena, standing in for a
// pointer. The zero value denotes "no child".
type NodeRef uint32

// Valid reports whether r refers to an actual node.
func (r NodeRef) Valid() bool {
	return r != 0
}

func newNodeRef(idx int) NodeRef {
	return NodeRef(idx + 1)
}

func (r NodeRef) index() int {
	return int(r) - 1
}

// ValueRef is a stable handle into a ValuesStorage arena. The zero value
// denotes "absent".
type ValueRef uint32

// Valid reports whether r refers to an actual (path, value) pair.
func (r ValueRef) Valid() bool {
	return r != 0
}

func newValueRef(idx int) ValueRef {
	return ValueRef(idx + 1)
}

func (r ValueRef) index() int {
	return int(r) - 1
}

// NodesStorage is the append-only, index-addressed pool of trie nodes. Slots
// are never freed; a node may be logically replaced by overwriting the slot
// it occupies (Set) rather than allocating a new one.
type NodesStorage struct {
	nodes []Node
}

// Insert appends n to the arena and returns a ref to it.
func (s *NodesStorage) Insert(n Node) NodeRef {
	s.nodes = append(s.nodes, n)
	return newNodeRef(len(s.nodes) - 1)
}

// Get resolves ref to the node it refers to.
func (s *NodesStorage) Get(ref NodeRef) (Node, bool) {
	if !ref.Valid() {
		return nil, false
	}
	i := ref.index()
	if i < 0 || i >= len(s.nodes) {
		return nil, false
	}
	return s.nodes[i], true
}

// Set overwrites the slot ref refers to with n.
func (s *NodesStorage) Set(ref NodeRef, n Node) {
	s.nodes[ref.index()] = n
}

// valueEntry is a (path, value) pair: the full key is kept alongside the
// value so that any node holding the ValueRef can recover the complete
// key, not just the suffix consumed since the root.
type valueEntry struct {
	path  []byte
	value []byte
}

// ValuesStorage is the append-only, index-addressed pool of (path, value)
// pairs. Replacing an existing key's value rewrites the pair in place at its
// existing ValueRef rather than appending a new one.
type ValuesStorage struct {
	entries []valueEntry
}

// Insert appends a new (path, value) pair and returns a ref to it.
func (s *ValuesStorage) Insert(path, value []byte) ValueRef {
	s.entries = append(s.entries, valueEntry{path: path, value: value})
	return newValueRef(len(s.entries) - 1)
}

// Get resolves ref to its (path, value) pair.
func (s *ValuesStorage) Get(ref ValueRef) (path, value []byte, ok bool) {
	if !ref.Valid() {
		return nil, nil, false
	}
	i := ref.index()
	if i < 0 || i >= len(s.entries) {
		return nil, nil, false
	}
	e := s.entries[i]
	return e.path, e.value, true
}

// Set overwrites the (path, value) pair at an existing ref.
func (s *ValuesStorage) Set(ref ValueRef, path, value []byte) {
	s.entries[ref.index()] = valueEntry{path: path, value: value}
}
