package trie

// Node is the tagged union of the trie's three node variants. Dispatch
// happens via a type switch at the trie façade's entry points; there is no
// open extension set.
type Node interface {
	isNode()
}

// LeafNode is a terminal node: the full key and value live in the values
// arena at ValueRef, not in the node itself.
type LeafNode struct {
	ValueRef ValueRef
	Hash     CachedHash
}

func (*LeafNode) isNode() {}

func newLeafNode(valueRef ValueRef) *LeafNode {
	return &LeafNode{ValueRef: valueRef}
}

// ExtensionNode holds a shared nibble run (Prefix, one nibble value per
// byte) leading to exactly one child, which must be a BranchNode.
type ExtensionNode struct {
	Prefix []byte
	Child  NodeRef
	Hash   CachedHash
}

func (*ExtensionNode) isNode() {}

func newExtensionNode(prefix []byte, child NodeRef) *ExtensionNode {
	return &ExtensionNode{Prefix: prefix, Child: child}
}

// BranchNode has 16 slotted children plus an optional terminal value for
// the exact key ending at this branch.
type BranchNode struct {
	Choices  [16]NodeRef
	ValueRef ValueRef
	Hash     CachedHash
}

func (*BranchNode) isNode() {}

func newBranchNode() *BranchNode {
	return &BranchNode{}
}

// insertActionKind tags which variant of InsertAction a recursive insert
// produced.
type insertActionKind int

const (
	actionInsert insertActionKind = iota
	actionInsertSelf
	actionReplace
)

// InsertAction tells the trie façade where the value just inserted must be
// bound.
type InsertAction struct {
	kind     insertActionKind
	nodeRef  NodeRef
	valueRef ValueRef
}

// insertAt returns an action meaning: allocate a fresh ValueRef and bind the
// LeafNode living at r to it.
func insertAt(r NodeRef) InsertAction {
	return InsertAction{kind: actionInsert, nodeRef: r}
}

// insertSelf returns an action meaning: the leaf to bind is the node the
// recursive call just returned (the caller must quantizeSelf it before
// surfacing further up).
func insertSelf() InsertAction {
	return InsertAction{kind: actionInsertSelf}
}

// replaceAt returns an action meaning: overwrite the (path, value) pair at
// an existing ValueRef.
func replaceAt(r ValueRef) InsertAction {
	return InsertAction{kind: actionReplace, valueRef: r}
}

// quantizeSelf promotes an InsertSelf action to a concrete Insert(selfRef)
// once the caller knows what ref the leaf ended up at. It is a no-op for
// every other action kind.
func (a InsertAction) quantizeSelf(selfRef NodeRef) InsertAction {
	if a.kind == actionInsertSelf {
		return insertAt(selfRef)
	}
	return a
}
