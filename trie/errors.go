package trie

import "errors"

// ErrInconsistentState is returned whenever a NodeRef or ValueRef fails to
// resolve in its arena. This indicates a corrupted trie: under correct use
// of the package API it is unreachable, since refs are only ever handed out
// by the arenas that own them and never aliased across tries.
var ErrInconsistentState = errors.New("trie: inconsistent internal tree structure")
