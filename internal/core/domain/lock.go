package domain

// LockEntry records how one reference of a lock node was satisfied.
type LockEntry struct {
	// Package is the resolved package id. It is empty for path-resolved
	// references, which are recorded as structural links only.
	Package PackageID

	// Node is the index of the reference's own lock node in the graph.
	Node int
}

// LockNode is one deduplicated unit of the lock graph: the resolution of
// every reference a package declares.
type LockNode struct {
	Dependencies map[Reference]LockEntry
}

// Equal reports value equality of two lock nodes. Structurally equal nodes
// share one index in the lock graph.
func (n LockNode) Equal(other LockNode) bool {
	if len(n.Dependencies) != len(other.Dependencies) {
		return false
	}
	for ref, entry := range n.Dependencies {
		got, ok := other.Dependencies[ref]
		if !ok || got != entry {
			return false
		}
	}
	return true
}

// LockGraph is the output of a resolve call: an ordered sequence of
// deduplicated lock nodes plus the index of the root package's node. The
// graph is acyclic.
type LockGraph struct {
	Root  int
	Nodes []LockNode
}
