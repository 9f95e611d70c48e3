package domain

// PathTable records the path-dependency overrides discovered by the
// workspace scanner: for each package, the mapping from a declared local
// path to the id of the package it resolves to.
//
// The table is consumed, never produced, by the solver: a hit bypasses
// version search entirely.
type PathTable map[PackageID]map[string]PackageID

// Resolve looks up the override for the given package and path.
func (t PathTable) Resolve(pkg PackageID, path string) (PackageID, bool) {
	if path == "" {
		return "", false
	}
	id, ok := t[pkg][path]
	return id, ok
}

// Add records an override, allocating the inner map on first use.
func (t PathTable) Add(pkg PackageID, path string, child PackageID) {
	inner, ok := t[pkg]
	if !ok {
		inner = make(map[string]PackageID)
		t[pkg] = inner
	}
	inner[path] = child
}

// Workspace is the scanned root of a resolve call: the root package id and
// the path-dependency table covering every path-linked package.
type Workspace struct {
	Root  PackageID
	Paths PathTable
}
