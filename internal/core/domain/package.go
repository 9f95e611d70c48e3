package domain

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// PackageID is the content address of a package. Two packages with the same
// id are byte-identical.
type PackageID string

// String returns the id as a string.
func (id PackageID) String() string {
	return string(id)
}

// NewPackageID derives a content address from the canonical bytes of a
// package. The id is stable across processes and platforms.
func NewPackageID(content []byte) PackageID {
	return PackageID(fmt.Sprintf("pkg-%016x", xxhash.Sum64(content)))
}

// Metadata is the published identity of a package: its registry name and
// concrete version.
type Metadata struct {
	// Name is the registry name (e.g. "zlib").
	Name string

	// Version is the concrete version string (e.g. "1.2.3").
	Version string
}

// String renders the identity as "name@version".
func (m Metadata) String() string {
	return m.Name + "@" + m.Version
}

// Analysis is the cached facts about one package: its metadata and the
// ordered list of references it declares. An Analysis is created on the
// first registry query for a package id and is read-only afterward.
type Analysis struct {
	Metadata     Metadata
	Dependencies []Reference
}
