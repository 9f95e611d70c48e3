// Package domain contains the core domain models for package resolution.
package domain

// Reference is a declared dependency: a name with an optional semver-range
// constraint, or a local path override. A Reference with a Path set is
// resolved structurally through the workspace path table and never consults
// the registry.
//
// Reference is comparable and is used as a map key in Dependant and LockNode.
type Reference struct {
	// Name is the registry name of the dependency. It may be empty when
	// Path is set.
	Name string

	// Constraint is a semver range (e.g. "^1.2", "<2.0.0"). Empty means
	// any version.
	Constraint string

	// Path is a workspace-relative path override (e.g. "./lib/util").
	Path string
}

// IsPath reports whether the reference is a local path override.
func (r Reference) IsPath() bool {
	return r.Path != ""
}

// String renders the reference in its canonical form: "name@constraint",
// bare "name", or the path.
func (r Reference) String() string {
	if r.Path != "" {
		if r.Name != "" {
			return r.Name + " (" + r.Path + ")"
		}
		return r.Path
	}
	if r.Constraint != "" {
		return r.Name + "@" + r.Constraint
	}
	return r.Name
}

// Dependant is one edge in the dependency graph: a package together with one
// of its declared references.
type Dependant struct {
	// Package is the id of the package declaring the reference.
	Package PackageID

	// Reference is the declared dependency.
	Reference Reference
}

// String renders the edge for diagnostics.
func (d Dependant) String() string {
	return d.Package.String() + " -> " + d.Reference.String()
}
