package solver

import (
	"context"

	"github.com/Masterminds/semver"
	"go.trai.ch/zerr"

	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports"
)

// Context memoizes registry answers for the lifetime of one resolve call. It
// is exclusively owned by that call and never shared, so no locking is
// needed.
type Context struct {
	registry ports.Registry

	// analyses caches the registry's answer per package id.
	analyses map[domain.PackageID]*domain.Analysis

	// published caches the package id per exact (name, version) pair.
	published map[domain.Metadata]domain.PackageID

	// paths is the precomputed path-override table. A hit bypasses version
	// search entirely.
	paths domain.PathTable
}

func newContext(registry ports.Registry, paths domain.PathTable) *Context {
	return &Context{
		registry:  registry,
		analyses:  make(map[domain.PackageID]*domain.Analysis),
		published: make(map[domain.Metadata]domain.PackageID),
		paths:     paths,
	}
}

// Analysis returns the cached facts about a package, querying the registry
// once per id. Path references without a table entry cannot be resolved and
// are dropped from the cached dependency list.
func (c *Context) Analysis(ctx context.Context, id domain.PackageID) (*domain.Analysis, error) {
	if analysis, ok := c.analyses[id]; ok {
		return analysis, nil
	}
	analysis, err := c.registry.Analyze(ctx, id)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to analyze package")
	}
	deps := make([]domain.Reference, 0, len(analysis.Dependencies))
	for _, ref := range analysis.Dependencies {
		if ref.IsPath() {
			if _, ok := c.paths.Resolve(id, ref.Path); !ok {
				continue
			}
		}
		deps = append(deps, ref)
	}
	cached := &domain.Analysis{Metadata: analysis.Metadata, Dependencies: deps}
	c.analyses[id] = cached
	c.published[cached.Metadata] = id
	return cached, nil
}

// Dependencies returns the declared references of a package.
func (c *Context) Dependencies(ctx context.Context, id domain.PackageID) ([]domain.Reference, error) {
	analysis, err := c.Analysis(ctx, id)
	if err != nil {
		return nil, err
	}
	return analysis.Dependencies, nil
}

// version returns the concrete version of a package.
func (c *Context) version(ctx context.Context, id domain.PackageID) (string, error) {
	analysis, err := c.Analysis(ctx, id)
	if err != nil {
		return "", err
	}
	return analysis.Metadata.Version, nil
}

// resolvePath looks up the path-override table for the dependant.
func (c *Context) resolvePath(d domain.Dependant) (domain.PackageID, bool) {
	return c.paths.Resolve(d.Package, d.Reference.Path)
}

// allVersions returns the candidate version stack for a registry dependant:
// every published version satisfying the constraint, ascending, so popping
// from the end tries the newest satisfying version first. Path dependants
// get an empty stack.
func (c *Context) allVersions(ctx context.Context, d domain.Dependant) ([]string, error) {
	if _, ok := c.resolvePath(d); ok {
		return nil, nil
	}
	if d.Reference.Name == "" {
		return nil, zerr.With(domain.ErrMissingDependencyName, "dependant", d.String())
	}
	versions, err := c.registry.ListVersions(ctx, d.Reference.Name)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to list versions")
	}
	satisfying := make([]string, 0, len(versions))
	for _, version := range versions {
		ok, err := matches(version, d.Reference.Constraint)
		if err != nil || !ok {
			continue
		}
		satisfying = append(satisfying, version)
	}
	return satisfying, nil
}

// tryResolve pops candidates off the version stack until one resolves to a
// package id. Entries of the published version list are not guaranteed to be
// individually resolvable, so misses skip to the next candidate. An
// exhausted stack is a version conflict.
func (c *Context) tryResolve(ctx context.Context, d domain.Dependant, remaining *[]string) (domain.PackageID, error) {
	name := d.Reference.Name
	for {
		stack := *remaining
		if len(stack) == 0 {
			return "", ErrVersionConflict
		}
		version := stack[len(stack)-1]
		*remaining = stack[:len(stack)-1]

		metadata := domain.Metadata{Name: name, Version: version}
		if id, ok := c.published[metadata]; ok {
			return id, nil
		}
		id, ok, err := c.registry.ResolveVersion(ctx, name, version)
		if err != nil {
			return "", zerr.Wrap(err, "failed to resolve version")
		}
		if !ok {
			continue
		}
		c.published[metadata] = id
		return id, nil
	}
}

// matches reports whether a concrete version satisfies a semver-range
// constraint. An empty constraint matches anything.
func matches(version, constraint string) (bool, error) {
	if constraint == "" {
		return true, nil
	}
	rng, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, zerr.Wrap(err, "invalid version constraint")
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, zerr.Wrap(err, "invalid version")
	}
	return rng.Check(v), nil
}
