// Package lock materializes an accepted resolution into the lock graph: a
// deduplicated list of lock nodes recording which concrete package satisfies
// each reference.
package lock

import (
	"context"

	"go.trai.ch/zerr"

	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

// Materializer converts resolutions into lock graphs. It runs once per
// resolve call, after the solver has fully terminated, and only consumes
// analyses the solver already memoized; it never queries the registry.
type Materializer struct {
	logger ports.Logger
	tracer ports.Tracer
}

func New(logger ports.Logger, tracer ports.Tracer) *Materializer {
	return &Materializer{logger: logger, tracer: tracer}
}

// Materialize walks the root package depth first and builds one lock node
// per structurally distinct package, reusing the index of a value-equal node
// instead of appending a duplicate. The resolution must be free of errors;
// a missing solution entry means the solve and materialize phases disagree
// and fails the whole call.
func (m *Materializer) Materialize(ctx context.Context, res *solver.Resolution) (*domain.LockGraph, error) {
	_, span := m.tracer.Start(ctx, "lock.materialize")
	defer span.End()
	span.SetAttribute("root", res.Root.String())

	b := &builder{
		res:        res,
		inProgress: make(map[domain.PackageID]bool),
	}
	root, err := b.visit(res.Root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &domain.LockGraph{Root: root, Nodes: b.nodes}, nil
}

type builder struct {
	res   *solver.Resolution
	nodes []domain.LockNode

	// inProgress guards the recursion. The solver rejects name-level cycles,
	// so revisiting a package mid-materialization is an internal invariant
	// violation, not a normal failure.
	inProgress map[domain.PackageID]bool
}

func (b *builder) visit(pkg domain.PackageID) (int, error) {
	if b.inProgress[pkg] {
		return 0, zerr.With(domain.ErrLockCycle, "package", pkg.String())
	}
	b.inProgress[pkg] = true
	defer delete(b.inProgress, pkg)

	analysis, ok := b.res.Analysis(pkg)
	if !ok {
		return 0, zerr.With(domain.ErrMissingAnalysis, "package", pkg.String())
	}

	node := domain.LockNode{
		Dependencies: make(map[domain.Reference]domain.LockEntry, len(analysis.Dependencies)),
	}
	for _, ref := range analysis.Dependencies {
		entry, err := b.resolve(pkg, ref)
		if err != nil {
			return 0, err
		}
		node.Dependencies[ref] = entry
	}

	for i := range b.nodes {
		if b.nodes[i].Equal(node) {
			return i, nil
		}
	}
	b.nodes = append(b.nodes, node)
	return len(b.nodes) - 1, nil
}

func (b *builder) resolve(pkg domain.PackageID, ref domain.Reference) (domain.LockEntry, error) {
	// Path overrides are recorded as structural links only, without an id.
	if child, ok := b.res.Paths.Resolve(pkg, ref.Path); ok {
		index, err := b.visit(child)
		if err != nil {
			return domain.LockEntry{}, err
		}
		return domain.LockEntry{Node: index}, nil
	}

	dependant := domain.Dependant{Package: pkg, Reference: ref}
	child, ok := b.res.Solution.Resolved(dependant)
	if !ok {
		return domain.LockEntry{}, zerr.With(domain.ErrMissingSolution, "dependant", dependant.String())
	}
	index, err := b.visit(child)
	if err != nil {
		return domain.LockEntry{}, err
	}
	return domain.LockEntry{Package: child, Node: index}, nil
}
