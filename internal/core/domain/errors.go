package domain

import "go.trai.ch/zerr"

var (
	// ErrMissingAnalysis is returned when a package id has no cached
	// analysis where one is required to exist.
	ErrMissingAnalysis = zerr.New("missing package analysis")

	// ErrMissingDependencyName is returned when a registry lookup is
	// attempted for a reference without a name.
	ErrMissingDependencyName = zerr.New("missing dependency name")

	// ErrMissingSolution is returned by the lock materializer when the
	// accepted solution has no entry for a reference that must have one.
	// It signals an inconsistency between the solve and materialize
	// phases, not a normal resolution failure.
	ErrMissingSolution = zerr.New("missing solution for dependency")

	// ErrLockCycle is returned by the lock materializer when it revisits
	// a package that is still being materialized. The solver guarantees
	// this cannot happen; hitting it is an internal invariant violation.
	ErrLockCycle = zerr.New("cycle in accepted solution")

	// ErrCircularPathDependency is returned by the workspace scanner when
	// local path references form a cycle on disk.
	ErrCircularPathDependency = zerr.New("circular path dependency")

	// ErrUnresolvedWorkspace is returned when version solving failed and
	// no lock graph can be produced.
	ErrUnresolvedWorkspace = zerr.New("failed to resolve workspace dependencies")
)
