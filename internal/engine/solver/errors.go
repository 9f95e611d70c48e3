package solver

import (
	"fmt"

	"go.trai.ch/zerr"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// ErrVersionConflict is attached to an edge when no published version
// satisfies all constraints on its dependency name, either because the
// candidate stack ran dry or because an already fixed choice violates the
// edge's constraint and backtracking could not reconcile it.
var ErrVersionConflict = zerr.New("no version satisfies the constraints")

// CycleError is attached to an edge whose subtree loops back through a
// package that is still being speculatively resolved.
type CycleError struct {
	// Dependant is the edge that was being finalized when the still-open
	// child was found.
	Dependant domain.Dependant
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle through %s", e.Dependant)
}

// ErroneousDependency is one failed child reference inside a BacktrackError.
type ErroneousDependency struct {
	Reference domain.Reference
	Err       error
}

// BacktrackError wraps the failures found in a chosen version's subtree with
// provenance, so a report can show which choice went wrong and why.
type BacktrackError struct {
	Package         domain.PackageID
	PreviousVersion string
	Erroneous       []ErroneousDependency
}

func (e *BacktrackError) Error() string {
	return fmt.Sprintf("version %s has %d erroneous dependencies", e.PreviousVersion, len(e.Erroneous))
}

// Unwrap exposes the child failures so errors.Is and errors.As can search
// the whole provenance tree.
func (e *BacktrackError) Unwrap() []error {
	errs := make([]error, len(e.Erroneous))
	for i, child := range e.Erroneous {
		errs[i] = child.Err
	}
	return errs
}
