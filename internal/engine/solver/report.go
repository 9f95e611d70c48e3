package solver

import (
	"errors"
	"fmt"
	"strings"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// Report aggregates every failed edge of a finished solution into one
// human-readable explanation. It implements error so callers can surface it
// directly.
type Report struct {
	errors   []ResolutionError
	solution Solution
	context  *Context
}

// Report returns the aggregate failure report, or nil when every edge
// resolved.
func (r *Resolution) Report() *Report {
	errs := r.Solution.Errors()
	if len(errs) == 0 {
		return nil
	}
	return &Report{errors: errs, solution: r.Solution, context: r.context}
}

// Errors returns the failed edges the report describes.
func (r *Report) Errors() []ResolutionError {
	return r.errors
}

func (r *Report) Error() string {
	var b strings.Builder
	for _, entry := range r.errors {
		r.format(&b, entry.Dependant, entry.Err)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (r *Report) format(b *strings.Builder, d domain.Dependant, err error) {
	meta := r.metadata(d.Package)
	fmt.Fprintf(b, "%s @ %s requires %s, but ", meta.Name, meta.Version, d.Reference)

	switch e := err.(type) {
	case *CycleError:
		meta := r.metadata(e.Dependant.Package)
		fmt.Fprintf(b, "%s @ %s, which creates a cycle.\n", meta.Name, meta.Version)
	case *BacktrackError:
		fmt.Fprintf(b, "%s %s has errors:\n", d.Reference.Name, e.PreviousVersion)
		for _, child := range e.Erroneous {
			r.format(b, domain.Dependant{Package: e.Package, Reference: child.Reference}, child.Err)
		}
	default:
		if !errors.Is(err, ErrVersionConflict) {
			fmt.Fprintf(b, "%v\n", err)
			break
		}
		b.WriteString("no version could be found that satisfies the constraints.\n")
		for _, shared := range r.solution.dependants(d.Reference.Name) {
			meta := r.metadata(shared.Package)
			fmt.Fprintf(b, "%s @ %s requires %s\n", meta.Name, meta.Version, shared.Reference)
		}
	}
}

func (r *Report) metadata(id domain.PackageID) domain.Metadata {
	if analysis, ok := r.context.analyses[id]; ok {
		return analysis.Metadata
	}
	return domain.Metadata{Name: id.String(), Version: "unknown"}
}
