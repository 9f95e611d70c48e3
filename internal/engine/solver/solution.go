package solver

import (
	"sort"

	"github.com/benbjohnson/immutable"
	"github.com/cespare/xxhash/v2"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// outcome is the terminal result of one resolution edge: a package id or an
// error, never both.
type outcome struct {
	pkg domain.PackageID
	err error
}

// mark is the resolution state of one dependant. A temporary mark is
// speculative and still on the current search path; a permanent mark is
// final. Marks move from temporary to permanent exactly once and never
// revert.
type mark struct {
	temporary bool
	outcome   outcome
}

// Solution is the search state: the global name-keyed outcomes and the
// per-edge marks. Both maps are persistent, so snapshotting a Solution is a
// pointer copy and backtracking restores old states without deep copies.
type Solution struct {
	// permanent holds at most one outcome per dependency name. Path
	// overridden dependants never read or write it.
	permanent *immutable.Map[string, outcome]

	// partial holds the mark of every dependant visited so far.
	partial *immutable.Map[domain.Dependant, mark]
}

func newSolution() Solution {
	return Solution{
		permanent: immutable.NewMap[string, outcome](stringHasher{}),
		partial:   immutable.NewMap[domain.Dependant, mark](dependantHasher{}),
	}
}

// permanentFor returns the global outcome for the dependant's name. Path
// overridden dependants are isolated from the global map: a path dependency
// named X and a registry dependency named X never interact.
func (s Solution) permanentFor(d domain.Dependant) (outcome, bool) {
	if d.Reference.IsPath() || d.Reference.Name == "" {
		return outcome{}, false
	}
	return s.permanent.Get(d.Reference.Name)
}

// markTemporarily records a speculative choice for the dependant.
func (s Solution) markTemporarily(d domain.Dependant, pkg domain.PackageID) Solution {
	s.partial = s.partial.Set(d, mark{temporary: true, outcome: outcome{pkg: pkg}})
	return s
}

// markPermanently finalizes the dependant. Registry dependants additionally
// publish their outcome under the dependency name, fixing it for every other
// edge that shares the name.
func (s Solution) markPermanently(d domain.Dependant, out outcome) Solution {
	s.partial = s.partial.Set(d, mark{outcome: out})
	if !d.Reference.IsPath() && d.Reference.Name != "" {
		s.permanent = s.permanent.Set(d.Reference.Name, out)
	}
	return s
}

// Resolved returns the package id a dependant was permanently resolved to.
func (s Solution) Resolved(d domain.Dependant) (domain.PackageID, bool) {
	m, ok := s.partial.Get(d)
	if !ok || m.temporary || m.outcome.err != nil {
		return "", false
	}
	return m.outcome.pkg, true
}

// ResolutionError is one failed edge of the final solution.
type ResolutionError struct {
	Dependant domain.Dependant
	Err       error
}

// Errors returns every permanently failed edge, ordered by dependant for
// stable output.
func (s Solution) Errors() []ResolutionError {
	var errs []ResolutionError
	itr := s.partial.Iterator()
	for !itr.Done() {
		d, m, _ := itr.Next()
		if !m.temporary && m.outcome.err != nil {
			errs = append(errs, ResolutionError{Dependant: d, Err: m.outcome.err})
		}
	}
	sort.Slice(errs, func(i, j int) bool {
		return errs[i].Dependant.String() < errs[j].Dependant.String()
	})
	return errs
}

// dependants returns every visited edge sharing the given dependency name,
// ordered for stable output.
func (s Solution) dependants(name string) []domain.Dependant {
	var out []domain.Dependant
	itr := s.partial.Iterator()
	for !itr.Done() {
		d, _, _ := itr.Next()
		if d.Reference.Name == name {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// frame is one backtracking checkpoint. It is pushed onto the history stack
// just after a version choice succeeds, with the choosing dependant still on
// top of the working set and the not-yet-tried candidates in remaining.
// Restoring the frame therefore retries the same dependant with the next
// older candidate.
type frame struct {
	solution Solution
	working  *immutable.List[domain.Dependant]

	// remaining is the candidate version stack for the dependant on top of
	// the working set, ascending; candidates are popped from the end so the
	// newest satisfying version is tried first.
	remaining []string

	// choice is the dependency name the remaining stack belongs to. It is
	// empty for frames whose top dependant was resolved through the path
	// table.
	choice string

	// lastErr is the error that triggered the restore of this frame, kept
	// so an exhausted retry reports the original conflict.
	lastErr error
}

// next returns the working set without its top dependant, plus that
// dependant. The frame itself is not modified.
func (f *frame) next() (*immutable.List[domain.Dependant], domain.Dependant, bool) {
	n := f.working.Len()
	if n == 0 {
		return nil, domain.Dependant{}, false
	}
	return f.working.Slice(0, n-1), f.working.Get(n - 1), true
}

type stringHasher struct{}

func (stringHasher) Hash(key string) uint32 { return uint32(xxhash.Sum64String(key)) }
func (stringHasher) Equal(a, b string) bool { return a == b }

type dependantHasher struct{}

func (dependantHasher) Hash(d domain.Dependant) uint32 {
	h := xxhash.New()
	_, _ = h.WriteString(string(d.Package))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(d.Reference.Name)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(d.Reference.Constraint)
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(d.Reference.Path)
	return uint32(h.Sum64())
}

func (dependantHasher) Equal(a, b domain.Dependant) bool { return a == b }
