// Package solver implements conflict-driven backtracking version solving: it
// turns a root package's dependency references into one consistent
// name-to-package assignment, or a report explaining every failure.
package solver

import (
	"context"
	"errors"
	"fmt"

	"github.com/benbjohnson/immutable"

	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports"
)

// Solver is the backtracking search engine. One Solver can serve any number
// of resolve calls; each call owns its own Context and search state.
type Solver struct {
	registry ports.Registry
	logger   ports.Logger
	tracer   ports.Tracer
}

func New(registry ports.Registry, logger ports.Logger, tracer ports.Tracer) *Solver {
	return &Solver{
		registry: registry,
		logger:   logger,
		tracer:   tracer,
	}
}

// Resolution is the outcome of one resolve call. The solution may still
// contain failed edges; callers check Report before consuming it.
type Resolution struct {
	Root     domain.PackageID
	Paths    domain.PathTable
	Solution Solution

	context *Context
}

// Analysis returns the memoized facts about a package id seen during the
// resolve call.
func (r *Resolution) Analysis(id domain.PackageID) (*domain.Analysis, bool) {
	analysis, ok := r.context.analyses[id]
	return analysis, ok
}

// Resolve runs the search to completion for the given workspace. The search
// itself is infallible: individual registry failures are carried as edge
// errors inside the solution, not returned. Only a failure to analyze the
// workspace's own packages aborts the call.
func (s *Solver) Resolve(ctx context.Context, workspace *domain.Workspace) (*Resolution, error) {
	ctx, span := s.tracer.Start(ctx, "solver.resolve")
	defer span.End()
	span.SetAttribute("root", workspace.Root.String())

	c := newContext(s.registry, workspace.Paths)
	working, err := s.seed(ctx, c, workspace.Root)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	solution := s.solve(ctx, c, working)
	return &Resolution{
		Root:     workspace.Root,
		Paths:    workspace.Paths,
		Solution: solution,
		context:  c,
	}, nil
}

// seed builds the initial work list: every dependency edge declared by the
// root package and by every package reachable from it through the path
// table. Registry dependencies of path-linked packages are solved in the
// same search as the root's own.
func (s *Solver) seed(ctx context.Context, c *Context, root domain.PackageID) (*immutable.List[domain.Dependant], error) {
	working := immutable.NewList[domain.Dependant]()
	visited := make(map[domain.PackageID]bool)
	stack := []domain.PackageID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		analysis, err := c.Analysis(ctx, id)
		if err != nil {
			return nil, err
		}
		for _, ref := range analysis.Dependencies {
			working = working.Append(domain.Dependant{Package: id, Reference: ref})
			if child, ok := c.paths.Resolve(id, ref.Path); ok {
				stack = append(stack, child)
			}
		}
	}
	return working, nil
}

// solve is the driver loop. It pops one dependant at a time off the work
// list and branches on the pair (global outcome for the dependency name,
// this edge's own mark). Every iteration builds the next frame from the
// current one; conflicts swap in a restored checkpoint instead.
func (s *Solver) solve(ctx context.Context, c *Context, working *immutable.List[domain.Dependant]) Solution {
	cur := frame{solution: newSolution(), working: working}
	var history []frame

	for {
		rest, dep, ok := cur.next()
		if !ok {
			return cur.solution
		}
		next := frame{solution: cur.solution, working: rest}

		perm, permOK := cur.solution.permanentFor(dep)
		partial, partialOK := cur.solution.partial.Get(dep)

		switch {
		// First encounter: choose a package and expand its dependencies.
		case !permOK && !partialOK:
			pkg, resolveErr := s.pick(ctx, c, &cur, dep)
			if resolveErr != nil {
				if cur.lastErr != nil && errors.Is(resolveErr, ErrVersionConflict) {
					resolveErr = cur.lastErr
				}
				s.logger.Warn(fmt.Sprintf("no solution exists for %s", dep))
				next.solution = next.solution.markPermanently(dep, outcome{err: resolveErr})
				break
			}
			children, err := c.Dependencies(ctx, pkg)
			if err != nil {
				next.solution = next.solution.markPermanently(dep, outcome{err: err})
				break
			}

			// Checkpoint before committing, so a later conflict can rewind
			// to just before this choice and try the next older candidate.
			history = append(history, cur)

			next.solution = next.solution.markTemporarily(dep, pkg)

			// The dependant goes back on the list beneath its children and
			// is re-examined once they have all settled.
			next.working = next.working.Append(dep)
			for _, ref := range children {
				next.working = next.working.Append(domain.Dependant{Package: pkg, Reference: ref})
			}

		// Another edge already fixed this dependency name globally.
		case !partialOK:
			if perm.err != nil {
				next.solution = next.solution.markPermanently(dep, perm)
				break
			}
			version, err := c.version(ctx, perm.pkg)
			if err != nil {
				next.solution = next.solution.markPermanently(dep, outcome{err: err})
				break
			}
			satisfied, err := matches(version, dep.Reference.Constraint)
			if err != nil {
				next.solution = next.solution.markPermanently(dep, outcome{err: err})
				break
			}
			if satisfied {
				next.solution = next.solution.markPermanently(dep, perm)
				break
			}
			if trimmed, restored, ok := backtrack(history, dep.Reference.Name, ErrVersionConflict); ok {
				history, next = trimmed, restored
				break
			}
			s.logger.Warn(fmt.Sprintf("conflicting requirement %s", dep))
			next.solution = next.solution.markPermanently(dep, outcome{err: ErrVersionConflict})

		// The edge is still speculative and its children have had a chance
		// to run: graduate it, or collect the failures and rewind.
		case partial.temporary:
			pkg := partial.outcome.pkg
			children, err := c.Dependencies(ctx, pkg)
			if err != nil {
				next.solution = next.solution.markPermanently(dep, outcome{err: err})
				break
			}

			var erroneous []ErroneousDependency
			for _, ref := range children {
				child := domain.Dependant{Package: pkg, Reference: ref}
				m, ok := next.solution.partial.Get(child)
				switch {
				case ok && !m.temporary && m.outcome.err == nil:
				case ok && !m.temporary:
					erroneous = append(erroneous, ErroneousDependency{Reference: ref, Err: m.outcome.err})
				default:
					// The child is still open, so this choice loops back
					// into the current search path.
					erroneous = append(erroneous, ErroneousDependency{Reference: ref, Err: &CycleError{Dependant: dep}})
				}
			}

			if len(erroneous) == 0 {
				next.solution = next.solution.markPermanently(dep, outcome{pkg: pkg})
				break
			}
			previous, _ := c.version(ctx, pkg)
			trigger := &BacktrackError{Package: pkg, PreviousVersion: previous, Erroneous: erroneous}
			if trimmed, restored, ok := backtrack(history, dep.Reference.Name, trigger); ok {
				history, next = trimmed, restored
				break
			}
			s.logger.Warn(fmt.Sprintf("backtracking failed for %s", dep))
			next.solution = next.solution.markPermanently(dep, outcome{err: trigger})

		// Already finished, drop.
		default:
		}

		cur = next
	}
}

// pick resolves the dependant to a concrete package: the path table first,
// then the newest not-yet-tried satisfying version. The candidate stack is
// cached on the current frame so that restoring the frame resumes with the
// next older candidate.
func (s *Solver) pick(ctx context.Context, c *Context, cur *frame, dep domain.Dependant) (domain.PackageID, error) {
	if pkg, ok := c.resolvePath(dep); ok {
		return pkg, nil
	}
	if cur.remaining == nil {
		versions, err := c.allVersions(ctx, dep)
		if err != nil {
			return "", err
		}
		if versions == nil {
			versions = []string{}
		}
		cur.remaining = versions
		cur.choice = dep.Reference.Name
	}
	return c.tryResolve(ctx, dep, &cur.remaining)
}

// backtrack restores the most recent checkpoint that chose a version for the
// given dependency name and discards everything decided since. The restored
// frame has the name's dependant back on top of its work list together with
// the candidates it has not tried yet. Backtracking fails when no checkpoint
// ever chose a version for the name.
func backtrack(history []frame, name string, trigger error) ([]frame, frame, bool) {
	if name == "" {
		return history, frame{}, false
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].choice != name {
			continue
		}
		restored := history[i]
		restored.lastErr = trigger
		return history[:i], restored, true
	}
	return history, frame{}, false
}
