// Package app implements the application layer for mason.
package app

import (
	"context"
	"errors"

	"go.trai.ch/zerr"

	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports"
	"go.masonbuild.dev/mason/internal/engine/lock"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

// App represents the main application logic.
type App struct {
	loader       ports.WorkspaceLoader
	solver       *solver.Solver
	materializer *lock.Materializer
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.WorkspaceLoader, s *solver.Solver, m *lock.Materializer, logger ports.Logger) *App {
	return &App{
		loader:       loader,
		solver:       s,
		materializer: m,
		logger:       logger,
	}
}

// Lock resolves the workspace at dir and returns its lock graph.
func (a *App) Lock(ctx context.Context, dir string) (*domain.LockGraph, error) {
	// 1. Scan the workspace
	workspace, err := a.loader.Load(ctx, dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load workspace")
	}

	// 2. Solve version constraints
	resolution, err := a.solver.Resolve(ctx, workspace)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve workspace")
	}
	if report := resolution.Report(); report != nil {
		a.logger.Error(report)
		return nil, errors.Join(domain.ErrUnresolvedWorkspace, report)
	}

	// 3. Materialize the lock graph
	graph, err := a.materializer.Materialize(ctx, resolution)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to materialize lock graph")
	}
	return graph, nil
}
