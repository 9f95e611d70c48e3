package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/internal/adapters/logger"    //nolint:depguard // Wired in app layer
	"go.masonbuild.dev/mason/internal/adapters/registry"  //nolint:depguard // Wired in app layer
	"go.masonbuild.dev/mason/internal/adapters/workspace" //nolint:depguard // Wired in app layer
	"go.masonbuild.dev/mason/internal/core/ports"
	"go.masonbuild.dev/mason/internal/engine/lock"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

// Components bundles the resolved application components for the entry
// point.
type Components struct {
	App    *App
	Logger ports.Logger
	Loader ports.WorkspaceLoader
	Store  *registry.Store
}

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			workspace.NodeID,
			solver.NodeID,
			lock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*App, error) {
			loader, err := graft.Dep[ports.WorkspaceLoader](ctx)
			if err != nil {
				return nil, err
			}

			s, err := graft.Dep[*solver.Solver](ctx)
			if err != nil {
				return nil, err
			}

			m, err := graft.Dep[*lock.Materializer](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(loader, s, m, log), nil
		},
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			workspace.NodeID,
			registry.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	a, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.WorkspaceLoader](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[*registry.Store](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    a,
		Logger: log,
		Loader: loader,
		Store:  store,
	}, nil
}
