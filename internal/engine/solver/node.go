package solver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.masonbuild.dev/mason/internal/adapters/registry"  //nolint:depguard // Wired in engine wiring
	"go.masonbuild.dev/mason/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.masonbuild.dev/mason/internal/core/ports"
)

// NodeID is the unique identifier for the solver Graft node.
const NodeID graft.ID = "engine.solver"

func init() {
	graft.Register(graft.Node[*Solver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Solver, error) {
			store, err := graft.Dep[*registry.Store](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(store, log, tracer), nil
		},
	})
}
