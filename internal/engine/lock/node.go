package lock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.masonbuild.dev/mason/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.masonbuild.dev/mason/internal/core/ports"
)

// NodeID is the unique identifier for the lock materializer Graft node.
const NodeID graft.ID = "engine.lock"

func init() {
	graft.Register(graft.Node[*Materializer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Materializer, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return New(log, tracer), nil
		},
	})
}
