package workspace

import (
	"context"

	"github.com/grindlemire/graft"
	"go.masonbuild.dev/mason/internal/adapters/logger"   //nolint:depguard // Wired in adapter wiring
	"go.masonbuild.dev/mason/internal/adapters/registry" //nolint:depguard // Wired in adapter wiring
	"go.masonbuild.dev/mason/internal/core/ports"
)

// NodeID is the unique identifier for the workspace loader Graft node.
const NodeID graft.ID = "adapter.workspace"

func init() {
	graft.Register(graft.Node[ports.WorkspaceLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			registry.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (ports.WorkspaceLoader, error) {
			store, err := graft.Dep[*registry.Store](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return NewLoader(store, log), nil
		},
	})
}
