package ports

import (
	"context"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// WorkspaceLoader scans a workspace directory: it content-addresses the root
// package and every path-linked package, publishes the workspace-local
// package index into the registry, and returns the root id together with the
// precomputed path-dependency table.
//
//go:generate go run go.uber.org/mock/mockgen -source=workspace_loader.go -destination=mocks/mock_workspace_loader.go -package=mocks
type WorkspaceLoader interface {
	Load(ctx context.Context, dir string) (*domain.Workspace, error)
}
