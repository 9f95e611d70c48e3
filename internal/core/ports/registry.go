// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// Registry is the source of truth for published versions and package
// metadata. Implementations may be backed by a local store or a remote
// service; the solver treats them interchangeably.
//
//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=mocks/mock_registry.go -package=mocks
type Registry interface {
	// ListVersions returns every published version of a dependency name
	// in ascending version order. An unknown name yields an empty list,
	// not an error.
	ListVersions(ctx context.Context, name string) ([]string, error)

	// ResolveVersion resolves an exact (name, version) pair to a package
	// id. The second result is false when the registry cannot produce
	// that exact version; entries of ListVersions are not guaranteed to
	// be individually resolvable.
	ResolveVersion(ctx context.Context, name, version string) (domain.PackageID, bool, error)

	// Analyze returns the metadata and declared references of a package.
	// It fails with an opaque error on transport or storage failure.
	Analyze(ctx context.Context, id domain.PackageID) (*domain.Analysis, error)
}
