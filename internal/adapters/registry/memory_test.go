package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.masonbuild.dev/mason/internal/adapters/registry"
	"go.masonbuild.dev/mason/internal/core/domain"
)

func TestStore_PublishAndResolve(t *testing.T) {
	store := registry.NewStore()
	meta := domain.Metadata{Name: "zlib", Version: "1.2.3"}
	deps := []domain.Reference{{Name: "adler", Constraint: "^1"}}

	id, err := store.Publish(meta, deps)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	resolved, ok, err := store.ResolveVersion(context.Background(), "zlib", "1.2.3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, id, resolved)

	analysis, err := store.Analyze(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, meta, analysis.Metadata)
	assert.Equal(t, deps, analysis.Dependencies)
}

func TestStore_PublishIsIdempotentForSameContent(t *testing.T) {
	store := registry.NewStore()
	meta := domain.Metadata{Name: "zlib", Version: "1.2.3"}

	first, err := store.Publish(meta, nil)
	require.NoError(t, err)
	second, err := store.Publish(meta, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	versions, err := store.ListVersions(context.Background(), "zlib")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3"}, versions)
}

func TestStore_PublishRejectsDifferentContent(t *testing.T) {
	store := registry.NewStore()
	meta := domain.Metadata{Name: "zlib", Version: "1.2.3"}

	_, err := store.Publish(meta, nil)
	require.NoError(t, err)
	_, err = store.Publish(meta, []domain.Reference{{Name: "adler", Constraint: "^1"}})
	assert.ErrorIs(t, err, registry.ErrAlreadyPublished)
}

func TestStore_ListVersionsIsAscending(t *testing.T) {
	store := registry.NewStore()
	for _, v := range []string{"1.10.0", "1.2.0", "1.9.1", "0.9.0"} {
		_, err := store.Publish(domain.Metadata{Name: "zlib", Version: v}, nil)
		require.NoError(t, err)
	}

	versions, err := store.ListVersions(context.Background(), "zlib")
	require.NoError(t, err)
	assert.Equal(t, []string{"0.9.0", "1.2.0", "1.9.1", "1.10.0"}, versions)
}

func TestStore_UnknownNameYieldsEmptyList(t *testing.T) {
	store := registry.NewStore()
	versions, err := store.ListVersions(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, versions)
}

func TestStore_RetractKeepsListingButBreaksResolve(t *testing.T) {
	store := registry.NewStore()
	meta := domain.Metadata{Name: "zlib", Version: "1.2.3"}
	_, err := store.Publish(meta, nil)
	require.NoError(t, err)

	store.Retract(meta)

	versions, err := store.ListVersions(context.Background(), "zlib")
	require.NoError(t, err)
	assert.Equal(t, []string{"1.2.3"}, versions)

	_, ok, err := store.ResolveVersion(context.Background(), "zlib", "1.2.3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStore_AnalyzeUnknownPackageFails(t *testing.T) {
	store := registry.NewStore()
	_, err := store.Analyze(context.Background(), "pkg-missing")
	assert.ErrorIs(t, err, registry.ErrNotFound)
}

func TestStore_InternDoesNotPublish(t *testing.T) {
	store := registry.NewStore()
	id := store.Intern([]byte("manifest"), domain.Analysis{
		Metadata: domain.Metadata{Name: "local", Version: "0.0.1"},
	})

	analysis, err := store.Analyze(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "local", analysis.Metadata.Name)

	versions, err := store.ListVersions(context.Background(), "local")
	require.NoError(t, err)
	assert.Empty(t, versions)

	_, ok, err := store.ResolveVersion(context.Background(), "local", "0.0.1")
	require.NoError(t, err)
	assert.False(t, ok)
}
