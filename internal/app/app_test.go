package app_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.masonbuild.dev/mason/internal/adapters/registry"
	"go.masonbuild.dev/mason/internal/adapters/telemetry"
	"go.masonbuild.dev/mason/internal/adapters/workspace"
	"go.masonbuild.dev/mason/internal/app"
	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports/mocks"
	"go.masonbuild.dev/mason/internal/engine/lock"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	store := registry.NewStore()
	return app.New(
		workspace.NewLoader(store, log),
		solver.New(store, log, tracer),
		lock.New(log, tracer),
		log,
	)
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspace.ManifestName), []byte(content), 0o644))
}

func TestLock_ResolvesWorkspace(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
package:
  name: app
  version: 0.1.0
dependencies:
  - name: zlib
    version: ^1
  - path: ./lib/util
`)
	writeManifest(t, filepath.Join(dir, "lib", "util"), `
package:
  name: util
  version: 0.0.1
`)
	writeManifest(t, filepath.Join(dir, "masonry", "zlib", "1.0.0"), `
package:
  name: zlib
  version: 1.0.0
`)
	writeManifest(t, filepath.Join(dir, "masonry", "zlib", "1.4.0"), `
package:
  name: zlib
  version: 1.4.0
`)

	graph, err := newApp(t).Lock(context.Background(), dir)
	require.NoError(t, err)

	// The zlib and util leaves are value-equal and collapse into one node.
	require.Len(t, graph.Nodes, 2)
	rootNode := graph.Nodes[graph.Root]
	require.Len(t, rootNode.Dependencies, 2)

	zlib := rootNode.Dependencies[domain.Reference{Name: "zlib", Constraint: "^1"}]
	assert.NotEmpty(t, zlib.Package, "registry dependency records the resolved id")

	util := rootNode.Dependencies[domain.Reference{Path: "./lib/util"}]
	assert.Empty(t, util.Package, "path dependency is a structural link")
	assert.Equal(t, zlib.Node, util.Node)
}

func TestLock_UnresolvableWorkspaceFails(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
package:
  name: app
  version: 0.1.0
dependencies:
  - name: zlib
    version: ^2
`)
	writeManifest(t, filepath.Join(dir, "masonry", "zlib", "1.0.0"), `
package:
  name: zlib
  version: 1.0.0
`)

	_, err := newApp(t).Lock(context.Background(), dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnresolvedWorkspace)

	var report *solver.Report
	require.ErrorAs(t, err, &report)
	assert.Contains(t, report.Error(), "zlib@^2")
}

func TestLock_MissingWorkspaceFails(t *testing.T) {
	_, err := newApp(t).Lock(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
