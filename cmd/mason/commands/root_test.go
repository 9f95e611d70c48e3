package commands_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.masonbuild.dev/mason/cmd/mason/commands"
	"go.masonbuild.dev/mason/internal/adapters/registry"
	"go.masonbuild.dev/mason/internal/adapters/telemetry"
	"go.masonbuild.dev/mason/internal/adapters/workspace"
	"go.masonbuild.dev/mason/internal/app"
	"go.masonbuild.dev/mason/internal/core/ports/mocks"
	"go.masonbuild.dev/mason/internal/engine/lock"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

func newCLI(t *testing.T) *commands.CLI {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()

	tracer := telemetry.NewNoOpTracer()
	store := registry.NewStore()
	a := app.New(
		workspace.NewLoader(store, log),
		solver.New(store, log, tracer),
		lock.New(log, tracer),
		log,
	)
	return commands.New(a)
}

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, workspace.ManifestName), []byte(content), 0o644))
}

func TestLockCommand_WritesLockfile(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `
package:
  name: app
  version: 0.1.0
dependencies:
  - name: zlib
    version: ^1
`)
	writeManifest(t, filepath.Join(dir, "masonry", "zlib", "1.0.0"), `
package:
  name: zlib
  version: 1.0.0
`)

	cli := newCLI(t)
	cli.SetArgs([]string{"lock", dir})
	require.NoError(t, cli.Execute(context.Background()))

	_, err := os.Stat(filepath.Join(dir, workspace.LockfileName))
	assert.NoError(t, err)
}

func TestLockCommand_FailsWithoutManifest(t *testing.T) {
	cli := newCLI(t)
	cli.SetArgs([]string{"lock", t.TempDir()})
	assert.Error(t, cli.Execute(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	cli := newCLI(t)
	cli.SetArgs([]string{"version"})
	assert.NoError(t, cli.Execute(context.Background()))
}
