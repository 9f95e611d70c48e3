package workspace_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"go.masonbuild.dev/mason/internal/adapters/workspace"
	"go.masonbuild.dev/mason/internal/core/domain"
)

func sampleGraph() *domain.LockGraph {
	return &domain.LockGraph{
		Root: 1,
		Nodes: []domain.LockNode{
			{Dependencies: map[domain.Reference]domain.LockEntry{}},
			{Dependencies: map[domain.Reference]domain.LockEntry{
				{Name: "zlib", Constraint: "^1.2"}: {Package: "pkg-00000000000000ff", Node: 0},
				{Path: "./lib/util"}:               {Node: 0},
			}},
		},
	}
}

func TestEncodeLockfile_Deterministic(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, workspace.EncodeLockfile(&first, sampleGraph()))
	require.NoError(t, workspace.EncodeLockfile(&second, sampleGraph()))
	assert.Equal(t, first.String(), second.String())
}

func TestEncodeLockfile_RoundTripsRootAndEntries(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, workspace.EncodeLockfile(&buf, sampleGraph()))

	var decoded struct {
		Root  int `yaml:"root"`
		Nodes []struct {
			Dependencies []struct {
				Name    string `yaml:"name"`
				Version string `yaml:"version"`
				Path    string `yaml:"path"`
				Package string `yaml:"package"`
				Node    int    `yaml:"node"`
			} `yaml:"dependencies"`
		} `yaml:"nodes"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 1, decoded.Root)
	require.Len(t, decoded.Nodes, 2)
	require.Len(t, decoded.Nodes[1].Dependencies, 2)

	var sawRegistry, sawPath bool
	for _, dep := range decoded.Nodes[1].Dependencies {
		switch {
		case dep.Name == "zlib":
			sawRegistry = true
			assert.Equal(t, "^1.2", dep.Version)
			assert.Equal(t, "pkg-00000000000000ff", dep.Package)
		case dep.Path == "./lib/util":
			sawPath = true
			assert.Empty(t, dep.Package, "path links carry no package id")
		}
		assert.Equal(t, 0, dep.Node)
	}
	assert.True(t, sawRegistry)
	assert.True(t, sawPath)
}

func TestWriteLockfile_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, workspace.WriteLockfile(dir, sampleGraph()))

	data, err := os.ReadFile(filepath.Join(dir, workspace.LockfileName))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, workspace.EncodeLockfile(&buf, sampleGraph()))
	assert.Equal(t, buf.Bytes(), data)
}
