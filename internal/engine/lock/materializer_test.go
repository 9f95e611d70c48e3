package lock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"go.masonbuild.dev/mason/internal/adapters/registry"
	"go.masonbuild.dev/mason/internal/adapters/telemetry"
	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports/mocks"
	"go.masonbuild.dev/mason/internal/engine/lock"
	"go.masonbuild.dev/mason/internal/engine/solver"
)

func quietLogger(t *testing.T) *mocks.MockLogger {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()
	log.EXPECT().Error(gomock.Any()).AnyTimes()
	return log
}

func publish(t *testing.T, store *registry.Store, name, version string, deps ...domain.Reference) domain.PackageID {
	t.Helper()
	id, err := store.Publish(domain.Metadata{Name: name, Version: version}, deps)
	require.NoError(t, err)
	return id
}

func ref(name, constraint string) domain.Reference {
	return domain.Reference{Name: name, Constraint: constraint}
}

func resolve(t *testing.T, store *registry.Store, root domain.PackageID, paths domain.PathTable) *solver.Resolution {
	t.Helper()
	s := solver.New(store, quietLogger(t), telemetry.NewNoOpTracer())
	res, err := s.Resolve(context.Background(), &domain.Workspace{Root: root, Paths: paths})
	require.NoError(t, err)
	return res
}

func newMaterializer(t *testing.T) *lock.Materializer {
	t.Helper()
	return lock.New(quietLogger(t), telemetry.NewNoOpTracer())
}

func TestMaterialize_DiamondSharesOneNode(t *testing.T) {
	store := registry.NewStore()
	publish(t, store, "d", "1.0.0")
	d11 := publish(t, store, "d", "1.1.0")
	publish(t, store, "b", "1.0.0", ref("d", "^1"))
	publish(t, store, "c", "1.0.0", ref("d", "^1.0"))
	root := store.Intern([]byte("root"), domain.Analysis{
		Metadata:     domain.Metadata{Name: "root", Version: "0.0.0"},
		Dependencies: []domain.Reference{ref("b", "^1"), ref("c", "^1")},
	})

	res := resolve(t, store, root, domain.PathTable{})
	require.Nil(t, res.Report())

	graph, err := newMaterializer(t).Materialize(context.Background(), res)
	require.NoError(t, err)

	// One node for d, one for b, one for c, one for the root.
	require.Len(t, graph.Nodes, 4)
	assert.Equal(t, 3, graph.Root)

	rootNode := graph.Nodes[graph.Root]
	bEntry := rootNode.Dependencies[ref("b", "^1")]
	cEntry := rootNode.Dependencies[ref("c", "^1")]

	bNode := graph.Nodes[bEntry.Node]
	cNode := graph.Nodes[cEntry.Node]
	dFromB := bNode.Dependencies[ref("d", "^1")]
	dFromC := cNode.Dependencies[ref("d", "^1.0")]

	assert.Equal(t, d11, dFromB.Package)
	assert.Equal(t, d11, dFromC.Package)
	assert.Equal(t, dFromB.Node, dFromC.Node, "both requirers share one d node")
}

func TestMaterialize_Idempotent(t *testing.T) {
	store := registry.NewStore()
	publish(t, store, "d", "1.0.0")
	publish(t, store, "d", "1.1.0")
	publish(t, store, "b", "1.0.0", ref("d", "^1"))
	publish(t, store, "c", "1.0.0", ref("d", "^1.0"))
	root := store.Intern([]byte("root"), domain.Analysis{
		Metadata:     domain.Metadata{Name: "root", Version: "0.0.0"},
		Dependencies: []domain.Reference{ref("b", "^1"), ref("c", "^1")},
	})

	res := resolve(t, store, root, domain.PathTable{})
	require.Nil(t, res.Report())

	m := newMaterializer(t)
	first, err := m.Materialize(context.Background(), res)
	require.NoError(t, err)
	second, err := m.Materialize(context.Background(), res)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestMaterialize_PathDependencyIsStructural(t *testing.T) {
	store := registry.NewStore()
	local := store.Intern([]byte("local util"), domain.Analysis{
		Metadata: domain.Metadata{Name: "util", Version: "0.0.1"},
	})
	pathRef := domain.Reference{Name: "util", Path: "./lib/util"}
	root := store.Intern([]byte("root"), domain.Analysis{
		Metadata:     domain.Metadata{Name: "root", Version: "0.0.0"},
		Dependencies: []domain.Reference{pathRef},
	})
	paths := domain.PathTable{}
	paths.Add(root, "./lib/util", local)

	res := resolve(t, store, root, paths)
	require.Nil(t, res.Report())

	graph, err := newMaterializer(t).Materialize(context.Background(), res)
	require.NoError(t, err)

	entry := graph.Nodes[graph.Root].Dependencies[pathRef]
	assert.Empty(t, entry.Package, "path links carry no package id")
	assert.Equal(t, domain.LockNode{Dependencies: map[domain.Reference]domain.LockEntry{}}, graph.Nodes[entry.Node])
}

func TestMaterialize_FailsOnUnresolvedEdge(t *testing.T) {
	store := registry.NewStore()
	publish(t, store, "a", "2.0.0")
	root := store.Intern([]byte("root"), domain.Analysis{
		Metadata:     domain.Metadata{Name: "root", Version: "0.0.0"},
		Dependencies: []domain.Reference{ref("a", "^1")},
	})

	res := resolve(t, store, root, domain.PathTable{})
	require.NotNil(t, res.Report())

	_, err := newMaterializer(t).Materialize(context.Background(), res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMissingSolution))
}
