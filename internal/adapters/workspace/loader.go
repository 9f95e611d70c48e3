// Package workspace scans on-disk packages: the root manifest, the packages
// its path dependencies point at, and the workspace-local package index.
package workspace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"go.masonbuild.dev/mason/internal/adapters/registry"
	"go.masonbuild.dev/mason/internal/core/domain"
	"go.masonbuild.dev/mason/internal/core/ports"
)

const (
	// ManifestName is the package manifest file name.
	ManifestName = "mason.yaml"

	// LockfileName is the lock graph file name.
	LockfileName = "mason.lock"

	// indexDir is the workspace-local package index, laid out as
	// masonry/<name>/<version>/mason.yaml.
	indexDir = "masonry"

	indexWorkers = 8
)

// Loader implements ports.WorkspaceLoader on top of the local filesystem and
// the in-memory registry: path-linked packages are interned by content, the
// local index is published as versioned packages.
type Loader struct {
	store  *registry.Store
	logger ports.Logger
}

func NewLoader(store *registry.Store, logger ports.Logger) *Loader {
	return &Loader{store: store, logger: logger}
}

// Load scans the workspace rooted at dir and returns the root package id
// together with the path-dependency table covering every scanned package.
func (l *Loader) Load(ctx context.Context, dir string) (*domain.Workspace, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve workspace directory")
	}

	if err := l.loadIndex(ctx, root); err != nil {
		return nil, err
	}

	scan := &scan{
		loader:     l,
		paths:      make(domain.PathTable),
		visited:    make(map[string]domain.PackageID),
		inProgress: make(map[string]bool),
	}
	rootID, err := scan.visit(root)
	if err != nil {
		return nil, err
	}
	return &domain.Workspace{Root: rootID, Paths: scan.paths}, nil
}

type scan struct {
	loader *Loader
	paths  domain.PathTable

	// visited memoizes the package id per directory so diamonds of path
	// links converge on one package.
	visited map[string]domain.PackageID

	// inProgress guards against path links that loop back on disk.
	inProgress map[string]bool
}

func (s *scan) visit(dir string) (domain.PackageID, error) {
	if id, ok := s.visited[dir]; ok {
		return id, nil
	}
	if s.inProgress[dir] {
		return "", zerr.With(domain.ErrCircularPathDependency, "dir", dir)
	}
	s.inProgress[dir] = true
	defer delete(s.inProgress, dir)

	content, err := os.ReadFile(filepath.Join(dir, ManifestName)) //nolint:gosec // Path is derived from the user's workspace
	if err != nil {
		return "", zerr.Wrap(err, "failed to read manifest")
	}
	manifest, err := parseManifest(content)
	if err != nil {
		return "", zerr.With(err, "dir", dir)
	}
	id := domain.NewPackageID(content)

	// Resolve path dependencies first. Unresolvable ones are dropped from
	// the analysis, matching how the solver treats them.
	refs := make([]domain.Reference, 0, len(manifest.Dependencies))
	for _, ref := range manifest.references() {
		if !ref.IsPath() {
			refs = append(refs, ref)
			continue
		}
		if filepath.IsAbs(ref.Path) {
			s.loader.logger.Warn(fmt.Sprintf("ignoring absolute path dependency %s in %s", ref.Path, dir))
			continue
		}
		child, err := s.visit(filepath.Join(dir, ref.Path))
		if err != nil {
			return "", err
		}
		s.paths.Add(id, ref.Path, child)
		refs = append(refs, ref)
	}

	s.loader.store.Intern(content, domain.Analysis{
		Metadata:     manifest.metadata(),
		Dependencies: refs,
	})
	s.visited[dir] = id
	return id, nil
}

// loadIndex publishes every package of the workspace-local index into the
// registry. Manifests are read concurrently; publishing itself is cheap.
func (l *Loader) loadIndex(ctx context.Context, root string) error {
	base := filepath.Join(root, indexDir)
	if _, err := os.Stat(base); os.IsNotExist(err) {
		return nil
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(indexWorkers)

	names, err := os.ReadDir(base)
	if err != nil {
		return zerr.Wrap(err, "failed to read package index")
	}
	for _, name := range names {
		if !name.IsDir() {
			continue
		}
		versions, err := os.ReadDir(filepath.Join(base, name.Name()))
		if err != nil {
			return zerr.Wrap(err, "failed to read package index entry")
		}
		for _, version := range versions {
			if !version.IsDir() {
				continue
			}
			path := filepath.Join(base, name.Name(), version.Name(), ManifestName)
			g.Go(func() error {
				return l.publishIndexed(path)
			})
		}
	}
	return g.Wait()
}

func (l *Loader) publishIndexed(path string) error {
	content, err := os.ReadFile(path) //nolint:gosec // Path is derived from the user's workspace
	if err != nil {
		return zerr.Wrap(err, "failed to read indexed manifest")
	}
	manifest, err := parseManifest(content)
	if err != nil {
		return zerr.With(err, "path", path)
	}
	if _, err := l.store.Publish(manifest.metadata(), manifest.references()); err != nil {
		return zerr.With(err, "path", path)
	}
	return nil
}
