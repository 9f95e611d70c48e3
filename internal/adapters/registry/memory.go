// Package registry implements an in-memory package registry.
package registry

import (
	"context"
	"sort"
	"sync"

	"github.com/Masterminds/semver"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// ErrNotFound is returned by Analyze for an unknown package id.
var ErrNotFound = zerr.New("package not found")

// ErrAlreadyPublished is returned when a (name, version) pair is published
// twice with different content.
var ErrAlreadyPublished = zerr.New("version already published")

// Store implements ports.Registry backed by process memory. It serves local
// package indexes scanned from a workspace as well as test fixtures; the
// solver treats it like any remote registry.
type Store struct {
	mu       sync.RWMutex
	versions map[string][]string
	ids      map[domain.Metadata]domain.PackageID
	analyses map[domain.PackageID]*domain.Analysis
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		versions: make(map[string][]string),
		ids:      make(map[domain.Metadata]domain.PackageID),
		analyses: make(map[domain.PackageID]*domain.Analysis),
	}
}

// Publish registers a package under its (name, version) pair and makes it
// visible to version listings. The id is derived from the canonical manifest
// bytes, so publishing identical content is idempotent.
func (s *Store) Publish(meta domain.Metadata, deps []domain.Reference) (domain.PackageID, error) {
	content, err := canonicalManifest(meta, deps)
	if err != nil {
		return "", err
	}
	id := domain.NewPackageID(content)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.ids[meta]; ok {
		if existing != id {
			return "", zerr.With(ErrAlreadyPublished, "package", meta.String())
		}
		return id, nil
	}

	s.ids[meta] = id
	s.analyses[id] = &domain.Analysis{Metadata: meta, Dependencies: deps}
	s.versions[meta.Name] = insertVersion(s.versions[meta.Name], meta.Version)
	return id, nil
}

// Intern registers a package by its raw content without publishing a
// version. Workspace packages reached through path overrides are interned,
// never published: they must stay invisible to version search.
func (s *Store) Intern(content []byte, analysis domain.Analysis) domain.PackageID {
	id := domain.NewPackageID(content)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyses[id] = &analysis
	return id
}

// Retract removes the exact (name, version) mapping while keeping the
// version listed, mimicking registries whose listings can go stale.
func (s *Store) Retract(meta domain.Metadata) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, meta)
}

// ListVersions returns every published version of a name in ascending
// version order. Unknown names yield an empty list.
func (s *Store) ListVersions(_ context.Context, name string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	versions := s.versions[name]
	out := make([]string, len(versions))
	copy(out, versions)
	return out, nil
}

// ResolveVersion resolves an exact (name, version) pair to a package id.
func (s *Store) ResolveVersion(_ context.Context, name, version string) (domain.PackageID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.ids[domain.Metadata{Name: name, Version: version}]
	return id, ok, nil
}

// Analyze returns the metadata and declared references of a package.
func (s *Store) Analyze(_ context.Context, id domain.PackageID) (*domain.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	analysis, ok := s.analyses[id]
	if !ok {
		return nil, zerr.With(ErrNotFound, "package", id.String())
	}
	return analysis, nil
}

// insertVersion keeps the version list ascending. Versions that do not parse
// as semver sort lexicographically after the ones that do.
func insertVersion(versions []string, version string) []string {
	versions = append(versions, version)
	sort.SliceStable(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri != nil || errj != nil {
			if (erri == nil) != (errj == nil) {
				return erri == nil
			}
			return versions[i] < versions[j]
		}
		return vi.LessThan(vj)
	})
	return versions
}

type manifestDTO struct {
	Package struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"package"`
	Dependencies []dependencyDTO `yaml:"dependencies,omitempty"`
}

type dependencyDTO struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// canonicalManifest renders the package facts in a stable form for content
// addressing.
func canonicalManifest(meta domain.Metadata, deps []domain.Reference) ([]byte, error) {
	var dto manifestDTO
	dto.Package.Name = meta.Name
	dto.Package.Version = meta.Version
	for _, ref := range deps {
		dto.Dependencies = append(dto.Dependencies, dependencyDTO{
			Name:    ref.Name,
			Version: ref.Constraint,
			Path:    ref.Path,
		})
	}
	content, err := yaml.Marshal(&dto)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to encode manifest")
	}
	return content, nil
}
