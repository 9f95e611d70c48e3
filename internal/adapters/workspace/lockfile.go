package workspace

import (
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.masonbuild.dev/mason/internal/core/domain"
)

type lockfileDTO struct {
	Root  int           `yaml:"root"`
	Nodes []lockNodeDTO `yaml:"nodes"`
}

type lockNodeDTO struct {
	Dependencies []lockEntryDTO `yaml:"dependencies"`
}

type lockEntryDTO struct {
	Name    string `yaml:"name,omitempty"`
	Version string `yaml:"version,omitempty"`
	Path    string `yaml:"path,omitempty"`
	Package string `yaml:"package,omitempty"`
	Node    int    `yaml:"node"`
}

// EncodeLockfile writes the lock graph as YAML. Entries are ordered by
// reference, so encoding the same graph twice yields identical bytes.
func EncodeLockfile(w io.Writer, graph *domain.LockGraph) error {
	dto := lockfileDTO{Root: graph.Root, Nodes: make([]lockNodeDTO, len(graph.Nodes))}
	for i, node := range graph.Nodes {
		refs := make([]domain.Reference, 0, len(node.Dependencies))
		for ref := range node.Dependencies {
			refs = append(refs, ref)
		}
		sort.Slice(refs, func(a, b int) bool { return refs[a].String() < refs[b].String() })

		entries := make([]lockEntryDTO, 0, len(refs))
		for _, ref := range refs {
			entry := node.Dependencies[ref]
			entries = append(entries, lockEntryDTO{
				Name:    ref.Name,
				Version: ref.Constraint,
				Path:    ref.Path,
				Package: entry.Package.String(),
				Node:    entry.Node,
			})
		}
		dto.Nodes[i] = lockNodeDTO{Dependencies: entries}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&dto); err != nil {
		return zerr.Wrap(err, "failed to encode lockfile")
	}
	return enc.Close()
}

// WriteLockfile writes the lock graph to mason.lock in the given directory.
func WriteLockfile(dir string, graph *domain.LockGraph) error {
	f, err := os.Create(filepath.Join(dir, LockfileName)) //nolint:gosec // Path is derived from the user's workspace
	if err != nil {
		return zerr.Wrap(err, "failed to create lockfile")
	}
	if err := EncodeLockfile(f, graph); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return zerr.Wrap(err, "failed to close lockfile")
	}
	return nil
}
