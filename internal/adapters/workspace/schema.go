package workspace

import (
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.masonbuild.dev/mason/internal/core/domain"
)

// Manifest represents the structure of a mason.yaml package manifest.
type Manifest struct {
	Package      PackageDTO      `yaml:"package"`
	Dependencies []DependencyDTO `yaml:"dependencies"`
}

// PackageDTO is the identity stanza of a manifest.
type PackageDTO struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// DependencyDTO is one dependency declaration in a manifest.
type DependencyDTO struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	Path    string `yaml:"path"`
}

func parseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, zerr.Wrap(err, "failed to parse manifest")
	}
	if manifest.Package.Name == "" {
		return nil, zerr.New("manifest is missing a package name")
	}
	if manifest.Package.Version == "" {
		return nil, zerr.New("manifest is missing a package version")
	}
	for _, dep := range manifest.Dependencies {
		if dep.Name == "" && dep.Path == "" {
			return nil, zerr.New("dependency needs a name or a path")
		}
	}
	return &manifest, nil
}

func (m *Manifest) metadata() domain.Metadata {
	return domain.Metadata{Name: m.Package.Name, Version: m.Package.Version}
}

func (m *Manifest) references() []domain.Reference {
	refs := make([]domain.Reference, 0, len(m.Dependencies))
	for _, dep := range m.Dependencies {
		refs = append(refs, domain.Reference{
			Name:       dep.Name,
			Constraint: dep.Version,
			Path:       dep.Path,
		})
	}
	return refs
}
