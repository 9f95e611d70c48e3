package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	dir := t.TempDir()
	manifest := `
package:
  name: app
  version: 0.1.0
dependencies:
  - name: zlib
    version: ^1
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mason.yaml"), []byte(manifest), 0o600))

	indexed := filepath.Join(dir, "masonry", "zlib", "1.0.0")
	require.NoError(t, os.MkdirAll(indexed, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(indexed, "mason.yaml"), []byte(`
package:
  name: zlib
  version: 1.0.0
`), 0o600))

	os.Args = []string{"mason", "lock", dir}
	assert.Equal(t, 0, run())

	_, err := os.Stat(filepath.Join(dir, "mason.lock"))
	assert.NoError(t, err)
}

func TestRun_MissingManifest(t *testing.T) {
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	os.Args = []string{"mason", "lock", t.TempDir()}
	assert.Equal(t, 1, run())
}
