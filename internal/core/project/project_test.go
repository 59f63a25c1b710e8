// Package project_test contains tests for the project package.
package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/package-versions-go/internal/core/project"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	tempDir := t.TempDir()
	err := os.WriteFile(filepath.Join(tempDir, project.ManifestName), []byte(content), 0644)
	require.NoError(t, err, "Failed to write composer.json")
	return tempDir
}

func TestLoadManifest_Valid(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `{
    "name": "root/package",
    "version": "1.3.5",
    "replace": {
        "zz/last-alphabetically": "self.version",
        "aa/first-alphabetically": "^1.0",
        "mm/middle": "self.version"
    },
    "config": {"vendor-dir": "lib/vendor"}
}`)

	m, err := project.LoadManifest(dir)
	require.NoError(t, err)

	assert.Equal(t, "root/package", m.Name)
	assert.Equal(t, "1.3.5", m.Version)
	assert.Equal(t, "lib/vendor", m.Config.VendorDir)
	// Declaration order is preserved, not sorted.
	assert.Equal(t, project.Links{
		{Target: "zz/last-alphabetically", Constraint: "self.version"},
		{Target: "aa/first-alphabetically", Constraint: "^1.0"},
		{Target: "mm/middle", Constraint: "self.version"},
	}, m.Replace)
}

func TestLoadManifest_EmptyReplaceArray(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `{"name": "root/package", "replace": []}`)

	m, err := project.LoadManifest(dir)
	require.NoError(t, err)
	assert.Empty(t, m.Replace)
}

func TestLoadManifest_InvalidReplace(t *testing.T) {
	t.Parallel()
	dir := writeManifest(t, `{"name": "root/package", "replace": {"a/a": 5}}`)

	_, err := project.LoadManifest(dir)
	assert.Error(t, err)
}

func TestLoadManifest_NotFound(t *testing.T) {
	t.Parallel()
	_, err := project.LoadManifest(t.TempDir())
	assert.Error(t, err)
	assert.True(t, os.IsNotExist(err), "Error should be a 'file not found' type error")
}

func TestManifest_RootVersionPrecedence(t *testing.T) {
	t.Parallel()
	withVersion := &project.Manifest{Name: "root/package", Version: "2.0.0"}
	assert.Equal(t, "2.0.0", withVersion.Root("3.0.0", "").PrettyVersion)

	withoutVersion := &project.Manifest{Name: "root/package"}
	assert.Equal(t, "3.0.0", withoutVersion.Root("3.0.0", "").PrettyVersion)
	assert.Equal(t, project.DefaultRootVersion, withoutVersion.Root("", "").PrettyVersion)
}

func TestManifest_RootCopiesReplaces(t *testing.T) {
	t.Parallel()
	m := &project.Manifest{
		Name:    "root/package",
		Replace: project.Links{{Target: "a/a", Constraint: "self.version"}},
	}
	root := m.Root("", "abc")
	assert.Equal(t, "abc", root.SourceReference)
	require.Len(t, root.Replaces, 1)

	root.Replaces[0].Target = "changed/name"
	assert.Equal(t, "a/a", m.Replace[0].Target, "Root must not alias the manifest's replace list")
}
