package versions

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/package-versions-go/internal/cli/common"
	"github.com/nightconcept/package-versions-go/internal/core/generated"
	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
	"github.com/nightconcept/package-versions-go/internal/core/project"
)

// setupVersionsTestEnvironment creates a project with composer.json and,
// unless withGenerated is false, a generated version file in its vendor dir.
func setupVersionsTestEnvironment(t *testing.T, withGenerated bool) string {
	t.Helper()
	t.Setenv("COMPOSER_VENDOR_DIR", "")
	tempDir := t.TempDir()

	err := os.WriteFile(filepath.Join(tempDir, "composer.json"), []byte(`{"name": "root/package"}`), 0644)
	require.NoError(t, err, "Failed to write composer.json")

	if withGenerated {
		records := []lockfile.PackageRecord{
			{Name: "foo/bar", Version: "1.2.3", SourceReference: "abc123"},
			{Name: "baz/tab", Version: "4.5.6", SourceReference: "def456"},
		}
		root := project.RootPackageInfo{Name: "root/package", PrettyVersion: "1.3.5", SourceReference: "aaabbbcccddd"}
		path := generated.Path(filepath.Join(tempDir, "vendor"), "root/package")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, generated.Write(path, mapping.Build(root, records)))
	}
	return tempDir
}

// runVersionsCommand executes the versions command against projectDir and captures stdout and stderr.
func runVersionsCommand(t *testing.T, projectDir string, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	app := &cli.App{
		Flags:     common.GlobalFlags(),
		Commands:  []*cli.Command{VersionsCmd},
		Writer:    &stdout,
		ErrWriter: &stderr,
		// Prevent os.Exit from being called by urfave/cli during tests
		ExitErrHandler: func(*cli.Context, error) {},
	}
	fullArgs := append([]string{"pkgversions", "--project-dir", projectDir, "versions"}, args...)
	err := app.Run(fullArgs)
	return stdout.String(), stderr.String(), err
}

func TestVersionsCommand_ListsAllSorted(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	output, _, err := runVersionsCommand(t, tempDir)
	require.NoError(t, err)

	expected := strings.Join([]string{
		"Installed versions:",
		"baz/tab: 4.5.6@def456",
		"foo/bar: 1.2.3@abc123",
		"root/package: 1.3.5@aaabbbcccddd",
	}, "\n")
	assert.Equal(t, expected, strings.TrimSpace(output))
}

func TestVersionsCommand_SinglePackage(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	output, _, err := runVersionsCommand(t, tempDir, "foo/bar")
	require.NoError(t, err)
	assert.Equal(t, "Installed version:\nfoo/bar: 1.2.3@abc123", strings.TrimSpace(output))
}

func TestVersionsCommand_PackageNotFound(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	_, _, err := runVersionsCommand(t, tempDir, "nonexistent/pkg")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `Required package "nonexistent/pkg" is not installed`)

	exitErr, ok := err.(cli.ExitCoder)
	require.True(t, ok, "Error should carry an exit code")
	assert.Equal(t, 1, exitErr.ExitCode())
}

func TestVersionsCommand_TooManyArguments(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	_, _, err := runVersionsCommand(t, tempDir, "foo/bar", "baz/tab")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most one package name")
}

func TestVersionsCommand_Root(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	output, _, err := runVersionsCommand(t, tempDir, "--root")
	require.NoError(t, err)
	assert.Equal(t, "root/package", strings.TrimSpace(output))
}

func TestVersionsCommand_Constraint(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, true)

	_, _, err := runVersionsCommand(t, tempDir, "--constraint", "^1.2", "foo/bar")
	assert.NoError(t, err)

	_, _, err = runVersionsCommand(t, tempDir, "--constraint", "^2.0", "foo/bar")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not satisfy")

	_, _, err = runVersionsCommand(t, tempDir, "--constraint", "^2.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires a package name")
}

func TestVersionsCommand_FallbackWarns(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, false)
	lock := `{"content-hash": "x", "packages": [{"name": "foo/bar", "version": "1.2.3", "source": {"reference": "abc123"}}]}`
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "composer.lock"), []byte(lock), 0644))

	output, stderr, err := runVersionsCommand(t, tempDir, "foo/bar")
	require.NoError(t, err)
	assert.Contains(t, output, "foo/bar: 1.2.3@abc123")
	assert.Contains(t, stderr, "Warning:")
}

func TestVersionsCommand_NoLockData(t *testing.T) {
	tempDir := setupVersionsTestEnvironment(t, false)

	_, _, err := runVersionsCommand(t, tempDir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not locate")
}
