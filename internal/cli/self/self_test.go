package self

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrentVersion(t *testing.T) {
	t.Parallel()
	v, err := ParseCurrentVersion("v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, "0.1.0", v.String())

	v, err = ParseCurrentVersion("1.2.3")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", v.String())

	_, err = ParseCurrentVersion("not-a-version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vX.Y.Z")
}

func TestParseRepository(t *testing.T) {
	t.Parallel()
	slug, err := ParseRepository(DefaultRepository)
	require.NoError(t, err)
	assert.Equal(t, DefaultRepository, slug)

	for _, bad := range []string{"", "owner", "owner/", "/repo", "a/b/c"} {
		_, err := ParseRepository(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewSelfCommand(t *testing.T) {
	t.Parallel()
	cmd := NewSelfCommand()
	assert.Equal(t, "self", cmd.Name)
	require.Len(t, cmd.Subcommands, 1)
	assert.Equal(t, "update", cmd.Subcommands[0].Name)
}
