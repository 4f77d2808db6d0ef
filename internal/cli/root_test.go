package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	root := NewRootCommand(BuildInfo{Version: "1.2.3", Commit: "abc123"})
	root.SetOut(out)
	root.SetErr(out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Equal(t, "library 1.2.3 (abc123)\n", out)
}

func TestMigrateCommand(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_PATH", filepath.Join(t.TempDir(), "library.db"))
	t.Setenv("DATABASE_LOG_LEVEL", "silent")
	t.Setenv("LOG_LEVEL", "error")

	out, err := execute(t, "migrate")

	require.NoError(t, err)
	assert.Contains(t, out, "Migrations applied")
}

func TestMigrateCommandUnsupportedDriver(t *testing.T) {
	t.Setenv("DATABASE_DRIVER", "oracle")
	t.Setenv("LOG_LEVEL", "error")

	_, err := execute(t, "migrate")

	assert.ErrorContains(t, err, "unsupported database driver")
}

func TestUnknownCommand(t *testing.T) {
	_, err := execute(t, "frobnicate")
	assert.Error(t, err)
}

func TestCommandsRejectArguments(t *testing.T) {
	_, err := execute(t, "version", "extra")
	assert.Error(t, err)
}
