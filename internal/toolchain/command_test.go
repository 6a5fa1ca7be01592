package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestCommand_CompileSourceCheck(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	require.NoError(t, os.Mkdir(src, 0o755))
	file := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	c := NewCommand()

	_, err := c.Compile(context.Background(), Unit{Module: "ok", Dir: dir, Settings: config.Settings{SourceDirs: []string{src}}})
	require.NoError(t, err)

	for _, missing := range []string{filepath.Join(dir, "nope"), file} {
		_, err = c.Compile(context.Background(), Unit{Module: "bad", Dir: dir, Settings: config.Settings{SourceDirs: []string{src, missing}}})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingSource)

		var target *MissingSourceError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, missing, target.Dir)
	}
}

func TestCommand_CompileRunsCompiler(t *testing.T) {
	requireShell(t)
	dir := t.TempDir()
	var live bytes.Buffer

	u := Unit{
		Module: "common",
		Dir:    dir,
		Output: &live,
		Settings: config.Settings{
			LanguageVersion: 14,
			Compiler:        []string{"sh", "-c"},
			CompilerArgs:    []string{`echo "compiling {module} for $0" && pwd`, "{version}"},
		},
	}
	diags, err := NewCommand().Compile(context.Background(), u)
	require.NoError(t, err)

	assert.Contains(t, diags, "compiling common for 14")
	assert.Contains(t, diags, filepath.Base(dir), "runs in the module dir")
	assert.Contains(t, live.String(), "compiling common")
}

func TestCommand_CompileFailure(t *testing.T) {
	requireShell(t)
	u := Unit{
		Module:   "broken",
		Dir:      t.TempDir(),
		Settings: config.Settings{Compiler: []string{"sh", "-c", "echo 'error: ; expected' >&2; exit 3"}},
	}
	diags, err := NewCommand().Compile(context.Background(), u)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCommandFailed)
	assert.Contains(t, diags, "; expected")

	var target *CommandError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, 3, target.ExitCode)
}

func TestCommand_CompileMissingBinary(t *testing.T) {
	u := Unit{
		Module:   "broken",
		Dir:      t.TempDir(),
		Settings: config.Settings{Compiler: []string{"gridbuild-no-such-compiler"}},
	}
	_, err := NewCommand().Compile(context.Background(), u)
	require.Error(t, err)

	var target *CommandError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, -1, target.ExitCode)
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestCommand_Test(t *testing.T) {
	requireShell(t)
	c := NewCommand("GRIDBUILD_TEST_VAR=from-env")

	t.Run("no test command passes", func(t *testing.T) {
		diags, err := c.Test(context.Background(), Unit{Module: "m", Dir: t.TempDir()})
		require.NoError(t, err)
		assert.Equal(t, "no test command configured", diags)
	})

	t.Run("framework and env reach the command", func(t *testing.T) {
		u := Unit{
			Module: "m",
			Dir:    t.TempDir(),
			Settings: config.Settings{
				TestFramework: "testng",
				TestCommand:   []string{"sh", "-c", `echo "$0 $GRIDBUILD_TEST_VAR"`, "{framework}"},
			},
		}
		diags, err := c.Test(context.Background(), u)
		require.NoError(t, err)
		assert.Equal(t, "testng from-env", diags)
	})

	t.Run("failing tests", func(t *testing.T) {
		u := Unit{
			Module:   "m",
			Dir:      t.TempDir(),
			Settings: config.Settings{TestCommand: []string{"sh", "-c", "exit 1"}},
		}
		_, err := c.Test(context.Background(), u)
		assert.ErrorIs(t, err, ErrCommandFailed)
	})
}
