package command

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgv(t *testing.T) {
	inv := config.Invocation{
		Args:     []string{"java", "-cp", "build", "dgroomes.Main"},
		Settings: config.Settings{RunArgs: []string{"--enable-preview"}},
	}
	assert.Equal(t, []string{"java", "--enable-preview", "-cp", "build", "dgroomes.Main"}, Argv(inv))
}

func TestRun(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := t.TempDir()

	t.Run("exit status is returned", func(t *testing.T) {
		var out bytes.Buffer
		code, err := Run(context.Background(), config.Invocation{
			Module: "app",
			Dir:    dir,
			Args:   []string{"sh", "-c", "echo started; exit 4"},
			Stdout: &out,
		})
		require.NoError(t, err)
		assert.Equal(t, 4, code)
		assert.Equal(t, "started\n", out.String())
	})

	t.Run("success", func(t *testing.T) {
		code, err := Run(context.Background(), config.Invocation{Dir: dir, Args: []string{"sh", "-c", "true"}})
		require.NoError(t, err)
		assert.Equal(t, 0, code)
	})

	t.Run("missing program", func(t *testing.T) {
		code, err := Run(context.Background(), config.Invocation{Dir: dir, Args: []string{"gridbuild-no-such-program"}})
		require.Error(t, err)
		assert.Equal(t, -1, code)
	})

	t.Run("no args", func(t *testing.T) {
		_, err := Run(context.Background(), config.Invocation{Dir: dir})
		assert.ErrorIs(t, err, ErrNoProgram)
	})
}
