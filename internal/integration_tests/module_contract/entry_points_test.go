package integration_tests

import (
	"context"
	"os/exec"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/specialistvlad/gridbuild/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceHCL = `
module "greeter" {
  run {
    entry_point = "print"
    args        = ["hello", upper("grid")]
  }
}

module "server" {
  depends_on = ["greeter"]
  run {
    entry_point = "command"
    args        = ["sh", "-c", "echo serving {module}; exit 3"]
  }
}
`

// Test for: built-in entry points run only for modules asked to run, after
// a successful build, and their exit status decides the module's outcome.
func TestModuleContract_BuiltinEntryPoints(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	t.Run("run all", func(t *testing.T) {
		root := testutil.WriteWorkspace(t, map[string]string{"workspace.hcl": workspaceHCL})
		cfg, err := app.NewConfig(app.Config{WorkspacePath: root, RunAll: true})
		require.NoError(t, err)
		out := &testutil.SafeBuffer{}

		err = app.NewApp(out, &testutil.SafeBuffer{}, cfg, &testutil.FakeToolchain{}).Build(context.Background())

		var failed *app.BuildFailedError
		require.ErrorAs(t, err, &failed)
		assert.Equal(t, []string{"server"}, failed.Failed)
		assert.Contains(t, out.String(), "hello GRID\n")
		assert.Contains(t, out.String(), "serving {module}\n")
		assert.Contains(t, out.String(), "2 modules: 1 succeeded, 1 failed, 0 skipped")
	})

	t.Run("run one", func(t *testing.T) {
		root := testutil.WriteWorkspace(t, map[string]string{"workspace.hcl": workspaceHCL})
		cfg, err := app.NewConfig(app.Config{WorkspacePath: root, Run: []string{"greeter"}})
		require.NoError(t, err)
		out := &testutil.SafeBuffer{}

		err = app.NewApp(out, &testutil.SafeBuffer{}, cfg, &testutil.FakeToolchain{}).Build(context.Background())

		require.NoError(t, err)
		assert.Contains(t, out.String(), "hello GRID\n")
		assert.NotContains(t, out.String(), "serving")
	})
}
