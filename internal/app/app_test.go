package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/dag"
	"github.com/specialistvlad/gridbuild/internal/executor"
	"github.com/specialistvlad/gridbuild/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const workspaceHCL = `
convention {
  language_version = 14
}
`

var testWorkspace = map[string]string{
	"build.hcl": workspaceHCL,
	"common/module.hcl": `
module "common" {}
`,
	"mock-api/module.hcl": `
module "mock-api" {
  depends_on = ["common"]
  tests      = true

  run {
    entry_point = "record"
    args        = ["serve"]
  }
}
`,
	"tools/module.hcl": `
module "tools" {}
`,
}

type harness struct {
	app      *App
	out      *testutil.SafeBuffer
	logs     *testutil.SafeBuffer
	tc       *testutil.FakeToolchain
	recorder *testutil.RecordingModule
}

func newHarness(t *testing.T, cfg Config) *harness {
	t.Helper()
	if cfg.WorkspacePath == "" {
		cfg.WorkspacePath = testutil.WriteWorkspace(t, testWorkspace)
	}
	cfg.LogLevel = "debug"
	validated, err := NewConfig(cfg)
	require.NoError(t, err)

	h := &harness{
		out:      &testutil.SafeBuffer{},
		logs:     &testutil.SafeBuffer{},
		tc:       &testutil.FakeToolchain{},
		recorder: &testutil.RecordingModule{},
	}
	h.app = NewApp(h.out, h.logs, validated, h.tc, h.recorder)
	t.Cleanup(func() {
		if os.Getenv("GRIDBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), h.logs.String())
		}
	})
	return h
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(Config{WorkspacePath: "."})
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Parallelism)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"missing path", Config{}, "WorkspacePath"},
		{"negative parallelism", Config{WorkspacePath: ".", Parallelism: -2}, "parallelism"},
		{"bad format", Config{WorkspacePath: ".", LogFormat: "xml"}, "log-format"},
		{"bad level", Config{WorkspacePath: ".", LogLevel: "loud"}, "log-level"},
		{"bad port", Config{WorkspacePath: ".", HealthcheckPort: 70000}, "port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConfig(tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_AllSucceed(t *testing.T) {
	h := newHarness(t, Config{Run: []string{"mock-api"}, Parallelism: 2})

	require.NoError(t, h.app.Build(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "MODULE")
	assert.Contains(t, out, "3 modules: 3 succeeded, 0 failed, 0 skipped")
	assert.ElementsMatch(t, []string{"common", "mock-api", "tools"}, h.tc.Compiled())
	assert.Equal(t, []string{"mock-api"}, h.tc.Tested())

	inv := h.recorder.Invocations()
	require.Len(t, inv, 1)
	assert.Equal(t, "mock-api", inv[0].Module)
	assert.Equal(t, []string{"serve"}, inv[0].Args)
}

func TestBuild_FailureIsReported(t *testing.T) {
	h := newHarness(t, Config{})
	h.tc.FailCompile = map[string]bool{"common": true}

	err := h.app.Build(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBuildFailed)
	var failed *BuildFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, []string{"common"}, failed.Failed)
	assert.Equal(t, 1, failed.Skipped)
	assert.Contains(t, h.out.String(), "3 modules: 1 succeeded, 1 failed, 1 skipped")
}

func TestBuild_ModuleSelection(t *testing.T) {
	h := newHarness(t, Config{Modules: []string{"mock-api"}})

	require.NoError(t, h.app.Build(context.Background()))

	assert.ElementsMatch(t, []string{"common", "mock-api"}, h.tc.Compiled())
	assert.Contains(t, h.out.String(), "2 modules: 2 succeeded, 0 failed, 0 skipped")
}

func TestBuild_ConfigurationErrors(t *testing.T) {
	t.Run("cycle", func(t *testing.T) {
		root := testutil.WriteWorkspace(t, map[string]string{
			"a.hcl": `module "a" { depends_on = ["b"] }`,
			"b.hcl": `module "b" { depends_on = ["a"] }`,
		})
		h := newHarness(t, Config{WorkspacePath: root})

		err := h.app.Build(context.Background())

		assert.ErrorIs(t, err, dag.ErrCycle)
		assert.Empty(t, h.tc.Compiled())
	})

	t.Run("unknown selected module", func(t *testing.T) {
		h := newHarness(t, Config{Modules: []string{"nope"}})

		err := h.app.Build(context.Background())

		assert.ErrorIs(t, err, dag.ErrUnknownNode)
	})

	t.Run("run without entry point", func(t *testing.T) {
		h := newHarness(t, Config{Run: []string{"tools"}})

		err := h.app.Build(context.Background())

		assert.ErrorIs(t, err, executor.ErrNotRunnable)
	})
}

func TestBuild_Cancelled(t *testing.T) {
	h := newHarness(t, Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.app.Build(ctx)

	assert.ErrorIs(t, err, executor.ErrCancelled)
	assert.Contains(t, h.out.String(), "3 modules: 0 succeeded, 0 failed, 3 skipped")
}

func TestBuild_ReportAndHistory(t *testing.T) {
	dir := t.TempDir()
	reportPath := filepath.Join(dir, "report.json")
	dbPath := filepath.Join(dir, "history.db")
	h := newHarness(t, Config{ReportPath: reportPath, HistoryDB: dbPath})

	require.NoError(t, h.app.Build(context.Background()))

	raw, err := os.ReadFile(reportPath)
	require.NoError(t, err)
	var rep executor.Report
	require.NoError(t, json.Unmarshal(raw, &rep))
	require.Len(t, rep.Results, 3)
	assert.Equal(t, "common", rep.Results[0].Module)

	h.out.Reset()
	require.NoError(t, h.app.History(context.Background(), 10))
	lines := strings.Split(strings.TrimSpace(h.out.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "BUILD"))
	assert.True(t, strings.HasPrefix(lines[1], rep.BuildID))
	assert.Contains(t, lines[1], "success")
}

func TestHistory_RequiresDatabase(t *testing.T) {
	h := newHarness(t, Config{})
	assert.Error(t, h.app.History(context.Background(), 5))
}

func TestPlan(t *testing.T) {
	h := newHarness(t, Config{})

	require.NoError(t, h.app.Plan(context.Background()))

	assert.Equal(t, "common\nmock-api\ntools\n", h.out.String())
	assert.Empty(t, h.tc.Compiled())
}

func TestGraph(t *testing.T) {
	h := newHarness(t, Config{})

	require.NoError(t, h.app.Graph(context.Background()))

	out := h.out.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, `"common" -> "mock-api"`)
}

func TestHealthcheckServer(t *testing.T) {
	h := newHarness(t, Config{})
	require.NoError(t, h.app.Build(context.Background()))

	addr, err := h.app.startHealthcheckServer(0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.app.stopHealthcheckServer() })
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	base := "http://127.0.0.1:" + port

	body := get(t, base+"/health")
	assert.Equal(t, "OK\n", body)

	metrics := get(t, base+"/metrics")
	assert.Contains(t, metrics, "gridbuild_module_results_total")
	assert.Contains(t, metrics, "gridbuild_build_outcomes_total")
}

func get(t *testing.T, url string) string {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var buf bytes.Buffer
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return buf.String()
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"k":"v"`)

	_, err := parseLevel("verbose")
	assert.Error(t, err)
}
