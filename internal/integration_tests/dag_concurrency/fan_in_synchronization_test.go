package integration_tests

import (
	"context"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/app"
	"github.com/specialistvlad/gridbuild/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test for: independent modules build concurrently and a module depending on
// all of them waits until every one has finished.
func TestDagConcurrency_FanInSynchronization(t *testing.T) {
	// --- Arrange ---
	root := testutil.WriteWorkspace(t, map[string]string{
		"modules.hcl": `
module "a" {}
module "b" {}
module "c" {}
module "d" {
  depends_on = ["a", "b", "c"]
}
`,
	})
	cfg, err := app.NewConfig(app.Config{WorkspacePath: root, Parallelism: 3})
	require.NoError(t, err)
	tc := newTimingToolchain("a", "b", "c")

	// --- Act ---
	err = app.NewApp(&testutil.SafeBuffer{}, &testutil.SafeBuffer{}, cfg, tc).Build(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.False(t, tc.timedOut, "a, b and c should have been building at the same time")
	require.Len(t, tc.records, 4)
	d := tc.records["d"]
	for _, dep := range []string{"a", "b", "c"} {
		assert.False(t, d.Start.Before(tc.records[dep].End), "d started before %s finished", dep)
	}
}

// Test for: with a single worker modules build one at a time in plan order.
func TestDagConcurrency_SingleWorkerFollowsPlan(t *testing.T) {
	root := testutil.WriteWorkspace(t, map[string]string{
		"modules.hcl": `
module "d" { depends_on = ["b"] }
module "c" {}
module "b" {}
module "a" { depends_on = ["c"] }
`,
	})
	cfg, err := app.NewConfig(app.Config{WorkspacePath: root, Parallelism: 1})
	require.NoError(t, err)
	tc := &testutil.FakeToolchain{}
	out := &testutil.SafeBuffer{}
	a := app.NewApp(out, &testutil.SafeBuffer{}, cfg, tc)

	require.NoError(t, a.Plan(context.Background()))
	require.NoError(t, a.Build(context.Background()))

	assert.Equal(t, []string{"b", "c", "a", "d"}, tc.Compiled())
	assert.Contains(t, out.String(), "b\nc\na\nd\n")
}
