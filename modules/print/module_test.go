package print

import (
	"bytes"
	"context"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/specialistvlad/gridbuild/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrint(t *testing.T) {
	r := registry.New(&Module{})
	rn, ok := r.Lookup("print")
	require.True(t, ok)

	var out bytes.Buffer
	code, err := rn.Run(context.Background(), config.Invocation{Module: "hello", Args: []string{"hello,", "world"}, Stdout: &out})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, "hello, world\n", out.String())
}
