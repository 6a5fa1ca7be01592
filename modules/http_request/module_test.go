package http_request

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/specialistvlad/gridbuild/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"message":"hello"}`))
	}))
	defer srv.Close()

	m := &Module{Client: srv.Client()}

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"2xx passes", []string{srv.URL + "/messages"}, 0},
		{"404 fails", []string{srv.URL + "/missing"}, 1},
		{"expected 404 passes", []string{srv.URL + "/missing", "404"}, 0},
		{"unreachable fails", []string{"http://127.0.0.1:1/"}, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var out, errOut bytes.Buffer
			code, err := m.Check(context.Background(), config.Invocation{Args: tc.args, Stdout: &out, Stderr: &errOut})
			require.NoError(t, err)
			assert.Equal(t, tc.code, code)
		})
	}

	_, err := m.Check(context.Background(), config.Invocation{Args: []string{srv.URL, "abc"}})
	assert.Error(t, err)
}
