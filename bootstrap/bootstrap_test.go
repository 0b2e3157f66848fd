package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tracedoc/config"
)

func TestNewAssemblesWholeStack(t *testing.T) {
	a, err := New(config.Default())
	require.NoError(t, err)

	assert.Equal(t, []string{"Greeting"}, a.Registry.Names())
	require.NotNil(t, a.HTTPServer)
	assert.Equal(t, "0.0.0.0:3000", a.HTTPServer.Addr)

	// The assembled handler serves the API, the document, and metrics
	// without the listener running.
	tests := []struct {
		path     string
		wantCode int
		wantBody string
	}{
		{"/hello", http.StatusOK, `"text"`},
		{"/foreign-opt-none", http.StatusOK, "null"},
		{"/docs/openapi.json", http.StatusOK, `"openapi"`},
		{"/metrics", http.StatusOK, "tracedoc_"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			rec := httptest.NewRecorder()
			a.HTTPServer.Handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := config.Default()
	cfg.Metrics.Enabled = false
	a, err := New(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	a.HTTPServer.Handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
