package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tracedoc/core/docs"
	"github.com/artpar/tracedoc/core/openapi"
)

func doGet(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestEndpoints(t *testing.T) {
	router := NewHandler(zerolog.Nop()).Router()

	tests := []struct {
		path string
		want string
	}{
		{"/hello", `{"text":"hello"}`},
		{"/optional", `{"text":"optional value"}`},
		{"/optional-none", `null`},
		{"/foreign-opt", `{"text":"using Optional[T]"}`},
		{"/foreign-opt-none", `null`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := doGet(t, router, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.want, rec.Body.String())
		})
	}
}

func TestRoutesRegisterGreetingSchema(t *testing.T) {
	svc := docs.NewService(docs.ServiceConfig{
		Info:   openapi.Info{Title: "Demo", Version: "1.0"},
		Logger: zerolog.Nop(),
	})
	for _, r := range NewHandler(zerolog.Nop()).Routes() {
		require.NoError(t, svc.AddRoute(r))
	}

	assert.Equal(t, []string{"Greeting"}, svc.Registry().Names())

	doc := svc.Document()
	for _, path := range []string{"/hello", "/optional", "/optional-none", "/foreign-opt", "/foreign-opt-none"} {
		item, ok := doc.Paths[path]
		require.True(t, ok, "missing path %s", path)
		require.NotNil(t, item.Get, "missing GET on %s", path)
	}

	// The plain wrapper documents a reference; the optional wrapper wraps
	// the same reference in a nullable fragment.
	plain := doc.Paths["/hello"].Get.Responses["200"].Content["application/json"].Schema
	require.NotNil(t, plain)
	assert.True(t, plain.IsRef())

	opt := doc.Paths["/foreign-opt"].Get.Responses["200"].Content["application/json"].Schema
	require.NotNil(t, opt)
	require.False(t, opt.IsRef())
	assert.True(t, opt.Inline.Nullable)
	assert.Equal(t, "Greeting", opt.Inline.Title)
}
