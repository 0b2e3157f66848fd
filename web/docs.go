// Package web serves the documentation endpoints: the generated OpenAPI
// document in JSON and YAML, and the swagger UI.
package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	httpSwagger "github.com/swaggo/http-swagger"
	sigyaml "sigs.k8s.io/yaml"

	"github.com/artpar/tracedoc/core/docs"
)

// DocsHandler provides the documentation endpoints.
type DocsHandler struct {
	docs   *docs.Service
	logger zerolog.Logger
}

// NewDocsHandler creates a documentation handler over the docs service.
func NewDocsHandler(svc *docs.Service, logger zerolog.Logger) *DocsHandler {
	return &DocsHandler{docs: svc, logger: logger}
}

// Router returns the docs router. The swagger UI fetches doc.json from its
// own subtree, which http-swagger serves through the swag registry.
func (h *DocsHandler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/openapi.json", h.OpenAPISpec)
	r.Get("/openapi.yaml", h.OpenAPISpecYAML)
	r.Get("/swagger/*", httpSwagger.Handler())
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/swagger/index.html", http.StatusFound)
	})
	return r
}

// OpenAPISpec serves the generated document as JSON.
func (h *DocsHandler) OpenAPISpec(w http.ResponseWriter, r *http.Request) {
	raw, err := h.docs.JSON()
	if err != nil {
		h.logger.Error().Err(err).Msg("openapi json generation failed")
		http.Error(w, `{"error":"spec generation failed"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Write(raw)
}

// OpenAPISpecYAML serves the generated document as YAML.
func (h *DocsHandler) OpenAPISpecYAML(w http.ResponseWriter, r *http.Request) {
	raw, err := h.docs.JSON()
	if err != nil {
		h.logger.Error().Err(err).Msg("openapi yaml generation failed")
		http.Error(w, "spec generation failed", http.StatusInternalServerError)
		return
	}
	out, err := sigyaml.JSONToYAML(raw)
	if err != nil {
		h.logger.Error().Err(err).Msg("yaml conversion failed")
		http.Error(w, "spec generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
	w.Write(out)
}
