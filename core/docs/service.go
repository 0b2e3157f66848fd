// Package docs assembles the OpenAPI document for a set of routes whose
// response types are foreign-wrapped. Schema registration happens once, at
// AddRoute time during bootstrap; the served document is cached and rebuilt
// only when the route table or the API info changes.
package docs

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/artpar/tracedoc/core/openapi"
	"github.com/artpar/tracedoc/foreign"
)

// Route associates one HTTP operation with the provider documenting its
// response body.
type Route struct {
	Method      string
	Path        string
	Summary     string
	Description string
	OperationID string
	Response    foreign.Provider
}

// ServiceConfig contains dependencies for the docs service.
type ServiceConfig struct {
	Registry  *openapi.Registry
	Info      openapi.Info
	ServerURL string
	Logger    zerolog.Logger
}

// Service owns the schema registry and the generated document.
type Service struct {
	registry *openapi.Registry
	logger   zerolog.Logger

	mu        sync.Mutex
	info      openapi.Info
	serverURL string
	routes    []Route

	cache atomic.Pointer[cachedDoc]
}

type cachedDoc struct {
	doc  *openapi.Document
	json []byte
}

// NewService creates a docs service around cfg.Registry (a fresh registry
// if nil).
func NewService(cfg ServiceConfig) *Service {
	reg := cfg.Registry
	if reg == nil {
		reg = openapi.NewRegistry()
	}
	return &Service{
		registry:  reg,
		logger:    cfg.Logger,
		info:      cfg.Info,
		serverURL: cfg.ServerURL,
	}
}

// Registry returns the shared schema registry.
func (s *Service) Registry() *openapi.Registry { return s.registry }

// AddRoute adds one operation and registers its response schema. Adding
// routes that share a response type is fine: registration is idempotent.
func (s *Service) AddRoute(r Route) error {
	if r.Method == "" || r.Path == "" {
		return fmt.Errorf("docs: route needs method and path, got %q %q", r.Method, r.Path)
	}
	r.Method = strings.ToUpper(r.Method)
	if r.OperationID == "" {
		r.OperationID = operationID(r.Method, r.Path)
	}

	if r.Response != nil {
		if err := r.Response.Register(s.registry); err != nil {
			return fmt.Errorf("docs: register %s %s: %w", r.Method, r.Path, err)
		}
		s.logger.Debug().
			Str("method", r.Method).
			Str("path", r.Path).
			Str("schema", r.Response.Name()).
			Msg("registered route schema")
	}

	s.mu.Lock()
	s.routes = append(s.routes, r)
	s.mu.Unlock()
	s.cache.Store(nil)
	return nil
}

// SetInfo replaces the document metadata (used by config hot reload).
// The schema registry is untouched; it is append-only for the process
// lifetime.
func (s *Service) SetInfo(info openapi.Info, serverURL string) {
	s.mu.Lock()
	s.info = info
	s.serverURL = serverURL
	s.mu.Unlock()
	s.cache.Store(nil)
}

// Document builds (or returns the cached) OpenAPI document.
func (s *Service) Document() *openapi.Document {
	if c := s.cache.Load(); c != nil {
		return c.doc
	}
	c, err := s.generate()
	if err != nil {
		// Schema marshaling is deterministic; an error here means a broken
		// fragment, which is a bug worth being loud about.
		s.logger.Error().Err(err).Msg("openapi document generation failed")
		return &openapi.Document{OpenAPI: "3.0.0", Paths: map[string]openapi.PathItem{}}
	}
	s.cache.Store(c)
	return c.doc
}

// JSON returns the document serialized with indentation.
func (s *Service) JSON() ([]byte, error) {
	if c := s.cache.Load(); c != nil {
		return c.json, nil
	}
	c, err := s.generate()
	if err != nil {
		return nil, err
	}
	s.cache.Store(c)
	return c.json, nil
}

// ReadDoc implements swag.Swagger so the generated document can back the
// swagger UI handler.
func (s *Service) ReadDoc() string {
	b, err := s.JSON()
	if err != nil {
		s.logger.Error().Err(err).Msg("reading openapi document failed")
		return "{}"
	}
	return string(b)
}

func (s *Service) generate() (*cachedDoc, error) {
	s.mu.Lock()
	info := s.info
	serverURL := s.serverURL
	routes := make([]Route, len(s.routes))
	copy(routes, s.routes)
	s.mu.Unlock()

	doc := &openapi.Document{
		OpenAPI:    "3.0.0",
		Info:       info,
		Paths:      map[string]openapi.PathItem{},
		Components: s.registry.Components(),
	}
	if serverURL != "" {
		doc.Servers = []openapi.Server{{URL: serverURL}}
	}

	for _, r := range routes {
		op := &openapi.Operation{
			Summary:     r.Summary,
			Description: r.Description,
			OperationID: r.OperationID,
			Responses: map[string]openapi.Response{
				"200": {Description: "OK"},
			},
		}
		if r.Response != nil {
			ref := r.Response.SchemaRef()
			op.Responses["200"] = openapi.Response{
				Description: "OK",
				Content: map[string]openapi.MediaType{
					"application/json": {Schema: &ref},
				},
			}
		}

		item := doc.Paths[r.Path]
		switch r.Method {
		case "GET":
			item.Get = op
		case "POST":
			item.Post = op
		case "PUT":
			item.Put = op
		case "PATCH":
			item.Patch = op
		case "DELETE":
			item.Delete = op
		default:
			return nil, fmt.Errorf("docs: unsupported method %q for %s", r.Method, r.Path)
		}
		doc.Paths[r.Path] = item
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("docs: marshal document: %w", err)
	}
	return &cachedDoc{doc: doc, json: raw}, nil
}

// operationID derives a stable identifier like "getHello" from the method
// and path.
func operationID(method, path string) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(method))
	for _, part := range strings.Split(path, "/") {
		part = strings.Trim(part, "{}")
		if part == "" {
			continue
		}
		for _, seg := range strings.Split(part, "-") {
			if seg == "" {
				continue
			}
			b.WriteString(strings.ToUpper(seg[:1]))
			b.WriteString(seg[1:])
		}
	}
	return b.String()
}
