package openapi

import "bytes"

// Document is an OpenAPI 3.0 specification.
type Document struct {
	OpenAPI    string              `json:"openapi"`
	Info       Info                `json:"info"`
	Servers    []Server            `json:"servers,omitempty"`
	Paths      map[string]PathItem `json:"paths"`
	Components Components          `json:"components"`
}

// Info provides API metadata.
type Info struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// Server represents a server URL.
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// PathItem contains the operations available on one path.
type PathItem struct {
	Get    *Operation `json:"get,omitempty"`
	Post   *Operation `json:"post,omitempty"`
	Put    *Operation `json:"put,omitempty"`
	Patch  *Operation `json:"patch,omitempty"`
	Delete *Operation `json:"delete,omitempty"`
}

// Operation represents one API operation.
type Operation struct {
	Tags        []string            `json:"tags,omitempty"`
	Summary     string              `json:"summary,omitempty"`
	Description string              `json:"description,omitempty"`
	OperationID string              `json:"operationId,omitempty"`
	Responses   map[string]Response `json:"responses"`
}

// Response represents one API response.
type Response struct {
	Description string               `json:"description"`
	Content     map[string]MediaType `json:"content,omitempty"`
}

// MediaType carries the schema for one content type.
type MediaType struct {
	Schema *SchemaRef `json:"schema,omitempty"`
}

// Components holds the registered schemas in registration order.
type Components struct {
	Schemas []namedSchema
}

type namedSchema struct {
	name   string
	schema *Schema
}

// MarshalJSON writes {"schemas": {...}} with schemas in registration order.
func (c Components) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"schemas":{`)
	w := &fieldWriter{buf: &buf}
	for i, ns := range c.Schemas {
		if i > 0 {
			buf.WriteByte(',')
		}
		w.raw(ns.name)
		buf.WriteByte(':')
		w.raw(ns.schema)
	}
	if w.err != nil {
		return nil, w.err
	}
	buf.WriteString("}}")
	return buf.Bytes(), nil
}
