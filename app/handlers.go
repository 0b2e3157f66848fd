// Package app provides the demonstration API: a handful of endpoints that
// return foreign-wrapped values in each of the three supported wrapper
// forms.
package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/artpar/tracedoc/core/docs"
	"github.com/artpar/tracedoc/foreign"
	"github.com/artpar/tracedoc/pkg/sample"
)

// Handler provides the demo API endpoints.
type Handler struct {
	logger zerolog.Logger
}

// NewHandler creates the demo handler.
func NewHandler(logger zerolog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Routes returns the documented route table. Bootstrap feeds it to the
// docs service, which registers every response schema.
func (h *Handler) Routes() []docs.Route {
	return []docs.Route{
		{
			Method:   "GET",
			Path:     "/hello",
			Summary:  "Plain foreign wrapper",
			Response: foreign.Foreign[sample.Greeting]{},
		},
		{
			Method:  "GET",
			Path:    "/optional",
			Summary: "Outer optional around the wrapper, value present",
			Description: "The response may be null, but the schema is not marked " +
				"nullable: absence is tracked outside the wrapper.",
			Response: foreign.Foreign[sample.Greeting]{},
		},
		{
			Method:  "GET",
			Path:    "/optional-none",
			Summary: "Outer optional around the wrapper, value absent",
			Description: "The response may be null, but the schema is not marked " +
				"nullable: absence is tracked outside the wrapper.",
			Response: foreign.Foreign[sample.Greeting]{},
		},
		{
			Method:   "GET",
			Path:     "/foreign-opt",
			Summary:  "Optional inside the wrapper, value present",
			Response: foreign.Optional[sample.Greeting]{},
		},
		{
			Method:   "GET",
			Path:     "/foreign-opt-none",
			Summary:  "Optional inside the wrapper, value absent",
			Response: foreign.Optional[sample.Greeting]{},
		},
	}
}

// Router returns the demo API router.
func (h *Handler) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/hello", h.Hello)
	r.Get("/optional", h.Optional)
	r.Get("/optional-none", h.OptionalNone)
	r.Get("/foreign-opt", h.ForeignOpt)
	r.Get("/foreign-opt-none", h.ForeignOptNone)
	return r
}

// Hello returns a wrapped greeting.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	v := foreign.Wrap(sample.Greeting{Text: "hello"})
	h.respond(w, v)
}

// Optional returns a present value through an outer optional.
func (h *Handler) Optional(w http.ResponseWriter, r *http.Request) {
	v := foreign.Wrap(sample.Greeting{Text: "optional value"})
	h.respondMaybe(w, &v)
}

// OptionalNone returns an absent value through an outer optional.
func (h *Handler) OptionalNone(w http.ResponseWriter, r *http.Request) {
	h.respondMaybe(w, nil)
}

// ForeignOpt returns a present value through the optional wrapper.
func (h *Handler) ForeignOpt(w http.ResponseWriter, r *http.Request) {
	h.respond(w, foreign.Some(sample.Greeting{Text: "using Optional[T]"}))
}

// ForeignOptNone returns an absent value through the optional wrapper.
func (h *Handler) ForeignOptNone(w http.ResponseWriter, r *http.Request) {
	h.respond(w, foreign.None[sample.Greeting]())
}

// respond writes the provider's JSON value; an absent value becomes null.
func (h *Handler) respond(w http.ResponseWriter, p foreign.Provider) {
	raw, err := p.JSONValue()
	if err != nil {
		h.logger.Error().Err(err).Msg("serializing response failed")
		http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, raw)
}

// respondMaybe handles the outer-optional form: a nil wrapper serializes to
// null exactly like an absent Optional value.
func (h *Handler) respondMaybe(w http.ResponseWriter, p *foreign.Foreign[sample.Greeting]) {
	if p == nil {
		writeJSON(w, nil)
		return
	}
	h.respond(w, *p)
}

func writeJSON(w http.ResponseWriter, raw []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	if raw == nil {
		raw = []byte("null")
	}
	w.Write(raw)
}
