package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.RequestsTotal.WithLabelValues("GET", "/hello", "200").Inc()
	c.SchemasRegistered.Set(3)
	c.DocumentBytes.Set(1024)

	if got := testutil.ToFloat64(c.RequestsTotal.WithLabelValues("GET", "/hello", "200")); got != 1 {
		t.Errorf("requests_total = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.SchemasRegistered); got != 3 {
		t.Errorf("schemas_registered = %v, want 3", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatal(err)
	}
	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"tracedoc_requests_total",
		"tracedoc_schemas_registered",
		"tracedoc_openapi_document_bytes",
	} {
		if !names[want] {
			t.Errorf("metric %s not gathered", want)
		}
	}
}

func TestNewDuplicateRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate registration")
		}
	}()
	New(reg)
}
