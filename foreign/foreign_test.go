package foreign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artpar/tracedoc/core/openapi"
)

type person struct {
	Name   string `json:"name"`
	Age    int32  `json:"age"`
	Active bool   `json:"active"`
}

// wrapped promotes person's fields on the wire, so its schema must be
// person's schema under person's name.
type wrapped struct {
	person
}

type sealed struct {
	C chan int `json:"c"`
}

func mustMarshal(t *testing.T, r openapi.SchemaRef) string {
	t.Helper()
	b, err := r.MarshalJSON()
	require.NoError(t, err)
	return string(b)
}

func TestForeignName(t *testing.T) {
	assert.Equal(t, "person", Foreign[person]{}.Name())
}

func TestForeignNameUnwrapsWrapper(t *testing.T) {
	assert.Equal(t, "person", Foreign[wrapped]{}.Name())
	assert.Equal(t, Foreign[person]{}.SchemaRef(), Foreign[wrapped]{}.SchemaRef())
}

func TestForeignSchemaRefIsReference(t *testing.T) {
	ref := Foreign[person]{}.SchemaRef()
	require.True(t, ref.IsRef())
	assert.Equal(t, `{"$ref":"#/components/schemas/person"}`, mustMarshal(t, ref))
}

func TestForeignRegister(t *testing.T) {
	reg := openapi.NewRegistry()
	require.NoError(t, Foreign[person]{}.Register(reg))

	s, ok := reg.Schema("person")
	require.True(t, ok)
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"},"active":{"type":"boolean"}}}`,
		string(b))
}

func TestForeignRegisterIdempotent(t *testing.T) {
	reg := openapi.NewRegistry()
	for i := 0; i < 3; i++ {
		require.NoError(t, Foreign[person]{}.Register(reg))
	}
	assert.Equal(t, []string{"person"}, reg.Names())
}

func TestForeignRegisterWrapperBindsInnerName(t *testing.T) {
	reg := openapi.NewRegistry()
	require.NoError(t, Foreign[wrapped]{}.Register(reg))

	// The wrapper itself never appears in the registry.
	_, ok := reg.Schema("wrapped")
	assert.False(t, ok)

	s, ok := reg.Schema("person")
	require.True(t, ok)
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t,
		`{"type":"object","properties":{"name":{"type":"string"},"age":{"type":"integer"},"active":{"type":"boolean"}}}`,
		string(b))
}

func TestForeignUntraceableFallsBackToObject(t *testing.T) {
	reg := openapi.NewRegistry()
	require.NoError(t, Foreign[sealed]{}.Register(reg))

	s, ok := reg.Schema("sealed")
	require.True(t, ok)
	b, err := s.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"type":"object"}`, string(b))

	ref := Foreign[sealed]{}.SchemaRef()
	assert.True(t, ref.IsRef())
}

func TestForeignNonContainerRoot(t *testing.T) {
	ref := Foreign[[]person]{}.SchemaRef()
	require.False(t, ref.IsRef())
	assert.Equal(t, `{"type":"array","items":{"$ref":"#/components/schemas/person"}}`, mustMarshal(t, ref))

	// Registering the slice still commits the nested named type, so the
	// items reference resolves.
	reg := openapi.NewRegistry()
	require.NoError(t, Foreign[[]person]{}.Register(reg))
	_, ok := reg.Schema("person")
	assert.True(t, ok)
}

func TestForeignJSONValue(t *testing.T) {
	raw, err := Wrap(person{Name: "ada", Age: 36, Active: true}).JSONValue()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ada","age":36,"active":true}`, string(raw))
}

func TestOptionalSchemaRefNullableReference(t *testing.T) {
	ref := Optional[person]{}.SchemaRef()
	require.False(t, ref.IsRef())
	assert.Equal(t,
		`{"title":"person","nullable":true,"allOf":[{"$ref":"#/components/schemas/person"}]}`,
		mustMarshal(t, ref))
}

func TestOptionalSchemaRefNullableInline(t *testing.T) {
	assert.Equal(t, `{"type":"integer","nullable":true}`, mustMarshal(t, Optional[int]{}.SchemaRef()))
}

func TestOptionalKeepsName(t *testing.T) {
	assert.Equal(t, "person", Optional[person]{}.Name())
	assert.Equal(t, "person", Optional[wrapped]{}.Name())
}

func TestOptionalJSONValue(t *testing.T) {
	raw, err := Some(person{Name: "ada"}).JSONValue()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ada","age":0,"active":false}`, string(raw))

	raw, err = None[person]().JSONValue()
	require.NoError(t, err)
	assert.Nil(t, raw, "absent value is a nil message, not an error")
}

func TestOptionalRegisterMatchesForeign(t *testing.T) {
	a := openapi.NewRegistry()
	require.NoError(t, Optional[person]{}.Register(a))
	b := openapi.NewRegistry()
	require.NoError(t, Foreign[person]{}.Register(b))

	sa, ok := a.Schema("person")
	require.True(t, ok)
	sb, ok := b.Schema("person")
	require.True(t, ok)

	ja, err := sa.MarshalJSON()
	require.NoError(t, err)
	jb, err := sb.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}
