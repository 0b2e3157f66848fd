package openapi

import (
	"encoding/json"
	"testing"
)

func TestSchemaMarshalPropertyOrder(t *testing.T) {
	s := &Schema{
		Type: "object",
		Properties: []Property{
			{Name: "zebra", Schema: InlineSchema(&Schema{Type: "string"})},
			{Name: "apple", Schema: InlineSchema(&Schema{Type: "integer"})},
			{Name: "mango", Schema: InlineSchema(&Schema{Type: "boolean"})},
		},
	}

	got, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"type":"object","properties":{"zebra":{"type":"string"},"apple":{"type":"integer"},"mango":{"type":"boolean"}}}`
	if string(got) != want {
		t.Errorf("marshal = %s\nwant      %s", got, want)
	}
}

func TestSchemaRefMarshal(t *testing.T) {
	got, err := json.Marshal(RefTo("User"))
	if err != nil {
		t.Fatal(err)
	}
	want := `{"$ref":"#/components/schemas/User"}`
	if string(got) != want {
		t.Errorf("marshal = %s, want %s", got, want)
	}
}

func TestSchemaMarshalNullableTitle(t *testing.T) {
	s := &Schema{
		Title:    "User",
		Nullable: true,
		AllOf:    []SchemaRef{RefTo("User")},
	}
	got, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"title":"User","nullable":true,"allOf":[{"$ref":"#/components/schemas/User"}]}`
	if string(got) != want {
		t.Errorf("marshal = %s, want %s", got, want)
	}
}

func TestSchemaMarshalCollections(t *testing.T) {
	items := InlineSchema(&Schema{Type: "string"})
	tests := []struct {
		name string
		in   *Schema
		want string
	}{
		{
			"array",
			&Schema{Type: "array", Items: &items},
			`{"type":"array","items":{"type":"string"}}`,
		},
		{
			"map",
			&Schema{Type: "object", AdditionalProperties: &items},
			`{"type":"object","additionalProperties":{"type":"string"}}`,
		},
		{
			"empty inline ref",
			&Schema{Type: "array", AnyOf: []SchemaRef{{}}},
			`{"type":"array","anyOf":[{}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := json.Marshal(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("marshal = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCloneIsolatesMutation(t *testing.T) {
	orig := &Schema{Type: "string"}
	c := orig.Clone()
	c.Nullable = true
	if orig.Nullable {
		t.Error("mutating the clone changed the original")
	}
}
