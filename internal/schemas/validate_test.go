package schemas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string"},
		"person": {
			"type": "object",
			"required": ["name"],
			"properties": {"name": {"type": "string"}}
		},
		"tags": {"type": "array", "items": {"type": "string"}}
	}
}`

func TestValidateJSONString_Valid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"name": "test"}`)
	assert.NoError(t, err)
}

func TestValidateJSONString_Invalid(t *testing.T) {
	err := ValidateJSONString(personSchema, `{"age": 30}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Errors: []FieldError{
			{Field: "name", Message: "is required"},
			{Field: "age", Message: "must be a number"},
		},
	}

	errorMsg := err.Error()
	assert.Contains(t, errorMsg, "validation failed")
	assert.Contains(t, errorMsg, "name")
	assert.Contains(t, errorMsg, "age")
	assert.Equal(t, []string{"name", "age"}, err.Fields())
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile("broken", `{"type": 12}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	assert.Equal(t, "broken", loadErr.Name)
	assert.Contains(t, err.Error(), "broken")
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("broken", `not json`) })
}

func TestSchema_Validate(t *testing.T) {
	s := MustCompile("person", personSchema)

	tests := []struct {
		name       string
		doc        string
		wantErr    bool
		wantField  string
		wantLoader bool
	}{
		{name: "valid", doc: `{"name": "a", "tags": ["x"]}`},
		{name: "nested missing field", doc: `{"name": "a", "person": {}}`, wantErr: true, wantField: "person.name"},
		{name: "root missing field", doc: `{"tags": []}`, wantErr: true, wantField: "name"},
		{name: "wrong array item type", doc: `{"name": "a", "tags": [1]}`, wantErr: true, wantField: "tags.0"},
		{name: "root not an object", doc: `[1, 2]`, wantErr: true, wantField: "(root)"},
		{name: "malformed", doc: `{ invalid json }`, wantErr: true, wantLoader: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Validate([]byte(tt.doc))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantLoader {
				var loadErr *SchemaLoadError
				assert.True(t, errors.As(err, &loadErr))
				return
			}
			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Contains(t, validationErr.Fields(), tt.wantField)
		})
	}
}
