package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const entrySchema = `{
  "type": "object",
  "required": ["items"],
  "properties": {
    "items": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id"],
        "properties": {"id": {"type": "string"}}
      }
    }
  }
}`

func TestSchema_ValidateBytes(t *testing.T) {
	schema := MustCompile(entrySchema)

	tests := []struct {
		name       string
		doc        string
		valid      bool
		errorField string
	}{
		{
			name:  "valid document",
			doc:   `{"items": [{"id": "a"}, {"id": "b"}]}`,
			valid: true,
		},
		{
			name:       "missing root field",
			doc:        `{}`,
			valid:      false,
			errorField: "(root)",
		},
		{
			name:       "wrong item type",
			doc:        `{"items": [{"id": 7}]}`,
			valid:      false,
			errorField: "items.0.id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := schema.ValidateBytes([]byte(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.True(t, result.HasErrors(tt.errorField), "errors: %v", result.GetErrorMessages())
				assert.NotEmpty(t, result.Errors[0].Code)
			}
		})
	}
}

func TestSchema_ValidateBytes_NotJSON(t *testing.T) {
	schema := MustCompile(entrySchema)
	_, err := schema.ValidateBytes([]byte("not json"))
	assert.Error(t, err)
}

func TestSchema_ValidateGo(t *testing.T) {
	schema := MustCompile(entrySchema)
	result, err := schema.ValidateGo(map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"id": "x"}},
	})
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestCompile_InvalidSchema(t *testing.T) {
	_, err := Compile(`{"type": 12}`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustCompile(`{`) })
}

func TestGetErrorsForField(t *testing.T) {
	vr := &ValidationResult{Errors: []ValidationError{
		{Field: "history.0.id", Message: "bad"},
		{Field: "history.1.filters", Message: "bad"},
		{Field: "favorites", Message: "bad"},
	}}

	assert.Len(t, vr.GetErrorsForField("history"), 2)
	assert.Len(t, vr.GetErrorsForField("favorites"), 1)
	assert.Equal(t, []string{"history.0.id: bad", "history.1.filters: bad", "favorites: bad"}, vr.GetErrorMessages())
}
