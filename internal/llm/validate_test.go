package llm

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pollSchema() *Schema {
	return &Schema{
		Name:        "test-poll",
		Description: "A poll with a fixed number of answers",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"title": map[string]any{"type": "string"},
				"answers": map[string]any{
					"type":     "array",
					"items":    map[string]any{"type": "string"},
					"minItems": 2,
					"maxItems": 2,
				},
				"votes": map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"title", "answers"},
		},
	}
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"title":"Tabs?","answers":["yes","no"],"votes":3}`, false},
		{"optional omitted", `{"title":"Tabs?","answers":["yes","no"]}`, false},
		{"extra keys allowed", `{"title":"Tabs?","answers":["yes","no"],"x":1}`, false},
		{"empty strings allowed", `{"title":"","answers":["",""]}`, false},
		{"missing required", `{"title":"Tabs?"}`, true},
		{"too few items", `{"title":"Tabs?","answers":["yes"]}`, true},
		{"too many items", `{"title":"Tabs?","answers":["a","b","c"]}`, true},
		{"wrong item type", `{"title":"Tabs?","answers":[1,2]}`, true},
		{"negative integer", `{"title":"Tabs?","answers":["a","b"],"votes":-1}`, true},
		{"malformed", `{not json}`, true},
		{"trailing data", `{"title":"Tabs?","answers":["a","b"]} extra`, true},
		{"empty", ``, true},
		{"top-level array", `["a","b"]`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateJSON(pollSchema(), json.RawMessage(tt.raw))
			if !tt.wantErr {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			var invErr *ErrInvalidResponse
			require.True(t, errors.As(err, &invErr), "expected ErrInvalidResponse, got %T", err)
			assert.Equal(t, tt.raw, string(invErr.Content))
		})
	}
}

func TestValidateJSON_NilSchema(t *testing.T) {
	require.NoError(t, ValidateJSON(nil, json.RawMessage(`not even json`)))
}

func TestValidateJSON_CachesCompiledSchema(t *testing.T) {
	s := pollSchema()
	s.Name = "test-poll-cache"

	require.NoError(t, ValidateJSON(s, json.RawMessage(`{"title":"a","answers":["b","c"]}`)))
	_, ok := compiled.Load(s.Name)
	assert.True(t, ok, "compiled schema should be cached by name")
}

func TestValidateJSON_BadSchema(t *testing.T) {
	s := &Schema{
		Name:       "test-broken",
		Definition: map[string]any{"type": 42},
	}
	err := ValidateJSON(s, json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "compile schema")
}
