// internal/llm/normalize_test.go
package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
)

func TestExtractJSONPlainDocument(t *testing.T) {
	assert.Equal(t, `{"a":1}`, ExtractJSON(`{"a":1}`))
	assert.Equal(t, `[1,2,3]`, ExtractJSON(`[1,2,3]`))
}

func TestExtractJSONFencedBlock(t *testing.T) {
	raw := "```json\n{\"main_theme\": \"x\"}\n```"
	assert.Equal(t, `{"main_theme": "x"}`, ExtractJSON(raw))

	noTag := "```\n{\"a\": 1}\n```"
	assert.Equal(t, `{"a": 1}`, ExtractJSON(noTag))
}

func TestExtractJSONSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n{\"a\": 1}\nLet me know if you need anything else."
	assert.Equal(t, `{"a": 1}`, ExtractJSON(raw))

	arr := "The ranking is: [2, 1] as requested."
	assert.Equal(t, `[2, 1]`, ExtractJSON(arr))
}

func TestExtractJSONFencedWithProse(t *testing.T) {
	raw := "Here you go:\n```json\n{\"a\": {\"b\": 2}}\n```\nHope that helps!"
	assert.Equal(t, `{"a": {"b": 2}}`, ExtractJSON(raw))
}

func TestDecodeJSONSuccess(t *testing.T) {
	var target struct {
		MainTheme string `json:"main_theme"`
	}
	err := DecodeJSON("Gemini", "```json\n{\"main_theme\": \"AI\"}\n```", &target)
	require.NoError(t, err)
	assert.Equal(t, "AI", target.MainTheme)
}

func TestDecodeJSONInvalidIsParseError(t *testing.T) {
	var target map[string]interface{}

	err := DecodeJSON("Gemini", "I could not produce JSON for that.", &target)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))

	err = DecodeJSON("Gemini", "", &target)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))

	err = DecodeJSON("Gemini", `{"unterminated": `, &target)
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}
