// internal/llm/normalize.go
package llm

import (
	"encoding/json"
	"strings"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
)

// Models frequently wrap JSON answers in markdown code fences or
// conversational prose. Normalization is the single place that strips such
// wrapping; everything downstream sees either a typed value or a ParseError.

// ExtractJSON strips code fences and surrounding prose from a model
// response, returning the innermost JSON document candidate.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Fenced block: take the content between the first pair of fences.
	if idx := strings.Index(s, "```"); idx >= 0 {
		s = s[idx+3:]
		// Optional language tag directly after the fence.
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			firstLine := strings.TrimSpace(s[:nl])
			if firstLine == "json" || firstLine == "JSON" {
				s = s[nl+1:]
			}
		}
		if end := strings.Index(s, "```"); end >= 0 {
			s = s[:end]
		}
		s = strings.TrimSpace(s)
	}

	// Prose around the document: cut to the outermost brace/bracket pair.
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	var end int
	if s[start] == '{' {
		end = strings.LastIndexByte(s, '}')
	} else {
		end = strings.LastIndexByte(s, ']')
	}
	if end <= start {
		return s
	}
	return s[start : end+1]
}

// DecodeJSON normalizes a raw model response and unmarshals it into target.
// Any failure is a ParseError attributed to the provider; target is never
// partially populated on error (callers pass a fresh value).
func DecodeJSON(provider, raw string, target interface{}) error {
	doc := ExtractJSON(raw)
	if doc == "" {
		return apperrors.NewParseError(provider, "empty response body", nil)
	}
	if err := json.Unmarshal([]byte(doc), target); err != nil {
		return apperrors.NewParseError(provider, "response is not valid JSON", err)
	}
	return nil
}
