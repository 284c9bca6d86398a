// internal/llm/providers/gemini/gemini_test.go
package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/llm"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc) *Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider := &Provider{baseURL: server.URL}
	require.NoError(t, provider.Initialize(map[string]string{
		"api_key":  "test-key",
		"base_url": server.URL,
	}))
	return provider
}

func TestInitializeRequiresAPIKey(t *testing.T) {
	provider := &Provider{}
	err := provider.Initialize(map[string]string{})
	require.Error(t, err)
	assert.True(t, apperrors.IsFatalProvider(err))
}

func TestCompleteTextSuccess(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))

		var req generateContentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Contents, 1)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content":      map[string]interface{}{"parts": []map[string]string{{"text": `{"ok": true}`}}},
					"finishReason": "STOP",
				},
			},
			"usageMetadata": map[string]int{
				"promptTokenCount":     10,
				"candidatesTokenCount": 5,
				"totalTokenCount":      15,
			},
		})
	})

	resp, err := provider.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "analyze this"})
	require.NoError(t, err)
	assert.Equal(t, `{"ok": true}`, resp.Text)
	assert.Equal(t, 15, resp.TokensUsed)
	assert.Equal(t, "Gemini", resp.ProviderName)
}

func TestCompleteTextRateLimitIsRetryable(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := provider.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestCompleteTextUnauthorizedIsFatal(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	})

	_, err := provider.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsFatalProvider(err))
}

func TestCompleteTextEmptyCandidatesIsParseError(t *testing.T) {
	provider := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates": []}`))
	})

	_, err := provider.CompleteText(context.Background(), llm.CompletionRequest{Prompt: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}

func TestProviderIsRegistered(t *testing.T) {
	assert.Contains(t, llm.ListProviders(), "gemini")
}
