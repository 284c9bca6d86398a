// internal/llm/providers/huggingface/huggingface_test.go
package huggingface

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient("hf-test-key")
	require.NoError(t, err)
	client.SetBaseURL(server.URL)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.True(t, apperrors.IsFatalProvider(err))
}

func TestClassifyNestedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-test-key", r.Header.Get("Authorization"))
		w.Write([]byte(`[[{"label":"positive","score":0.91},{"label":"neutral","score":0.07}]]`))
	})

	scores, err := client.Classify(context.Background(), "some/model", "great news")
	require.NoError(t, err)
	require.Len(t, scores, 2)
	assert.Equal(t, "positive", scores[0].Label)
	assert.InDelta(t, 0.91, scores[0].Score, 0.001)
}

func TestClassifyFlatResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"label":"LABEL_0","score":0.8}]`))
	})

	scores, err := client.Classify(context.Background(), "some/model", "bad news")
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "LABEL_0", scores[0].Label)
}

func TestClassifyWarmUpIsRetryable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Model is currently loading","estimated_time":20}`, http.StatusServiceUnavailable)
	})

	_, err := client.Classify(context.Background(), "some/model", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsRetryable(err))
}

func TestClassifyUnauthorizedIsFatal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid token", http.StatusUnauthorized)
	})

	_, err := client.Classify(context.Background(), "some/model", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsFatalProvider(err))
}

func TestClassifyGarbageIsParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`"unexpected"`))
	})

	_, err := client.Classify(context.Background(), "some/model", "text")
	require.Error(t, err)
	assert.True(t, apperrors.IsParseError(err))
}

func TestNormalizeSentiment(t *testing.T) {
	assert.Equal(t, "negative", NormalizeSentiment("LABEL_0"))
	assert.Equal(t, "neutral", NormalizeSentiment("LABEL_1"))
	assert.Equal(t, "positive", NormalizeSentiment("LABEL_2"))
	assert.Equal(t, "positive", NormalizeSentiment("POSITIVE"))
	assert.Equal(t, "negative", NormalizeSentiment("neg"))
	assert.Equal(t, "neutral", NormalizeSentiment("something_else"))
}
