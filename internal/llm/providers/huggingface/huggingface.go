// internal/llm/providers/huggingface/huggingface.go
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
)

const defaultBaseURL = "https://api-inference.huggingface.co/models"

const providerName = "HuggingFace"

// ClassScore is a single label prediction from a classification model.
type ClassScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Client calls the Hugging Face Inference API. It is classification-shaped
// rather than completion-shaped, so it lives outside the text-generation
// provider registry and is consumed directly by its processor.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates an inference client. Returns a fatal provider error when
// the API key is missing so the caller can disable the provider up front.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, apperrors.NewFatalProviderError(providerName, "HuggingFace API key not provided", nil)
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  &http.Client{},
	}, nil
}

// SetBaseURL overrides the inference endpoint, used by tests.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}

// Classify runs the text through the given classification model and returns
// predictions sorted as the API delivers them (highest score first).
func (c *Client) Classify(ctx context.Context, model, text string) ([]ClassScore, error) {
	payload, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s", c.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, apperrors.NewRetryableError(providerName, "inference request timed out", err)
		}
		return nil, apperrors.NewRetryableError(providerName, "inference request failed", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, apperrors.NewRetryableError(providerName, "failed to read inference response", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, classifyStatus(httpResp.StatusCode, body)
	}

	return decodeScores(body)
}

// decodeScores handles both response shapes the API produces: a flat list of
// predictions, or a list nested one level per input.
func decodeScores(body []byte) ([]ClassScore, error) {
	var nested [][]ClassScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	var flat []ClassScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return flat, nil
	}

	return nil, apperrors.NewParseError(providerName, "unrecognized classification response", nil)
}

// classifyStatus maps inference API failures onto the error taxonomy. A 503
// means the model is still loading onto an inference worker, which resolves
// on its own and is therefore retryable.
func classifyStatus(status int, body []byte) error {
	msg := fmt.Sprintf("HuggingFace API error (%d): %s", status, string(body))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewFatalProviderError(providerName, msg, nil)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return apperrors.NewRetryableError(providerName, msg, nil)
	default:
		return apperrors.NewProcessingError(msg, nil)
	}
}

// NormalizeSentiment maps classifier label conventions onto the canonical
// sentiment values. cardiffnlp models emit LABEL_0/1/2, others emit
// lowercase or uppercase words.
func NormalizeSentiment(label string) string {
	switch strings.ToLower(label) {
	case "label_0", "negative", "neg":
		return "negative"
	case "label_1", "neutral":
		return "neutral"
	case "label_2", "positive", "pos":
		return "positive"
	default:
		return "neutral"
	}
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
