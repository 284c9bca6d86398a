// internal/llm/providers/gemini/gemini.go
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/Corphon/RepurposeAI/internal/errors"
	"github.com/Corphon/RepurposeAI/internal/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

func init() {
	llm.Register("gemini", func() llm.Provider {
		return &Provider{
			baseURL: defaultBaseURL,
		}
	})
}

// Provider calls the Google Generative Language REST API.
type Provider struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	defaultModel string
}

func (p *Provider) Initialize(config map[string]string) error {
	apiKey, exists := config["api_key"]
	if !exists || apiKey == "" {
		return apperrors.NewFatalProviderError(p.GetName(), "Gemini API key not provided", nil)
	}

	p.apiKey = apiKey
	p.client = &http.Client{}

	if model, exists := config["default_model"]; exists && model != "" {
		p.defaultModel = model
	} else {
		p.defaultModel = "gemini-2.5-flash"
	}

	if baseURL, exists := config["base_url"]; exists && baseURL != "" {
		p.baseURL = baseURL
	}

	return nil
}

func (p *Provider) GetName() string {
	return "Gemini"
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float32  `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	StopSequences   []string `json:"stopSequences,omitempty"`
}

func (p *Provider) CompleteText(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	body := generateContentRequest{
		Contents: []content{
			{Parts: []part{{Text: req.Prompt}}},
		},
	}
	if req.SystemPrompt != "" {
		body.SystemInstruction = &content{Parts: []part{{Text: req.SystemPrompt}}}
	}
	if req.Temperature > 0 || req.MaxTokens > 0 || len(req.StopWords) > 0 {
		body.GenerationConfig = &generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
			StopSequences:   req.StopWords,
		}
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", p.apiKey)

	httpResp, err := p.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return nil, apperrors.NewRetryableError(p.GetName(), "request timed out", err)
		}
		return nil, apperrors.NewRetryableError(p.GetName(), "request failed", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, classifyStatus(p.GetName(), httpResp.StatusCode, respBody)
	}

	var response struct {
		Candidates []struct {
			Content struct {
				Parts []part `json:"parts"`
			} `json:"content"`
			FinishReason string `json:"finishReason"`
		} `json:"candidates"`
		UsageMetadata struct {
			PromptTokenCount     int `json:"promptTokenCount"`
			CandidatesTokenCount int `json:"candidatesTokenCount"`
			TotalTokenCount      int `json:"totalTokenCount"`
		} `json:"usageMetadata"`
	}

	if err := json.NewDecoder(httpResp.Body).Decode(&response); err != nil {
		return nil, apperrors.NewParseError(p.GetName(), "malformed API response", err)
	}

	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return nil, apperrors.NewParseError(p.GetName(), "response contains no candidates", nil)
	}

	var text string
	for _, pt := range response.Candidates[0].Content.Parts {
		text += pt.Text
	}

	return &llm.CompletionResponse{
		Text:         text,
		FinishReason: response.Candidates[0].FinishReason,
		TokensUsed:   response.UsageMetadata.TotalTokenCount,
		PromptTokens: response.UsageMetadata.PromptTokenCount,
		OutputTokens: response.UsageMetadata.CandidatesTokenCount,
		ModelName:    model,
		ProviderName: p.GetName(),
	}, nil
}

// classifyStatus maps an HTTP status to the error taxonomy: credential and
// configuration failures disable the provider; throttling and service
// unavailability are retryable.
func classifyStatus(provider string, status int, body []byte) error {
	msg := fmt.Sprintf("Gemini API error (%d): %s", status, string(body))
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewFatalProviderError(provider, msg, nil)
	case http.StatusBadRequest:
		return apperrors.NewFatalProviderError(provider, msg, nil)
	case http.StatusTooManyRequests, http.StatusServiceUnavailable,
		http.StatusInternalServerError, http.StatusGatewayTimeout:
		return apperrors.NewRetryableError(provider, msg, nil)
	default:
		return apperrors.NewProcessingError(msg, nil)
	}
}

func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	return errors.As(err, &timeoutErr) && timeoutErr.Timeout()
}
