// internal/platform/twitter.go
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// TwitterClient posts tweets through the Twitter v2 API.
type TwitterClient struct {
	bearerToken string
	baseURL     string
	client      *http.Client
}

// NewTwitterClient creates a client for the given bearer token.
func NewTwitterClient(bearerToken string) *TwitterClient {
	return &TwitterClient{
		bearerToken: bearerToken,
		baseURL:     "https://api.twitter.com/2",
		client:      &http.Client{},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *TwitterClient) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *TwitterClient) Name() string {
	return "twitter"
}

func (c *TwitterClient) Post(ctx context.Context, text string) (*PostResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting tweet: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Twitter API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding Twitter response: %w", err)
	}

	return &PostResult{
		PostID:  result.Data.ID,
		PostURL: fmt.Sprintf("https://twitter.com/i/status/%s", result.Data.ID),
	}, nil
}
