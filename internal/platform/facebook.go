// internal/platform/facebook.go
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// FacebookClient posts to a page feed through the Graph API.
type FacebookClient struct {
	pageAccessToken string
	pageID          string
	baseURL         string
	client          *http.Client
}

// NewFacebookClient creates a client for the given page token and ID.
func NewFacebookClient(pageAccessToken, pageID string) *FacebookClient {
	return &FacebookClient{
		pageAccessToken: pageAccessToken,
		pageID:          pageID,
		baseURL:         "https://graph.facebook.com/v18.0",
		client:          &http.Client{},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *FacebookClient) SetBaseURL(u string) {
	c.baseURL = u
}

func (c *FacebookClient) Name() string {
	return "facebook"
}

func (c *FacebookClient) Post(ctx context.Context, text string) (*PostResult, error) {
	form := url.Values{}
	form.Set("message", text)
	form.Set("access_token", c.pageAccessToken)

	endpoint := fmt.Sprintf("%s/%s/feed", c.baseURL, c.pageID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to Facebook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Facebook API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding Facebook response: %w", err)
	}

	return &PostResult{
		PostID:  result.ID,
		PostURL: fmt.Sprintf("https://www.facebook.com/%s", result.ID),
	}, nil
}
