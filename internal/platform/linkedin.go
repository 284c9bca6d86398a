// internal/platform/linkedin.go
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// LinkedInClient posts shares through the LinkedIn v2 API on behalf of the
// authenticated member.
type LinkedInClient struct {
	accessToken string
	baseURL     string
	client      *http.Client

	personID string // resolved lazily on first post
}

// NewLinkedInClient creates a client for the given access token.
func NewLinkedInClient(accessToken string) *LinkedInClient {
	return &LinkedInClient{
		accessToken: accessToken,
		baseURL:     "https://api.linkedin.com/v2",
		client:      &http.Client{},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *LinkedInClient) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *LinkedInClient) Name() string {
	return "linkedin"
}

func (c *LinkedInClient) Post(ctx context.Context, text string) (*PostResult, error) {
	personID, err := c.resolvePersonID(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"owner": fmt.Sprintf("urn:li:person:%s", personID),
		"text":  map[string]string{"text": text},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shares", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting to LinkedIn: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("LinkedIn API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result struct {
		ID       string `json:"id"`
		Activity string `json:"activity"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding LinkedIn response: %w", err)
	}

	return &PostResult{PostID: result.ID, PostURL: result.Activity}, nil
}

// resolvePersonID looks up the member ID the token belongs to. Cached after
// the first successful lookup.
func (c *LinkedInClient) resolvePersonID(ctx context.Context) (string, error) {
	if c.personID != "" {
		return c.personID, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/me", nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("resolving LinkedIn person ID: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("LinkedIn profile lookup failed (%d): %s", resp.StatusCode, string(respBody))
	}

	var profile struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return "", fmt.Errorf("decoding LinkedIn profile: %w", err)
	}
	if profile.ID == "" {
		return "", fmt.Errorf("LinkedIn profile has no ID")
	}

	c.personID = profile.ID
	return c.personID, nil
}
