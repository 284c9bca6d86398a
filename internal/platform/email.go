// internal/platform/email.go
package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// EmailClient sends repurposed email snippets through the SendGrid v3 API.
// The text passed to Post is "subject\n\nbody"; the first line becomes the
// email subject.
type EmailClient struct {
	apiKey    string
	fromEmail string
	toEmail   string
	baseURL   string
	client    *http.Client
}

// NewEmailClient creates a SendGrid-backed email client.
func NewEmailClient(apiKey, fromEmail, toEmail string) *EmailClient {
	return &EmailClient{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		toEmail:   toEmail,
		baseURL:   "https://api.sendgrid.com/v3",
		client:    &http.Client{},
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *EmailClient) SetBaseURL(url string) {
	c.baseURL = url
}

func (c *EmailClient) Name() string {
	return "email"
}

func (c *EmailClient) Post(ctx context.Context, text string) (*PostResult, error) {
	subject, body := splitSubject(text)

	payload := map[string]interface{}{
		"personalizations": []map[string]interface{}{
			{"to": []map[string]string{{"email": c.toEmail}}},
		},
		"from":    map[string]string{"email": c.fromEmail},
		"subject": subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": body},
		},
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/mail/send", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("SendGrid error (%d): %s", resp.StatusCode, string(respBody))
	}

	return &PostResult{PostID: resp.Header.Get("X-Message-Id")}, nil
}

func splitSubject(text string) (subject, body string) {
	parts := strings.SplitN(text, "\n", 2)
	subject = strings.TrimSpace(parts[0])
	if subject == "" {
		subject = "New content update"
	}
	if len(parts) == 2 {
		body = strings.TrimSpace(parts[1])
	}
	if body == "" {
		body = subject
	}
	return subject, body
}
