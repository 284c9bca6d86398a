// internal/platform/client.go
package platform

import "context"

// PostResult identifies a successfully delivered post.
type PostResult struct {
	PostID  string `json:"post_id"`
	PostURL string `json:"post_url,omitempty"`
}

// Client delivers one piece of text to an external platform.
type Client interface {
	// Name returns the platform identifier (linkedin, twitter, ...).
	Name() string

	// Post publishes the text and returns the platform's post identity.
	Post(ctx context.Context, text string) (*PostResult, error)
}
