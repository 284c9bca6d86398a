// internal/platform/demo.go
package platform

import (
	"context"
	"fmt"
	"sync/atomic"
)

// DemoClient simulates posting for any platform. Selected only through the
// explicit demo-mode flag, never inferred from credential formats.
type DemoClient struct {
	platform string
	counter  atomic.Int64
}

// NewDemoClient creates a simulated client for the named platform.
func NewDemoClient(platform string) *DemoClient {
	return &DemoClient{platform: platform}
}

func (c *DemoClient) Name() string {
	return c.platform
}

// Post pretends to publish and returns a stable, recognizable demo ID.
func (c *DemoClient) Post(ctx context.Context, text string) (*PostResult, error) {
	n := c.counter.Add(1)
	id := fmt.Sprintf("demo_%s_%d", c.platform, n)
	return &PostResult{
		PostID:  id,
		PostURL: fmt.Sprintf("https://demo.local/%s/%s", c.platform, id),
	}, nil
}
