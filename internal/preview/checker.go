package preview

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// ImageChecker reports whether an image source can be loaded.
type ImageChecker interface {
	Check(ctx context.Context, src string) error
}

// HTTPChecker loads images with a HEAD request resolved against Base.
type HTTPChecker struct {
	Client *http.Client
	Base   *url.URL
}

// Check implements ImageChecker.
func (c *HTTPChecker) Check(ctx context.Context, src string) error {
	ref, err := url.Parse(src)
	if err != nil {
		return fmt.Errorf("parsing image url: %w", err)
	}
	target := ref
	if c.Base != nil {
		target = c.Base.ResolveReference(ref)
	}
	if target.Scheme != "http" && target.Scheme != "https" {
		return fmt.Errorf("unsupported image url %q", target)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("loading image: %w", err)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("loading image: status %d", resp.StatusCode)
	}
	return nil
}
