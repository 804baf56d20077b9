// Package render runs a site page through the client-side behaviours
// (navigation highlight, fade-in and image preview) and returns the
// resulting document.
package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/nav"
	"github.com/ziadkadry99/talkboard/internal/page"
	"github.com/ziadkadry99/talkboard/internal/preview"
)

// settle is added to the fade delay before the document is serialized.
const settle = 50 * time.Millisecond

// Options controls one render.
type Options struct {
	Path        string               // location path the page is served at
	Preview     int                  // 1-based .travel-image to click, 0 for none
	FadeDelay   time.Duration        // 0 disables the fade-in
	Placeholder string               // preview fallback image, preview default when empty
	Checker     preview.ImageChecker // nil accepts every image
	ResizeDelay time.Duration        // preview resize debounce, default when 0
}

// File renders the HTML page stored at file.
func File(ctx context.Context, file string, opts Options) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()
	return Render(ctx, f, opts)
}

// Render parses r, fires load, optionally opens a preview and returns the HTML.
func Render(ctx context.Context, r io.Reader, opts Options) (string, error) {
	path := opts.Path
	if path == "" {
		path = "/"
	}
	p, err := page.Parse(r, path)
	if err != nil {
		return "", err
	}
	defer p.Close()

	nav.NewHighlighter().Attach(p)
	if opts.FadeDelay > 0 {
		page.AttachFadeIn(p, opts.FadeDelay)
	}

	var previewOpts []preview.Option
	if opts.Placeholder != "" {
		previewOpts = append(previewOpts, preview.WithPlaceholder(opts.Placeholder))
	}
	if opts.Checker != nil {
		previewOpts = append(previewOpts, preview.WithChecker(opts.Checker))
	}
	if opts.ResizeDelay > 0 {
		previewOpts = append(previewOpts, preview.WithResizeDelay(opts.ResizeDelay))
	}
	preview.New(p, previewOpts...).Attach()

	if err := p.Load(ctx); err != nil {
		return "", fmt.Errorf("page load: %w", err)
	}
	if opts.FadeDelay > 0 {
		select {
		case <-time.After(opts.FadeDelay + settle):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	if opts.Preview > 0 {
		var target *goquery.Selection
		p.View(func(doc *goquery.Document) {
			target = doc.Find(preview.ImageSelector).Eq(opts.Preview - 1)
		})
		if target.Length() == 0 {
			return "", fmt.Errorf("page has no %s at index %d", preview.ImageSelector, opts.Preview)
		}
		if err := p.Click(ctx, target); err != nil {
			return "", fmt.Errorf("clicking image %d: %w", opts.Preview, err)
		}
	}

	return p.HTML()
}
