// Package nav highlights the navigation link for the current page.
package nav

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/page"
)

// LinkSelector finds the navigation links.
const LinkSelector = ".nav-links a"

// Normalize drops a single trailing slash.
func Normalize(p string) string {
	return strings.TrimSuffix(p, "/")
}

// Match reports whether link is the current page or one of its ancestors.
func Match(current, link string) bool {
	current, link = Normalize(current), Normalize(link)
	return current == link || strings.HasPrefix(current, link+"/")
}

// Highlighter marks the active navigation link.
type Highlighter struct {
	Color  string
	Weight string
}

// NewHighlighter returns a Highlighter with the site's accent style.
func NewHighlighter() *Highlighter {
	return &Highlighter{Color: "#ff6b6b", Weight: "700"}
}

// Apply updates every navigation link for currentPath and returns the hrefs
// it marked active. Running it twice gives the same document.
func (h *Highlighter) Apply(doc *goquery.Document, currentPath string) []string {
	var active []string
	doc.Find(LinkSelector).Each(func(_ int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		if Match(currentPath, href) {
			page.SetStyle(link, "color", h.Color)
			page.SetStyle(link, "font-weight", h.Weight)
			link.SetAttr("aria-current", "page")
			active = append(active, href)
			return
		}
		page.SetStyle(link, "color", "")
		page.SetStyle(link, "font-weight", "")
		link.RemoveAttr("aria-current")
	})
	return active
}

// Attach re-runs Apply on load and on every history navigation.
func (h *Highlighter) Attach(p *page.Page) {
	run := func(ctx context.Context, ev page.Event) error {
		h.Apply(p.Document(), p.Location().CurrentPath())
		return nil
	}
	p.On(page.EventLoad, "", run)
	p.On(page.EventPopState, "", run)
}
