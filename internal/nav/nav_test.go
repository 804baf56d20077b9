package nav

import (
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/page"
)

func TestMatch(t *testing.T) {
	tests := []struct {
		current, link string
		want          bool
	}{
		{"/talk", "/talk", true},
		{"/talk/", "/talk", true},
		{"/talk", "/talk/", true},
		{"/talk/index.html", "/talk", true},
		{"/talk/2024/trip", "/talk/", true},
		{"/talkative", "/talk", false},
		{"/home", "/talk", false},
		{"/", "/talk", false},
		{"/talk", "/talk/index.html", false},
	}
	for _, tt := range tests {
		if got := Match(tt.current, tt.link); got != tt.want {
			t.Errorf("Match(%q, %q) = %v, want %v", tt.current, tt.link, got, tt.want)
		}
	}
}

const navHTML = `<html><body><nav class="nav-links">
<a href="/home/">Home</a>
<a href="/travel">Travel</a>
<a href="/talk/" style="color: #ff6b6b; font-weight: 700; margin: 0 4px" aria-current="page">Talk</a>
<a>No href</a>
</nav><a href="/travel">outside</a></body></html>`

func parse(t *testing.T) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(navHTML))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc
}

func TestApplyMarksOnlyMatchingLink(t *testing.T) {
	doc := parse(t)
	h := NewHighlighter()

	active := h.Apply(doc, "/travel/japan/")
	if len(active) != 1 || active[0] != "/travel" {
		t.Fatalf("active = %v, want [/travel]", active)
	}

	travel := doc.Find(`.nav-links a[href="/travel"]`)
	if v, _ := travel.Attr("aria-current"); v != "page" {
		t.Errorf("aria-current = %q, want page", v)
	}
	if got := page.GetStyle(travel, "color"); got != "#ff6b6b" {
		t.Errorf("color = %q, want #ff6b6b", got)
	}

	talk := doc.Find(`.nav-links a[href="/talk/"]`)
	if _, ok := talk.Attr("aria-current"); ok {
		t.Error("stale aria-current should be cleared")
	}
	if style, _ := talk.Attr("style"); style != "margin: 0 4px" {
		t.Errorf("talk style = %q, want only unrelated declarations kept", style)
	}

	outside := doc.Find("body > a")
	if _, ok := outside.Attr("aria-current"); ok {
		t.Error("links outside .nav-links must not be touched")
	}
}

func TestApplyIsIdempotent(t *testing.T) {
	doc := parse(t)
	h := NewHighlighter()

	h.Apply(doc, "/home")
	first, _ := doc.Html()
	h.Apply(doc, "/home")
	second, _ := doc.Html()

	if first != second {
		t.Error("second Apply changed the document")
	}
}

func TestAttachFollowsHistory(t *testing.T) {
	p, err := page.Parse(strings.NewReader(navHTML), "/home/index.html")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	defer p.Close()
	NewHighlighter().Attach(p)
	ctx := context.Background()

	if err := p.Load(ctx); err != nil {
		t.Fatalf("Load: %v", err)
	}
	current := func() string {
		href, _ := p.Document().Find(`.nav-links a[aria-current="page"]`).Attr("href")
		return href
	}
	if got := current(); got != "/home/" {
		t.Errorf("active after load = %q, want /home/", got)
	}

	if err := p.PopState(ctx, "/talk"); err != nil {
		t.Fatalf("PopState: %v", err)
	}
	if got := current(); got != "/talk/" {
		t.Errorf("active after popstate = %q, want /talk/", got)
	}
}
