package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/page"
)

const homeHTML = `<html><body>
<nav class="nav-links">
  <a href="/home/index.html">Home</a>
  <a href="/talk">Talk</a>
</nav>
<img class="travel-image" src="img/kyoto.jpg" alt="Kyoto">
<img class="travel-image" src="img/missing.jpg">
</body></html>`

type missingChecker map[string]bool

func (m missingChecker) Check(_ context.Context, src string) error {
	if m[src] {
		return errors.New("404")
	}
	return nil
}

func parse(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parsing output: %v", err)
	}
	return doc
}

func TestRenderHighlightsNav(t *testing.T) {
	out, err := Render(context.Background(), strings.NewReader(homeHTML), Options{Path: "/talk/index.html"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parse(t, out)

	talk := doc.Find(`a[href="/talk"]`)
	if v, _ := talk.Attr("aria-current"); v != "page" {
		t.Errorf("talk aria-current = %q, want page", v)
	}
	if _, ok := doc.Find(`a[href="/home/index.html"]`).Attr("aria-current"); ok {
		t.Error("home link should not be current")
	}
	if got := page.GetStyle(doc.Find(".travel-image"), "cursor"); got != "zoom-in" {
		t.Errorf("image cursor = %q, want zoom-in", got)
	}
	if doc.Find(".image-preview-overlay").Length() != 0 {
		t.Error("no overlay expected without a preview click")
	}
}

func TestRenderFadeInCompletes(t *testing.T) {
	out, err := Render(context.Background(), strings.NewReader(homeHTML), Options{
		Path:      "/home/index.html",
		FadeDelay: 10 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := parse(t, out).Find("body")
	if got := page.GetStyle(body, "opacity"); got != "1" {
		t.Errorf("body opacity = %q, want 1", got)
	}
	if got := page.GetStyle(body, "transition"); got != "opacity 0.5s ease-out" {
		t.Errorf("body transition = %q", got)
	}
}

func TestRenderWithoutFadeLeavesBodyStyle(t *testing.T) {
	out, err := Render(context.Background(), strings.NewReader(homeHTML), Options{})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, ok := parse(t, out).Find("body").Attr("style"); ok {
		t.Error("body should carry no style when fade is disabled")
	}
}

func TestRenderPreviewClick(t *testing.T) {
	out, err := Render(context.Background(), strings.NewReader(homeHTML), Options{
		Path:        "/home/index.html",
		Preview:     2,
		Placeholder: "/img/error.jpg",
		Checker:     missingChecker{"img/missing.jpg": true},
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	doc := parse(t, out)
	overlays := doc.Find(".image-preview-overlay")
	if overlays.Length() != 1 {
		t.Fatalf("overlays = %d, want 1", overlays.Length())
	}
	img := overlays.Find("img")
	if src, _ := img.Attr("src"); src != "/img/error.jpg" {
		t.Errorf("preview src = %q, want placeholder", src)
	}
	if alt, _ := img.Attr("alt"); alt != "image failed to load" {
		t.Errorf("preview alt = %q, want %q", alt, "image failed to load")
	}
}

func TestRenderPreviewOutOfRange(t *testing.T) {
	_, err := Render(context.Background(), strings.NewReader(homeHTML), Options{Preview: 3})
	if err == nil {
		t.Fatal("expected error for missing image index")
	}
}

func TestRenderCanceledDuringFade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Render(ctx, strings.NewReader(homeHTML), Options{FadeDelay: time.Second})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte(homeHTML), 0o644); err != nil {
		t.Fatalf("writing page: %v", err)
	}
	out, err := File(context.Background(), path, Options{Path: "/home/"})
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if v, _ := parse(t, out).Find(`a[href="/home/index.html"]`).Attr("aria-current"); v == "page" {
		t.Error("/home/ should not match /home/index.html")
	}

	if _, err := File(context.Background(), filepath.Join(t.TempDir(), "missing.html"), Options{}); err == nil {
		t.Error("expected error for missing file")
	}
}
