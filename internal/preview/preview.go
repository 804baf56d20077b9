// Package preview shows a full-screen enlarged copy of a clicked image.
// At most one overlay exists per page.
package preview

import (
	"context"
	"log"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/page"
	"github.com/ziadkadry99/talkboard/internal/util"
)

const (
	// ImageSelector marks the images that open a preview.
	ImageSelector = ".travel-image"
	// OverlayClass is the class of the overlay element.
	OverlayClass = "image-preview-overlay"

	DefaultPlaceholder = "../home/img/error-img.jpg"
	defaultAlt         = "preview image"
	failedAlt          = "image failed to load"
	maxDimension       = "95%"
)

// State is the preview's open/closed state.
type State int

const (
	Closed State = iota
	Open
)

func (s State) String() string {
	if s == Open {
		return "open"
	}
	return "closed"
}

const overlayStyle = "position: fixed; top: 0; left: 0; width: 100vw; height: 100vh; " +
	"background-color: rgba(0,0,0,0.9); display: flex; justify-content: center; " +
	"align-items: center; z-index: 9999; cursor: pointer; padding: 20px; box-sizing: border-box"

const imageStyle = "max-width: 95%; max-height: 95%; object-fit: contain; transition: transform 0.2s ease"

// Preview is the image preview of one page.
type Preview struct {
	page        *page.Page
	placeholder string
	checker     ImageChecker
	resizeDelay time.Duration

	overlay      *goquery.Selection
	keyListener  page.ListenerID
	overlayClick page.ListenerID
}

// New creates a Preview for p. Call Attach to wire it to the page.
func New(p *page.Page, opts ...Option) *Preview {
	v := &Preview{
		page:        p,
		placeholder: DefaultPlaceholder,
		resizeDelay: util.DefaultDebounce,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Attach marks the previewable images and listens for clicks and resizes.
func (v *Preview) Attach() {
	page.SetStyle(v.page.Document().Find(ImageSelector), "cursor", "zoom-in")

	v.page.On(page.EventClick, ImageSelector, func(ctx context.Context, ev page.Event) error {
		v.open(ctx, ev.Target.Closest(ImageSelector))
		return nil
	})

	fit := v.page.Debounce(v.fit, v.resizeDelay)
	v.page.On(page.EventResize, "", func(ctx context.Context, ev page.Event) error {
		if v.overlay != nil {
			fit()
		}
		return nil
	})
}

// State reports whether an overlay is showing.
func (v *Preview) State() State {
	if v.overlay != nil {
		return Open
	}
	return Closed
}

// Overlay returns the live overlay, or nil when closed.
func (v *Preview) Overlay() *goquery.Selection { return v.overlay }

func (v *Preview) open(ctx context.Context, img *goquery.Selection) {
	if v.overlay != nil {
		v.close()
	}

	src, _ := img.Attr("src")
	alt, _ := img.Attr("alt")
	if alt == "" {
		alt = defaultAlt
	}
	if v.failed(ctx, src) {
		src, alt = v.placeholder, failedAlt
	}

	body := v.page.Document().Find("body")
	body.AppendHtml(`<div class="` + OverlayClass + `"><img></div>`)
	overlay := body.ChildrenFiltered("." + OverlayClass).Last()
	overlay.SetAttr("style", overlayStyle)
	overlay.Find("img").
		SetAttr("src", src).
		SetAttr("alt", alt).
		SetAttr("style", imageStyle)

	v.overlay = overlay
	v.overlayClick = v.page.OnElement(page.EventClick, overlay, func(ctx context.Context, ev page.Event) error {
		v.close()
		return nil
	})
	v.keyListener = v.page.On(page.EventKeyDown, "", func(ctx context.Context, ev page.Event) error {
		if ev.Key == "Escape" {
			v.close()
		}
		return nil
	})
}

func (v *Preview) failed(ctx context.Context, src string) bool {
	if src == "" {
		return true
	}
	if v.checker == nil {
		return false
	}
	if err := v.checker.Check(ctx, src); err != nil {
		log.Printf("preview: %s: %v", src, err)
		return true
	}
	return false
}

func (v *Preview) close() {
	if v.overlay == nil {
		return
	}
	v.overlay.Remove()
	v.overlay = nil
	v.page.Off(v.overlayClick)
	v.page.Off(v.keyListener)
}

func (v *Preview) fit() {
	if v.overlay == nil {
		return
	}
	img := v.overlay.Find("img")
	page.SetStyle(img, "max-width", maxDimension)
	page.SetStyle(img, "max-height", maxDimension)
}
