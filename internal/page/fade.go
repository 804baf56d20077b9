package page

import (
	"context"
	"time"
)

// DefaultFadeDelay is how long the body stays transparent after load.
const DefaultFadeDelay = 100 * time.Millisecond

// AttachFadeIn hides the body on load and fades it in after delay.
func AttachFadeIn(p *Page, delay time.Duration) ListenerID {
	if delay <= 0 {
		delay = DefaultFadeDelay
	}
	return p.On(EventLoad, "", func(ctx context.Context, ev Event) error {
		body := p.doc.Find("body")
		SetStyle(body, "opacity", "0")
		SetStyle(body, "transition", "opacity 0.5s ease-out")
		p.After(delay, func() {
			SetStyle(body, "opacity", "1")
		})
		return nil
	})
}
