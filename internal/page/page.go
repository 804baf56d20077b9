// Package page hosts the client scripts against an HTML document: it owns
// the parsed document, the location, and the event listeners, and it is
// torn down with Close at the end of the page session.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/ziadkadry99/talkboard/internal/util"
)

// Event types dispatched by Page.
const (
	EventLoad     = "load"
	EventPopState = "popstate"
	EventClick    = "click"
	EventKeyDown  = "keydown"
	EventResize   = "resize"
)

// Event is one dispatched event. Target is nil for window-level events.
type Event struct {
	Type   string
	Target *goquery.Selection
	Key    string
}

// Handler reacts to an event. Handlers run with the document locked and
// must not call Dispatch themselves.
type Handler func(ctx context.Context, ev Event) error

// ListenerID identifies a registered listener for Off.
type ListenerID int

type listener struct {
	id       ListenerID
	typ      string
	selector string
	element  *goquery.Selection
	fn       Handler
}

// Page is a loaded document plus its listeners.
type Page struct {
	doc *goquery.Document
	loc *Location

	// mu guards the document; handlers and timer callbacks hold it.
	mu sync.Mutex

	lmu       sync.Mutex
	listeners []listener
	nextID    ListenerID
	closers   []func()
	closed    bool
}

// New wraps an already parsed document served at path.
func New(doc *goquery.Document, path string) *Page {
	return &Page{doc: doc, loc: NewLocation(path)}
}

// Parse reads an HTML document served at path.
func Parse(r io.Reader, path string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	return New(doc, path), nil
}

// Document returns the underlying document. Outside handlers use View.
func (p *Page) Document() *goquery.Document { return p.doc }

// Location returns the page location.
func (p *Page) Location() *Location { return p.loc }

// View runs fn with the document locked.
func (p *Page) View(fn func(doc *goquery.Document)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(p.doc)
}

// HTML renders the current document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}

// On registers fn for events of typ. A non-empty selector limits it to
// targets matching the selector or inside a matching element.
func (p *Page) On(typ, selector string, fn Handler) ListenerID {
	return p.add(listener{typ: typ, selector: selector, fn: fn})
}

// OnElement registers fn for events of typ targeting el or its descendants.
func (p *Page) OnElement(typ string, el *goquery.Selection, fn Handler) ListenerID {
	return p.add(listener{typ: typ, element: el, fn: fn})
}

func (p *Page) add(l listener) ListenerID {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	p.nextID++
	l.id = p.nextID
	p.listeners = append(p.listeners, l)
	return l.id
}

// Off removes a listener. Unknown ids are ignored.
func (p *Page) Off(id ListenerID) {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	for i, l := range p.listeners {
		if l.id == id {
			p.listeners = append(p.listeners[:i], p.listeners[i+1:]...)
			return
		}
	}
}

// Listeners reports how many listeners of typ are registered.
func (p *Page) Listeners(typ string) int {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	n := 0
	for _, l := range p.listeners {
		if l.typ == typ {
			n++
		}
	}
	return n
}

func (p *Page) registered(id ListenerID) bool {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	for _, l := range p.listeners {
		if l.id == id {
			return true
		}
	}
	return false
}

func (l listener) matches(ev Event) bool {
	if l.typ != ev.Type {
		return false
	}
	if l.selector == "" && l.element == nil {
		return true
	}
	if ev.Target == nil || ev.Target.Length() == 0 {
		return false
	}
	if l.element != nil {
		return ev.Target.ClosestSelection(l.element).Length() > 0
	}
	return ev.Target.Closest(l.selector).Length() > 0
}

// Dispatch runs the matching listeners in registration order. Listeners
// added during dispatch wait for the next event; listeners removed during
// dispatch do not run. Handler errors are logged as unhandled and returned
// joined. Once the location has navigated away nothing runs.
func (p *Page) Dispatch(ctx context.Context, ev Event) error {
	p.lmu.Lock()
	if p.closed {
		p.lmu.Unlock()
		return nil
	}
	snapshot := make([]listener, len(p.listeners))
	copy(snapshot, p.listeners)
	p.lmu.Unlock()

	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for _, l := range snapshot {
		if p.loc.Left() {
			break
		}
		if !l.matches(ev) || !p.registered(l.id) {
			continue
		}
		if err := l.fn(ctx, ev); err != nil {
			log.Printf("page: unhandled error in %s listener: %v", ev.Type, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Load fires the load event.
func (p *Page) Load(ctx context.Context) error {
	return p.Dispatch(ctx, Event{Type: EventLoad})
}

// PopState moves the location to path and fires popstate.
func (p *Page) PopState(ctx context.Context, path string) error {
	p.loc.setPath(path)
	return p.Dispatch(ctx, Event{Type: EventPopState})
}

// Click fires a click on target.
func (p *Page) Click(ctx context.Context, target *goquery.Selection) error {
	return p.Dispatch(ctx, Event{Type: EventClick, Target: target})
}

// KeyDown fires a document-level keydown.
func (p *Page) KeyDown(ctx context.Context, key string) error {
	return p.Dispatch(ctx, Event{Type: EventKeyDown, Key: key})
}

// Resize fires a viewport resize.
func (p *Page) Resize(ctx context.Context) error {
	return p.Dispatch(ctx, Event{Type: EventResize})
}

// After runs fn with the document locked once delay has passed, unless the
// page is closed first.
func (p *Page) After(delay time.Duration, fn func()) {
	t := time.AfterFunc(delay, p.locked(fn))
	p.OnClose(func() { t.Stop() })
}

// Debounce returns a debounced fn that runs with the document locked and
// is cancelled by Close.
func (p *Page) Debounce(fn func(), delay time.Duration) func() {
	call, stop := util.Debounce(p.locked(fn), delay)
	p.OnClose(stop)
	return call
}

func (p *Page) locked(fn func()) func() {
	return func() {
		p.lmu.Lock()
		closed := p.closed
		p.lmu.Unlock()
		if closed {
			return
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		fn()
	}
}

// OnClose registers fn to run at Close.
func (p *Page) OnClose(fn func()) {
	p.lmu.Lock()
	defer p.lmu.Unlock()
	p.closers = append(p.closers, fn)
}

// Close ends the page session: pending timers stop and listeners are dropped.
func (p *Page) Close() {
	p.lmu.Lock()
	if p.closed {
		p.lmu.Unlock()
		return
	}
	p.closed = true
	closers := p.closers
	p.closers = nil
	p.listeners = nil
	p.lmu.Unlock()

	for _, fn := range closers {
		fn()
	}
}
