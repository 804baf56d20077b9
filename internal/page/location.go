package page

import "sync"

// Location is the page's current path. It implements the navigator the
// request interceptor redirects through.
type Location struct {
	mu        sync.Mutex
	path      string
	navigated []string
}

// NewLocation starts at path.
func NewLocation(path string) *Location {
	if path == "" {
		path = "/"
	}
	return &Location{path: path}
}

// CurrentPath returns the path the page is showing.
func (l *Location) CurrentPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.path
}

func (l *Location) setPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.path = path
}

// Navigate leaves the page for target. Further events are not dispatched.
func (l *Location) Navigate(target string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.navigated = append(l.navigated, target)
}

// Navigations returns every target Navigate was called with.
func (l *Location) Navigations() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.navigated))
	copy(out, l.navigated)
	return out
}

// Left reports whether the page has navigated away.
func (l *Location) Left() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.navigated) > 0
}
