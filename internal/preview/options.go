package preview

import "time"

// Option configures a Preview.
type Option func(*Preview)

// WithPlaceholder sets the image shown when the original fails to load.
func WithPlaceholder(src string) Option {
	return func(v *Preview) {
		v.placeholder = src
	}
}

// WithChecker sets how image sources are checked before display.
func WithChecker(c ImageChecker) Option {
	return func(v *Preview) {
		v.checker = c
	}
}

// WithResizeDelay sets the debounce delay for viewport resizes.
func WithResizeDelay(d time.Duration) Option {
	return func(v *Preview) {
		v.resizeDelay = d
	}
}
