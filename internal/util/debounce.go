package util

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay Debounce uses when given none.
const DefaultDebounce = 300 * time.Millisecond

// Debounce returns call, which runs fn once delay has passed without
// another call, and stop, which cancels a pending run and disables call.
func Debounce(fn func(), delay time.Duration) (call func(), stop func()) {
	if delay <= 0 {
		delay = DefaultDebounce
	}

	var (
		mu      sync.Mutex
		timer   *time.Timer
		stopped bool
	)

	call = func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, fn)
	}

	stop = func() {
		mu.Lock()
		defer mu.Unlock()
		stopped = true
		if timer != nil {
			timer.Stop()
		}
	}
	return call, stop
}
