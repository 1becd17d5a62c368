// Package watchdog implements one concurrent element: a single
// background timer task armed at pipeline start, which aborts the
// process with a fatal diagnostic if the main thread doesn't signal
// completion before the deadline — a defense against pathological
// inputs a cycle check might still miss.
//
// Arm returns a func() that must run on every exit path, the same
// scoped defer-the-cancel idiom used around context.WithTimeout.
package watchdog

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Watchdog arms a timeout and exits the process if it fires before the
// done func returned by Arm is called.
type Watchdog struct {
	cancel  context.CancelFunc
	done    chan struct{}
	timeout time.Duration
}

// Arm starts the timer. The returned done func must be called on every
// exit path (success or error); calls after the first do nothing — a scoped helper, not a
// suggestion, since a missed call would leave the timer running after
// the process believes it has finished.
func Arm(timeout time.Duration) (w *Watchdog, done func()) {
	ctx, cancel := context.WithCancel(context.Background())
	w = &Watchdog{cancel: cancel, done: make(chan struct{}), timeout: timeout}

	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(timeout):
			fmt.Fprintf(os.Stderr, "chtl: Timeout: compilation exceeded %s, aborting\n", timeout)
			os.Exit(124)
		}
	}()

	var once bool
	return w, func() {
		if once {
			return
		}
		once = true
		w.cancel()
		close(w.done)
	}
}

// Run arms a watchdog for the duration of fn, guaranteeing the armed
// timer is canceled on every return path, a panic included, since the
// deferred done() call runs during panic unwinding regardless.
func Run(timeout time.Duration, fn func() error) error {
	_, done := Arm(timeout)
	defer done()
	return fn()
}
