package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultTimeout bounds a single notification attempt.
const DefaultTimeout = 5 * time.Second

// Dispatcher fires notifications without waiting for them.
type Dispatcher struct {
	notifier Notifier
	logger   *log.Logger
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher wraps n. A nil notifier makes Dispatch a no-op.
func NewDispatcher(n Notifier, logger *log.Logger, timeout time.Duration) *Dispatcher {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{notifier: n, logger: logger, timeout: timeout}
}

// Dispatch starts a notification in its own goroutine and returns immediately.
// Failures are logged at debug level and otherwise ignored.
func (d *Dispatcher) Dispatch(title, body string) {
	if d == nil || d.notifier == nil {
		return
	}
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				d.logger.Debug("notification panicked", "title", title, "panic", fmt.Sprint(r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()
		if err := d.notifier.Notify(ctx, title, body); err != nil {
			d.logger.Debug("notification not shown", "title", title, "err", err)
			return
		}
		d.logger.Debug("notification shown", "title", title)
	}()
}

// Wait blocks until in-flight notifications finish or timeout elapses.
// It reports whether everything finished.
func (d *Dispatcher) Wait(timeout time.Duration) bool {
	if d == nil {
		return true
	}
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
