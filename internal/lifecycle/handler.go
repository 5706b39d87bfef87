// Package lifecycle wraps command execution with timing. Each wrapper
// captures the start time, runs the function and reports the outcome and
// duration to a Handler.
package lifecycle

import (
	"context"
	"time"

	"github.com/gh-release-changelog/gh-release-changelog/internal/logging"
)

// Handler is told about finished commands.
type Handler interface {
	// OnCommandComplete is called when a command finishes.
	// Parameters:
	//   - name: the command name (e.g., "release", "extract", "action")
	//   - success: true if the command returned no error
	//   - duration: how long the command took
	OnCommandComplete(name string, success bool, duration time.Duration)
}

// Run runs fn and reports it to handler. A nil handler is allowed.
func Run(handler Handler, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	if handler != nil {
		handler.OnCommandComplete(name, err == nil, time.Since(start))
	}
	return err
}

// RunWithContext is Run for functions that take a context.
func RunWithContext(ctx context.Context, handler Handler, name string, fn func(context.Context) error) error {
	return Run(handler, name, func() error { return fn(ctx) })
}

// LogHandler reports command durations at debug level.
type LogHandler struct {
	Logger logging.Logger
}

// OnCommandComplete implements Handler.
func (h LogHandler) OnCommandComplete(name string, success bool, duration time.Duration) {
	log := logging.OrNop(h.Logger)
	if success {
		log.Debugf("%s finished in %s", name, duration.Round(time.Millisecond))
		return
	}
	log.Debugf("%s failed after %s", name, duration.Round(time.Millisecond))
}
