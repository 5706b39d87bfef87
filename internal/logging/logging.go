// Package logging provides the small leveled logger shared by the extraction,
// aggregation and publish code paths.
//
// Two sinks are provided: a colored console logger for interactive use and a
// GitHub Actions logger that emits workflow commands so warnings show up as
// annotations on the run.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Logger is implemented by every sink in this package.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// ConsoleOptions configures NewConsole.
type ConsoleOptions struct {
	// Quiet suppresses info messages. Warnings and errors are always written.
	Quiet bool
	// Debug enables debug messages.
	Debug bool
	// NoColor disables colored labels regardless of terminal detection.
	NoColor bool
}

// Console writes human readable, optionally colored lines.
type Console struct {
	mu   sync.Mutex
	w    io.Writer
	opts ConsoleOptions

	debugLabel func(a ...any) string
	warnLabel  func(a ...any) string
	errorLabel func(a ...any) string
}

// NewConsole returns a console logger writing to w (os.Stderr when nil).
func NewConsole(w io.Writer, opts ConsoleOptions) *Console {
	if w == nil {
		w = os.Stderr
	}
	c := &Console{
		w:          w,
		opts:       opts,
		debugLabel: color.New(color.Faint).SprintFunc(),
		warnLabel:  color.New(color.FgYellow, color.Bold).SprintFunc(),
		errorLabel: color.New(color.FgRed, color.Bold).SprintFunc(),
	}
	if opts.NoColor {
		plain := fmt.Sprint
		c.debugLabel, c.warnLabel, c.errorLabel = plain, plain, plain
	}
	return c
}

func (c *Console) Debugf(format string, args ...any) {
	if !c.opts.Debug {
		return
	}
	c.write(c.debugLabel("[debug]")+" ", format, args...)
}

func (c *Console) Infof(format string, args ...any) {
	if c.opts.Quiet {
		return
	}
	c.write("", format, args...)
}

func (c *Console) Warnf(format string, args ...any) {
	c.write(c.warnLabel("Warning:")+" ", format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	c.write(c.errorLabel("Error:")+" ", format, args...)
}

func (c *Console) write(prefix, format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(c.w, prefix+strings.TrimRight(msg, "\n"))
}

// Actions emits GitHub Actions workflow commands.
// See https://docs.github.com/actions/using-workflows/workflow-commands-for-github-actions
type Actions struct {
	mu sync.Mutex
	w  io.Writer
}

// NewActions returns a workflow-command logger writing to w (os.Stdout when nil).
func NewActions(w io.Writer) *Actions {
	if w == nil {
		w = os.Stdout
	}
	return &Actions{w: w}
}

func (a *Actions) Debugf(format string, args ...any) { a.command("debug", format, args...) }

func (a *Actions) Infof(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintln(a.w, fmt.Sprintf(format, args...))
}

func (a *Actions) Warnf(format string, args ...any)  { a.command("warning", format, args...) }
func (a *Actions) Errorf(format string, args ...any) { a.command("error", format, args...) }

func (a *Actions) command(name, format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	fmt.Fprintf(a.w, "::%s::%s\n", name, escapeData(fmt.Sprintf(format, args...)))
}

// escapeData applies the workflow command data escaping rules.
func escapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	return strings.ReplaceAll(s, "\n", "%0A")
}

type nop struct{}

func (nop) Debugf(string, ...any) {}
func (nop) Infof(string, ...any)  {}
func (nop) Warnf(string, ...any)  {}
func (nop) Errorf(string, ...any) {}

// Nop returns a logger that discards everything.
func Nop() Logger { return nop{} }

// OrNop returns l, or a discarding logger when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nop{}
	}
	return l
}

// InActions reports whether the process runs inside a GitHub Actions job.
func InActions(getenv func(string) string) bool {
	return getenv("GITHUB_ACTIONS") == "true"
}

// FromEnv picks the Actions sink inside GitHub Actions and a console sink otherwise.
func FromEnv(w io.Writer, getenv func(string) string, opts ConsoleOptions) Logger {
	if InActions(getenv) {
		return NewActions(w)
	}
	return NewConsole(w, opts)
}
