package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

// Display reports one step at a time. On a terminal the running step spins;
// otherwise each state change is a line.
type Display struct {
	w            io.Writer
	capabilities TerminalCapabilities
	symbols      ProgressSymbols
	spinner      *spinner.Spinner
}

// NewDisplay creates a display writing to w.
func NewDisplay(w io.Writer, caps TerminalCapabilities) *Display {
	return &Display{w: w, capabilities: caps, symbols: SelectSymbols(caps)}
}

// Start begins a step.
func (d *Display) Start(msg string) {
	d.stop()
	if !d.capabilities.IsTTY {
		fmt.Fprintf(d.w, "%s...\n", msg)
		return
	}
	d.spinner = spinner.New(spinner.CharSets[d.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(d.w))
	d.spinner.Suffix = " " + msg
	d.spinner.Start()
}

// Succeed ends the step with a checkmark.
func (d *Display) Succeed(msg string) {
	d.stop()
	fmt.Fprintf(d.w, "%s %s\n", d.mark(d.symbols.Checkmark, color.FgGreen), msg)
}

// Fail ends the step with a failure mark.
func (d *Display) Fail(msg string, err error) {
	d.stop()
	fmt.Fprintf(d.w, "%s %s: %v\n", d.mark(d.symbols.Failure, color.FgRed), msg, err)
}

// Track runs fn as one step.
func (d *Display) Track(msg, done string, fn func() error) error {
	d.Start(msg)
	if err := fn(); err != nil {
		d.Fail(msg, err)
		return err
	}
	d.Succeed(done)
	return nil
}

func (d *Display) mark(symbol string, attr color.Attribute) string {
	if !d.capabilities.SupportsColor {
		return symbol
	}
	return color.New(attr).Sprint(symbol)
}

func (d *Display) stop() {
	if d.spinner != nil {
		d.spinner.Stop()
		d.spinner = nil
	}
}
