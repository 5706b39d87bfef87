package changelog

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// SectionStyle defines the color and icon for a release note section.
type SectionStyle struct {
	Color *color.Color
	Icon  string
}

// sectionStyles maps lowercased section headings, as written by
// conventional-changelog and Keep a Changelog, to their terminal styling.
var sectionStyles = map[string]SectionStyle{
	"features":                 {Color: color.New(color.FgGreen), Icon: "✓"},
	"added":                    {Color: color.New(color.FgGreen), Icon: "✓"},
	"bug fixes":                {Color: color.New(color.FgYellow), Icon: "⚡"},
	"fixed":                    {Color: color.New(color.FgYellow), Icon: "⚡"},
	"changed":                  {Color: color.New(color.FgBlue), Icon: "~"},
	"performance improvements": {Color: color.New(color.FgBlue), Icon: "»"},
	"breaking changes":         {Color: color.New(color.FgRed), Icon: "⚠"},
	"deprecated":               {Color: color.New(color.FgRed), Icon: "⚠"},
	"removed":                  {Color: color.New(color.FgRed), Icon: "✗"},
	"reverts":                  {Color: color.New(color.FgMagenta), Icon: "↺"},
	"security":                 {Color: color.New(color.FgMagenta), Icon: "🔒"},
}

var (
	headingLine = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	bulletLine  = regexp.MustCompile(`^(\s*(?:[*+-]|\d+[.)])\s+)(.*)$`)
)

// FormatOptions controls the terminal output formatting.
type FormatOptions struct {
	Plain    bool // Disable colors and icons
	MaxWidth int  // Maximum line width (0 = auto-detect)
}

// FormatTerminal writes a release note with terminal styling: section
// headings get their color and icon, bullets are wrapped to the terminal
// width and the footer is dimmed. Plain output is the note unchanged.
func FormatTerminal(note string, w io.Writer, opts FormatOptions) error {
	if note == "" {
		return nil
	}
	if opts.Plain {
		_, err := fmt.Fprintln(w, note)
		return err
	}

	width := resolveWidth(opts.MaxWidth)
	for _, line := range strings.Split(note, "\n") {
		if _, err := fmt.Fprintln(w, formatLine(line, width)); err != nil {
			return fmt.Errorf("writing release note: %w", err)
		}
	}
	return nil
}

func formatLine(line string, width int) string {
	if m := headingLine.FindStringSubmatch(line); m != nil {
		return formatHeading(m[1], m[2])
	}
	if strings.HasPrefix(line, "**Full Changelog**") {
		return color.New(color.Faint).Sprint(line)
	}
	if m := bulletLine.FindStringSubmatch(line); m != nil {
		return m[1] + wrapText(m[2], width-len(m[1]), strings.Repeat(" ", len(m[1])))
	}
	return line
}

func formatHeading(hashes, title string) string {
	bold := color.New(color.Bold).SprintFunc()
	style, ok := sectionStyles[strings.ToLower(strings.TrimSpace(title))]
	if !ok {
		return hashes + " " + bold(title)
	}
	colored := style.Color.SprintFunc()
	return hashes + " " + colored(style.Icon) + " " + bold(colored(title))
}

// resolveWidth determines the terminal width to use.
func resolveWidth(maxWidth int) int {
	if maxWidth > 0 {
		return maxWidth
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}

// wrapText wraps text to fit within maxWidth, using indent for continuation lines.
func wrapText(text string, maxWidth int, indent string) string {
	if maxWidth <= 0 || len(text) <= maxWidth {
		return text
	}

	var lines []string
	remaining := text

	for len(remaining) > maxWidth {
		// Find the last space within maxWidth
		breakPoint := maxWidth
		for i := maxWidth - 1; i > 0; i-- {
			if remaining[i] == ' ' {
				breakPoint = i
				break
			}
		}

		lines = append(lines, remaining[:breakPoint])
		remaining = strings.TrimLeft(remaining[breakPoint:], " ")
	}

	if len(remaining) > 0 {
		lines = append(lines, remaining)
	}

	return strings.Join(lines, "\n"+indent)
}

// Summary returns a one-line description of a result for status output.
func Summary(r *Result) string {
	if r.ReleaseNote == "" {
		return fmt.Sprintf("%s: no release note", r.Tag)
	}
	lines := strings.Count(r.ReleaseNote, "\n") + 1
	if r.FromTag != "" {
		return fmt.Sprintf("%s: %d lines since %s", r.Tag, lines, r.FromTag)
	}
	return fmt.Sprintf("%s: %d lines", r.Tag, lines)
}
