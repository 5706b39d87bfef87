package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	// Color functions honor color.NoColor, so output degrades to plain text
	// when stderr is not a terminal or NO_COLOR is set.
	errorLabel  = color.New(color.FgRed, color.Bold).SprintFunc()
	errorMsg    = color.New(color.FgRed).SprintFunc()
	fixLabel    = color.New(color.FgGreen, color.Bold).SprintFunc()
	usageLabel  = color.New(color.FgCyan, color.Bold).SprintFunc()
	usageText   = color.New(color.FgCyan).SprintFunc()
	bullet      = color.New(color.FgGreen).SprintFunc()
	categoryFmt = color.New(color.FgYellow).SprintFunc()
)

// plain is the identity styler used by FormatErrorPlain.
func plain(a ...interface{}) string { return fmt.Sprint(a...) }

type styles struct {
	label, msg, fix, usageLabel, usage, bullet, category func(...interface{}) string
}

var (
	colorStyles = styles{errorLabel, errorMsg, fixLabel, usageLabel, usageText, bullet, categoryFmt}
	plainStyles = styles{plain, plain, plain, plain, plain, plain, plain}
)

// FormatError formats a CLIError for display in the terminal.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colorStyles)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plainStyles)
}

func formatError(err *CLIError, s styles) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", s.label("Error"), s.category(err.Category.String()), s.msg(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", s.usageLabel("Usage: "), s.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", s.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", s.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError classifies err and prints it to w.
func FprintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(Classify(err)))
}
