package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Diagnostic is a source-located compile error, the unit the lexer, parser,
// and verifier all raise (spec.md §7: "each is reported at its source
// location"). It implements error so it can flow through normal Go error
// handling instead of the reference compiler's exception-based abort.
type Diagnostic struct {
	File     string
	Pos      Position
	Message  string
	Expected []string // human-readable set of what was expected here, if any
}

func (d *Diagnostic) Error() string {
	if len(d.Expected) == 0 {
		return fmt.Sprintf("%s:%s: %s", d.File, d.Pos, d.Message)
	}
	return fmt.Sprintf("%s:%s: %s (expected %s)", d.File, d.Pos, d.Message, strings.Join(d.Expected, ", "))
}

var (
	diagMessage = color.New(color.FgRed, color.Bold)
	diagGutter  = color.New(color.Faint)
)

// Render prints the three-line caret diagram the reference compiler uses
// (original_source/idl.py: report_error): the message, the offending
// source line prefixed by its line number, and a caret pointing at the
// column. Colorized when the destination is a terminal; fatih/color
// degrades to plain text automatically otherwise.
func (d *Diagnostic) Render(source string) string {
	lines := strings.Split(source, "\n")
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", diagMessage.Sprint("error:"), d.Error())

	if d.Pos.Line >= 1 && d.Pos.Line <= len(lines) {
		lineText := lines[d.Pos.Line-1]
		gutter := fmt.Sprintf("%d", d.Pos.Line)
		fmt.Fprintf(&b, "  %s | %s\n", diagGutter.Sprint(gutter), lineText)
		fmt.Fprintf(&b, "  %s | %s%s\n", diagGutter.Sprint(strings.Repeat(" ", len(gutter))),
			strings.Repeat(" ", max(d.Pos.Column-1, 0)), diagMessage.Sprint("^"))
	}

	return b.String()
}
