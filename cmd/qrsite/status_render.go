package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

const (
	statusLabelWidth = 20
	statusIndent     = "  "
)

var statusLabels = map[statusKind]string{
	statusInfo:  "INFO",
	statusOK:    "OK",
	statusWarn:  "WARN",
	statusError: "ERROR",
}

var statusColors = map[statusKind]string{
	statusInfo:  ansiBlue,
	statusOK:    ansiGreen,
	statusWarn:  ansiYellow,
	statusError: ansiRed,
}

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	text := fmt.Sprintf("[%s]", statusLabels[kind])
	if message != "" {
		text += " " + message
	}
	line := fmt.Sprintf("%s%-*s %s", statusIndent, statusLabelWidth, label+":", text)
	if colorize {
		return statusColors[kind] + line + ansiReset
	}
	return line
}

// statusReport collects sections of status lines and counts errors.
type statusReport struct {
	colorize bool
	lines    []string
	errors   int
	checks   int
}

func newStatusReport(w io.Writer) *statusReport {
	return &statusReport{colorize: shouldColorize(w)}
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	head := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(head))
	if r.colorize {
		head, rule = ansiBlue+head+ansiReset, ansiBlue+rule+ansiReset
	}
	r.lines = append(r.lines, head, rule)
}

// check adds a line for a pass/fail result that counts towards the exit status.
func (r *statusReport) check(label string, passed bool, detail string) {
	r.checks++
	kind := statusOK
	if !passed {
		kind = statusError
		r.errors++
	}
	r.add(label, kind, detail)
}

func (r *statusReport) add(label string, kind statusKind, detail string) {
	r.lines = append(r.lines, renderStatusLine(label, kind, detail, r.colorize))
}

func (r *statusReport) String() string {
	return strings.Join(r.lines, "\n")
}

// shouldColorize reports whether writer is a terminal. NO_COLOR disables
// colors everywhere.
func shouldColorize(writer io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
