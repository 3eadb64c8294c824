package textutil

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

var separatorRuns = regexp.MustCompile(`[_\-]+`)

// Truncate shortens s to at most limit runes, appending Ellipsis when
// anything was cut. A non-positive limit returns s unchanged.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return strings.TrimRight(string(runes[:limit]), " ") + Ellipsis
}

// FirstLine returns the first line of s with surrounding whitespace trimmed.
func FirstLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	line, _, _ := strings.Cut(strings.TrimLeft(s, "\n"), "\n")
	return strings.TrimSpace(line)
}

// DescriptionFromName turns an image file name into a readable description:
// the extension is dropped, runs of underscores and dashes become single
// spaces and the first letter is upper-cased.
func DescriptionFromName(name string) string {
	base := filepath.Base(name)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.TrimSpace(separatorRuns.ReplaceAllString(base, " "))
	if base == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(base)
	return cases.Upper(language.Und).String(string(first)) + base[size:]
}

// Ternary is a generic conditional helper that returns a if cond is true, b otherwise.
func Ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
