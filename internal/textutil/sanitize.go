package textutil

import "strings"

// NormalizeHeader folds a spreadsheet header for alias matching: lowercase,
// with spaces, tabs, slashes, backslashes, underscores and dashes removed.
func NormalizeHeader(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	return headerReplacer.Replace(value)
}

var headerReplacer = strings.NewReplacer(
	" ", "",
	"\t", "",
	"/", "",
	"\\", "",
	"_", "",
	"-", "",
)
