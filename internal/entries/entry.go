package entries

import (
	"regexp"
	"strings"
)

// Entry is one validated spreadsheet row.
type Entry struct {
	ID          string
	Image       string
	Date        string
	Description string
	Link        string
	// Row is the 1-based spreadsheet row the entry was read from.
	Row int
}

// PageName is the file name of the entry's page inside the output directory.
func (e Entry) PageName() string {
	return e.ID + ".html"
}

// ReservedID would collide with the index page.
const ReservedID = "index"

var idPattern = regexp.MustCompile(`^[A-Za-z0-9._~-]+$`)

// checkID returns a reason when id cannot be used in a URL path segment and
// a file name, or "" when it is fine.
func checkID(id string) string {
	switch {
	case !idPattern.MatchString(id):
		return "id must only contain letters, digits, '.', '_', '~' or '-'"
	case strings.HasPrefix(id, "."):
		return "id must not start with '.'"
	case strings.EqualFold(id, ReservedID):
		return "id \"index\" is reserved for the overview page"
	}
	return ""
}
