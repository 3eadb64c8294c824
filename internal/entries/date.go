package entries

import (
	"regexp"
	"strings"
	"time"
)

// DisplayLayout is how recognised dates are shown on pages.
const DisplayLayout = "02.01.2006"

var yearOnly = regexp.MustCompile(`^\d{4}$`)

// dateLayouts are tried in order. Slash dates are read day first.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006:01:02 15:04:05",
	"02.01.2006",
	"2.1.2006",
	"02.01.2006 15:04",
	"02.01.2006 15:04:05",
	"02/01/2006",
	"2/1/2006",
}

// ParseDate reports the time encoded in raw when it matches one of the
// recognised layouts.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DisplayDate renders a date cell for pages: years stay as they are,
// recognised dates become DD.MM.YYYY and anything else is shown verbatim.
func DisplayDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || yearOnly.MatchString(raw) {
		return raw
	}
	if t, ok := ParseDate(raw); ok {
		return t.Format(DisplayLayout)
	}
	return raw
}
