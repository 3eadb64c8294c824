package entries

import (
	"qrsite/internal/textutil"
)

type field int

const (
	fieldID field = iota
	fieldImage
	fieldDate
	fieldDescription
	fieldLink
	fieldCount
)

// columnNames are the canonical header names, used in error messages and
// when writing spreadsheets.
var columnNames = [fieldCount]string{
	fieldID:          "ID",
	fieldImage:       "Bildernamen",
	fieldDate:        "Datum/Jahr",
	fieldDescription: "Beschreibung",
	fieldLink:        "Link",
}

// Header returns the canonical header row.
func Header() []string {
	return append([]string(nil), columnNames[:]...)
}

var aliases = map[string]field{
	"id":           fieldID,
	"nr":           fieldID,
	"nummer":       fieldID,
	"bildernamen":  fieldImage,
	"bildname":     fieldImage,
	"bild":         fieldImage,
	"image":        fieldImage,
	"filename":     fieldImage,
	"datumjahr":    fieldDate,
	"datum":        fieldDate,
	"jahr":         fieldDate,
	"date":         fieldDate,
	"year":         fieldDate,
	"beschreibung": fieldDescription,
	"text":         fieldDescription,
	"description":  fieldDescription,
	"link":         fieldLink,
	"url":          fieldLink,
}

// aliasRank orders competing headers for the date column: "Datum/Jahr" wins
// over "Datum" which wins over the rest.
var aliasRank = map[string]int{
	"datumjahr": 0,
	"datum":     1,
}

// layout maps each field to its column index, -1 when absent.
type layout [fieldCount]int

func mapHeader(header []string) (layout, []string) {
	var l layout
	ranks := [fieldCount]int{}
	for i := range l {
		l[i] = -1
		ranks[i] = len(aliases)
	}
	for idx, raw := range header {
		key := textutil.NormalizeHeader(raw)
		f, ok := aliases[key]
		if !ok {
			continue
		}
		rank, ranked := aliasRank[key]
		if !ranked {
			rank = len(aliasRank)
		}
		if l[f] == -1 || rank < ranks[f] {
			l[f] = idx
			ranks[f] = rank
		}
	}
	var missing []string
	for _, f := range []field{fieldID, fieldImage} {
		if l[f] == -1 {
			missing = append(missing, columnNames[f])
		}
	}
	return l, missing
}

func (l layout) value(row []string, f field) string {
	idx := l[f]
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
