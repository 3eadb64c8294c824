package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"golang.org/x/text/unicode/norm"

	"qrsite/internal/entries"
	"qrsite/internal/photo"
	"qrsite/internal/qr"
	"qrsite/internal/textutil"
)

// DateLayout is how scanned capture times are written to the date column.
const DateLayout = "2006-01-02 15:04:05"

// ScanOptions controls how a folder becomes entries.
type ScanOptions struct {
	Dir       string
	Recursive bool
	// BaseURL, when set, prefills the link column with the entry's page URL.
	BaseURL      string
	DescFromName bool
}

// Scanned is one image found by Scan.
type Scanned struct {
	Entry  entries.Entry
	Path   string
	Taken  time.Time
	Source photo.DateSource
}

// Scan lists the images in opts.Dir, orders them by capture time and assigns
// sequential zero-padded ids.
func Scan(opts ScanOptions) ([]Scanned, error) {
	base := ""
	if opts.BaseURL != "" {
		var err error
		if base, err = qr.ValidateBaseURL(opts.BaseURL); err != nil {
			return nil, err
		}
	}
	files, err := photo.List(opts.Dir, opts.Recursive)
	if err != nil {
		return nil, err
	}

	out := make([]Scanned, 0, len(files))
	for _, path := range files {
		taken, source, err := photo.CaptureTime(path)
		if err != nil {
			return nil, fmt.Errorf("capture time of %s: %w", filepath.Base(path), err)
		}
		rel, err := filepath.Rel(opts.Dir, path)
		if err != nil {
			return nil, err
		}
		out = append(out, Scanned{
			Entry: entries.Entry{
				Image: norm.NFC.String(filepath.ToSlash(rel)),
				Date:  taken.Format(DateLayout),
			},
			Path:   path,
			Taken:  taken,
			Source: source,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Taken.Before(out[j].Taken)
	})

	width := IDWidth(len(out))
	for i := range out {
		e := &out[i].Entry
		e.ID = fmt.Sprintf("%0*d", width, i+1)
		e.Row = i + 2
		if opts.DescFromName {
			e.Description = textutil.DescriptionFromName(out[i].Path)
		}
		if base != "" {
			e.Link = qr.TargetURL(base, e.ID)
		}
	}
	return out, nil
}

// IDWidth is the zero padding used for n sequential ids: at least three
// digits, more when n needs them.
func IDWidth(n int) int {
	return max(3, len(strconv.Itoa(n)))
}

// Entries returns the entries of a scan in order.
func Entries(scanned []Scanned) []entries.Entry {
	list := make([]entries.Entry, len(scanned))
	for i, s := range scanned {
		list[i] = s.Entry
	}
	return list
}
