package builderr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinels matched by the typed errors below through errors.Is. All of them
// stop a build before the output directory is replaced.
var (
	// ErrConfiguration marks a missing or invalid setting or flag.
	ErrConfiguration = errors.New("configuration error")
	// ErrMissingColumn marks a spreadsheet header lacking a required column.
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidRow marks a spreadsheet row that cannot become an entry.
	ErrInvalidRow = errors.New("invalid row")
	// ErrAssetNotFound marks an entry whose image is not in the images directory.
	ErrAssetNotFound = errors.New("asset not found")
	// ErrLayout marks a label that cannot be printed legibly or scannably.
	ErrLayout = errors.New("layout error")
)

// ConfigurationError reports a missing or invalid setting.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return join(ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// Configuration builds a ConfigurationError.
func Configuration(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// MissingColumnError lists the required spreadsheet columns that were absent.
type MissingColumnError struct {
	Path    string
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return join(ErrMissingColumn, e.Path, "required column(s) not found: "+strings.Join(e.Columns, ", "))
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// InvalidRowError describes a spreadsheet row that cannot become an entry.
// Row is 1-based and counts the header row.
type InvalidRowError struct {
	Row    int
	ID     string
	Reason string
}

func (e *InvalidRowError) Error() string {
	where := fmt.Sprintf("row %d", e.Row)
	if e.ID != "" {
		where = fmt.Sprintf("row %d (id %q)", e.Row, e.ID)
	}
	return join(ErrInvalidRow, where, e.Reason)
}

func (e *InvalidRowError) Is(target error) bool { return target == ErrInvalidRow }

// AssetNotFoundError reports an entry whose image does not exist.
type AssetNotFoundError struct {
	EntryID string
	Path    string
	Err     error
}

func (e *AssetNotFoundError) Error() string {
	msg := join(ErrAssetNotFound, "entry "+e.EntryID, e.Path)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *AssetNotFoundError) Is(target error) bool { return target == ErrAssetNotFound }

func (e *AssetNotFoundError) Unwrap() error { return e.Err }

// LayoutError reports a label cell that cannot hold its content at all.
type LayoutError struct {
	EntryID string
	Reason  string
}

func (e *LayoutError) Error() string {
	subject := ""
	if e.EntryID != "" {
		subject = "entry " + e.EntryID
	}
	return join(ErrLayout, subject, e.Reason)
}

func (e *LayoutError) Is(target error) bool { return target == ErrLayout }

func join(marker error, parts ...string) string {
	out := make([]string, 0, len(parts)+1)
	out = append(out, marker.Error())
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ": ")
}
