package photo

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// DateSource records where a capture time came from.
type DateSource string

const (
	SourceFilename DateSource = "filename"
	SourceEXIF     DateSource = "exif"
	SourceModTime  DateSource = "mtime"
)

// StampLayout is the file name stem produced by the rename command.
const StampLayout = "2006-01-02_150405"

var filenameStamp = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})[_-](\d{2})(\d{2})(\d{2})`)

// ExifDate reads the capture time recorded in the image's EXIF block.
func ExifDate(path string) (time.Time, bool) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, false
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, false
	}
	t, err := x.DateTime()
	if err != nil || t.IsZero() {
		return time.Time{}, false
	}
	return t, true
}

// FilenameDate parses a YYYY-MM-DD_HHMMSS stamp from the file name.
func FilenameDate(path string) (time.Time, bool) {
	base := filepath.Base(path)
	m := filenameStamp.FindStringSubmatch(base[:len(base)-len(filepath.Ext(base))])
	if m == nil {
		return time.Time{}, false
	}
	parts := make([]int, 6)
	for i := range parts {
		parts[i], _ = strconv.Atoi(m[i+1])
	}
	t := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], 0, time.Local)
	if t.Month() != time.Month(parts[1]) || t.Day() != parts[2] {
		return time.Time{}, false
	}
	return t, true
}

// ModTime returns the file's modification time.
func ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// CaptureTime picks the best available timestamp: a stamp in the file name,
// then EXIF, then the modification time.
func CaptureTime(path string) (time.Time, DateSource, error) {
	if t, ok := FilenameDate(path); ok {
		return t, SourceFilename, nil
	}
	if t, ok := ExifDate(path); ok {
		return t, SourceEXIF, nil
	}
	t, err := ModTime(path)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, SourceModTime, nil
}

// ShotTime prefers EXIF over the modification time and ignores file names,
// which are about to be replaced by the rename command.
func ShotTime(path string) (time.Time, DateSource, error) {
	if t, ok := ExifDate(path); ok {
		return t, SourceEXIF, nil
	}
	t, err := ModTime(path)
	if err != nil {
		return time.Time{}, "", err
	}
	return t, SourceModTime, nil
}
