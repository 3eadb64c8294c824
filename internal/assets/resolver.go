// Package assets maps the image names referenced by spreadsheet rows to
// files inside the images directory.
package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"

	"qrsite/internal/builderr"
	"qrsite/internal/entries"
)

var errOutsideDir = errors.New("path escapes the images directory")

// Resolver looks up entry images beneath a single directory.
type Resolver struct {
	dir string
}

// Resolved pairs an entry with the absolute path of its image.
type Resolved struct {
	Entry entries.Entry
	Path  string
}

// NewResolver returns a resolver rooted at dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{dir: filepath.Clean(dir)}
}

// Resolve returns the path of the entry's image. Names are tried as written,
// then in NFC and NFD form, since spreadsheets and filesystems disagree on
// how accented characters are composed.
func (r *Resolver) Resolve(entry entries.Entry) (string, error) {
	name := strings.TrimSpace(entry.Image)
	if name == "" || filepath.IsAbs(name) || strings.HasPrefix(name, "/") {
		return "", &builderr.AssetNotFoundError{EntryID: entry.ID, Path: name, Err: errOutsideDir}
	}
	var lastErr error = fs.ErrNotExist
	for _, candidate := range candidates(name) {
		path := filepath.Join(r.dir, filepath.FromSlash(candidate))
		if !isPathWithin(r.dir, path) {
			return "", &builderr.AssetNotFoundError{EntryID: entry.ID, Path: name, Err: errOutsideDir}
		}
		info, err := os.Stat(path)
		if err != nil {
			lastErr = err
			continue
		}
		if info.IsDir() {
			lastErr = fmt.Errorf("%s is a directory", path)
			continue
		}
		return path, nil
	}
	return "", &builderr.AssetNotFoundError{EntryID: entry.ID, Path: filepath.Join(r.dir, name), Err: lastErr}
}

// ResolveAll resolves every entry before anything is written, stopping at
// the first missing image.
func (r *Resolver) ResolveAll(list []entries.Entry) ([]Resolved, error) {
	out := make([]Resolved, 0, len(list))
	for _, entry := range list {
		path, err := r.Resolve(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, Resolved{Entry: entry, Path: path})
	}
	return out, nil
}

func candidates(name string) []string {
	out := []string{name}
	for _, form := range []norm.Form{norm.NFC, norm.NFD} {
		variant := form.String(name)
		if variant != name && !contains(out, variant) {
			out = append(out, variant)
		}
	}
	return out
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}

func isPathWithin(baseDir, targetPath string) bool {
	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(targetPath))
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
