package preflight

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"qrsite/internal/assets"
	"qrsite/internal/config"
	"qrsite/internal/deps"
	"qrsite/internal/entries"
	"qrsite/internal/qr"
)

// CheckBaseURL verifies that QR codes would point at an absolute http(s) URL.
func CheckBaseURL(raw string) Result {
	const name = "Base URL"
	if raw == "" {
		return Result{Name: name, Detail: "not configured (set site.base_url or pass --base-url)"}
	}
	base, err := qr.ValidateBaseURL(raw)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: base}
}

// CheckSpreadsheet loads the spreadsheet and reports how many entries it
// holds. The entries are returned so later checks can reuse them.
func CheckSpreadsheet(path string) (Result, []entries.Entry) {
	const name = "Spreadsheet"
	if path == "" {
		return Result{Name: name, Detail: "not configured"}, nil
	}
	list, err := entries.Load(path)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %v)", path, err)}, nil
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d entries)", path, len(list))}, list
}

// CheckImages verifies that every entry's image resolves inside dir.
func CheckImages(dir string, list []entries.Entry) Result {
	const name = "Entry images"
	resolved, err := assets.NewResolver(dir).ResolveAll(list)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d of %d found", len(resolved), len(list))}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadableDirectory verifies that the directory exists and can be listed.
func CheckReadableDirectory(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

// CheckOutputLocation verifies that the build could replace path. A missing
// output directory passes when its parent is writable.
func CheckOutputLocation(name, path string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if _, err := os.Stat(path); err == nil {
		return CheckDirectoryAccess(name, path)
	} else if !os.IsNotExist(err) {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	parent := CheckDirectoryAccess(name, filepath.Dir(path))
	if !parent.Passed {
		return parent
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (will be created)", path)}
}

func checkDirectory(name, path string, mode uint32, ok string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, ok)}
}

// CheckSystemDeps evaluates the external binaries for the given config. Git
// is only needed by deploy, so a missing git does not block builds.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	git := deps.Git(cfg.GitBinary())
	git.Optional = true
	return deps.CheckBinaries([]deps.Requirement{git})
}
