package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"qrsite/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig returns defaults rooted in a fresh temp directory: a csv
// spreadsheet, an existing images directory and a site output directory.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	// Configs loaded during the test must not pick up the caller's shell.
	t.Setenv(config.BaseURLEnv, "")

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.Spreadsheet = filepath.Join(base, "entries.csv")
	cfgVal.Paths.ImagesDir = filepath.Join(base, "images")
	cfgVal.Paths.OutputDir = filepath.Join(base, "site")
	cfgVal.Deploy.SiteDir = cfgVal.Paths.OutputDir
	cfgVal.Site.BaseURL = "https://example.com/site"

	if err := os.MkdirAll(cfgVal.Paths.ImagesDir, 0o755); err != nil {
		t.Fatalf("mkdir images dir: %v", err)
	}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithBaseURL overrides the site base URL on the test config.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Site.BaseURL = url
	}
}

// WithSpreadsheet points the config at a spreadsheet file name inside the
// test's base directory.
func WithSpreadsheet(name string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.Spreadsheet = filepath.Join(b.baseDir, name)
	}
}

// WithStubbedBinaries installs no-op executables for names ahead of PATH.
// Without names only git is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"git"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// WriteScript writes an executable shell script with body at path, creating
// parent directories as needed.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.OutputDir)
}
