package testsupport

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"qrsite/internal/builderr"
	"qrsite/internal/config"
	"qrsite/internal/qr"
)

func TestNewConfigIgnoresBaseURLFromShell(t *testing.T) {
	t.Setenv(config.BaseURLEnv, "https://leaked.example.com")

	cfg := NewConfig(t, WithBaseURL(""))
	if got := os.Getenv(config.BaseURLEnv); got != "" {
		t.Fatalf("expected %s to be cleared, got %q", config.BaseURLEnv, got)
	}

	path := filepath.Join(BaseDir(cfg), "qrsite.toml")
	WriteFile(t, path, "[paths]\noutput_dir = \""+filepath.ToSlash(cfg.Paths.OutputDir)+"\"\n")
	loaded, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := qr.ValidateBaseURL(loaded.Site.BaseURL); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected an empty base url to stay a configuration error, got %q (%v)", loaded.Site.BaseURL, err)
	}
}
