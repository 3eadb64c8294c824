package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// BaseURLEnv supplies site.base_url when the config file leaves it empty.
const BaseURLEnv = "QRSITE_BASE_URL"

// Paths contains input and output locations.
type Paths struct {
	Spreadsheet string `toml:"spreadsheet"`
	ImagesDir   string `toml:"images_dir"`
	OutputDir   string `toml:"output_dir"`
}

// Site contains the public base URL and the strings rendered into pages.
type Site struct {
	BaseURL      string `toml:"base_url"`
	Title        string `toml:"title"`
	Lang         string `toml:"lang"`
	IndexHeading string `toml:"index_heading"`
	EntryLabel   string `toml:"entry_label"`
	BackLabel    string `toml:"back_label"`
	PrevLabel    string `toml:"prev_label"`
	NextLabel    string `toml:"next_label"`
	LinkLabel    string `toml:"link_label"`
	QRCaption    string `toml:"qr_caption"`
	Footer       string `toml:"footer"`
}

// Images contains the copy/resize settings for entry photos.
type Images struct {
	MaxWidth    int  `toml:"max_width"`
	ThumbWidth  int  `toml:"thumb_width"`
	JPEGQuality int  `toml:"jpeg_quality"`
	ExifDates   bool `toml:"exif_dates"`
}

// QR contains settings for the per-entry QR images embedded in pages.
type QR struct {
	Level        string `toml:"level"`
	ModulePixels int    `toml:"module_pixels"`
}

// Labels contains the print geometry of the label sheet.
type Labels struct {
	PageWidthMM  float64 `toml:"page_width_mm"`
	PageHeightMM float64 `toml:"page_height_mm"`
	Cols         int     `toml:"cols"`
	Rows         int     `toml:"rows"`
	CellMM       float64 `toml:"cell_mm"`
	MarginLeftMM float64 `toml:"margin_left_mm"`
	MarginTopMM  float64 `toml:"margin_top_mm"`
	HGapMM       float64 `toml:"h_gap_mm"`
	VGapMM       float64 `toml:"v_gap_mm"`
	Captions     bool    `toml:"captions"`
	FontSize     float64 `toml:"font_size"`
	MinFontSize  float64 `toml:"min_font_size"`
	DPI          int     `toml:"dpi"`
	MinModuleMM  float64 `toml:"min_module_mm"`
	CutGuides    bool    `toml:"cut_guides"`
}

// Output controls how the generated directory is replaced.
type Output struct {
	Preserve []string `toml:"preserve"`
}

// Deploy contains the publishing target defaults.
type Deploy struct {
	RepoURL       string `toml:"repo_url"`
	Branch        string `toml:"branch"`
	SiteDir       string `toml:"site_dir"`
	CommitMessage string `toml:"commit_message"`
	GitBinary     string `toml:"git_binary"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for qrsite.
//
// Configuration sections by subsystem:
//   - Paths: spreadsheet, image folder and output directory
//   - Site: base URL for QR targets plus page strings
//   - Images: photo resize and thumbnail settings
//   - QR: recovery level and pixel density of web QR images
//   - Labels: label sheet page and grid geometry
//   - Output: files kept across rebuilds
//   - Deploy: git remote, branch and directory to publish
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Site    Site    `toml:"site"`
	Images  Images  `toml:"images"`
	QR      QR      `toml:"qr"`
	Labels  Labels  `toml:"labels"`
	Output  Output  `toml:"output"`
	Deploy  Deploy  `toml:"deploy"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/qrsite/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

// resolveConfigPath prefers an explicit path, then a project-local
// qrsite.toml, then the per-user file.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	projectPath, err := filepath.Abs("qrsite.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return projectPath, false, nil
}

// GitBinary returns the git executable used by the deploy helper.
func (c *Config) GitBinary() string {
	if bin := strings.TrimSpace(c.Deploy.GitBinary); bin != "" {
		return bin
	}
	return "git"
}

// LabelCells returns how many label cells fit on one page.
func (c *Config) LabelCells() int {
	return c.Labels.Cols * c.Labels.Rows
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
