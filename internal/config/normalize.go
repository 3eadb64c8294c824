package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeSite()
	c.normalizeImages()
	c.normalizeQR()
	c.normalizeOutput()
	if err := c.normalizeDeploy(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Spreadsheet) == "" {
		c.Paths.Spreadsheet = defaultSpreadsheet
	}
	if c.Paths.Spreadsheet, err = expandPath(strings.TrimSpace(c.Paths.Spreadsheet)); err != nil {
		return fmt.Errorf("paths.spreadsheet: %w", err)
	}
	if strings.TrimSpace(c.Paths.ImagesDir) == "" {
		c.Paths.ImagesDir = defaultImagesDir
	}
	if c.Paths.ImagesDir, err = expandPath(strings.TrimSpace(c.Paths.ImagesDir)); err != nil {
		return fmt.Errorf("paths.images_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSite() {
	c.Site.BaseURL = strings.TrimSpace(c.Site.BaseURL)
	if c.Site.BaseURL == "" {
		if value, ok := os.LookupEnv(BaseURLEnv); ok {
			c.Site.BaseURL = strings.TrimSpace(value)
		}
	}
	c.Site.BaseURL = NormalizeBaseURL(c.Site.BaseURL)

	defaults := Default().Site
	fill := func(value *string, fallback string) {
		*value = strings.TrimSpace(*value)
		if *value == "" {
			*value = fallback
		}
	}
	fill(&c.Site.Title, defaults.Title)
	fill(&c.Site.Lang, defaults.Lang)
	fill(&c.Site.IndexHeading, defaults.IndexHeading)
	fill(&c.Site.EntryLabel, defaults.EntryLabel)
	fill(&c.Site.BackLabel, defaults.BackLabel)
	fill(&c.Site.PrevLabel, defaults.PrevLabel)
	fill(&c.Site.NextLabel, defaults.NextLabel)
	fill(&c.Site.LinkLabel, defaults.LinkLabel)
	fill(&c.Site.QRCaption, defaults.QRCaption)
	c.Site.Footer = strings.TrimSpace(c.Site.Footer)
}

func (c *Config) normalizeImages() {
	if c.Images.MaxWidth <= 0 {
		c.Images.MaxWidth = defaultMaxImageWidth
	}
	if c.Images.ThumbWidth <= 0 {
		c.Images.ThumbWidth = defaultThumbWidth
	}
	if c.Images.JPEGQuality <= 0 {
		c.Images.JPEGQuality = defaultJPEGQuality
	}
}

func (c *Config) normalizeQR() {
	c.QR.Level = strings.ToLower(strings.TrimSpace(c.QR.Level))
	if c.QR.Level == "" {
		c.QR.Level = defaultQRLevel
	}
	if c.QR.ModulePixels <= 0 {
		c.QR.ModulePixels = defaultQRModulePixels
	}
}

func (c *Config) normalizeOutput() {
	preserve := make([]string, 0, len(c.Output.Preserve))
	seen := make(map[string]struct{}, len(c.Output.Preserve))
	for _, name := range c.Output.Preserve {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		preserve = append(preserve, name)
	}
	c.Output.Preserve = preserve
}

func (c *Config) normalizeDeploy() error {
	c.Deploy.RepoURL = strings.TrimSpace(c.Deploy.RepoURL)
	c.Deploy.Branch = strings.TrimSpace(c.Deploy.Branch)
	if c.Deploy.Branch == "" {
		c.Deploy.Branch = defaultDeployBranch
	}
	c.Deploy.CommitMessage = strings.TrimSpace(c.Deploy.CommitMessage)
	if c.Deploy.CommitMessage == "" {
		c.Deploy.CommitMessage = defaultCommitMessage
	}
	c.Deploy.GitBinary = strings.TrimSpace(c.Deploy.GitBinary)
	if strings.TrimSpace(c.Deploy.SiteDir) == "" {
		c.Deploy.SiteDir = c.Paths.OutputDir
	}
	var err error
	if c.Deploy.SiteDir, err = expandPath(strings.TrimSpace(c.Deploy.SiteDir)); err != nil {
		return fmt.Errorf("deploy.site_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// NormalizeBaseURL trims whitespace and trailing slashes from a base URL.
func NormalizeBaseURL(value string) string {
	return strings.TrimRight(strings.TrimSpace(value), "/")
}

// RelativeTo reports path relative to base when it lies beneath it, for display.
func RelativeTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return rel
}
