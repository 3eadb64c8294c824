package preflight

import (
	"qrsite/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the build readiness checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckBaseURL(cfg.Site.BaseURL))

	spreadsheet, list := CheckSpreadsheet(cfg.Paths.Spreadsheet)
	results = append(results, spreadsheet)

	results = append(results, CheckReadableDirectory("Images directory", cfg.Paths.ImagesDir))
	if spreadsheet.Passed {
		results = append(results, CheckImages(cfg.Paths.ImagesDir, list))
	}

	results = append(results, CheckOutputLocation("Output directory", cfg.Paths.OutputDir))

	// Deploy reads from its own directory when it differs from the build output.
	if cfg.Deploy.SiteDir != "" && cfg.Deploy.SiteDir != cfg.Paths.OutputDir {
		results = append(results, CheckDirectoryAccess("Deploy directory", cfg.Deploy.SiteDir))
	}

	return results
}
