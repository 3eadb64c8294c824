package config

import (
	"qrsite/internal/builderr"
)

// Validate ensures the configuration is usable. The base URL is checked by
// the QR generator because command-line flags may still supply it.
func (c *Config) Validate() error {
	if err := c.validateImages(); err != nil {
		return err
	}
	if err := c.validateQR(); err != nil {
		return err
	}
	if err := c.validateLabels(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateImages() error {
	if c.Images.ThumbWidth > c.Images.MaxWidth {
		return builderr.Configuration("images.thumb_width", "must not exceed images.max_width (%d > %d)", c.Images.ThumbWidth, c.Images.MaxWidth)
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return builderr.Configuration("images.jpeg_quality", "must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateQR() error {
	switch c.QR.Level {
	case "low", "medium", "high", "highest":
		return nil
	default:
		return builderr.Configuration("qr.level", "unsupported value %q (use low, medium, high or highest)", c.QR.Level)
	}
}

func (c *Config) validateLabels() error {
	l := c.Labels
	if err := ensurePositiveMap(map[string]float64{
		"labels.page_width_mm":  l.PageWidthMM,
		"labels.page_height_mm": l.PageHeightMM,
		"labels.cell_mm":        l.CellMM,
		"labels.font_size":      l.FontSize,
		"labels.min_font_size":  l.MinFontSize,
		"labels.min_module_mm":  l.MinModuleMM,
		"labels.cols":           float64(l.Cols),
		"labels.rows":           float64(l.Rows),
		"labels.dpi":            float64(l.DPI),
	}); err != nil {
		return err
	}
	if l.MinFontSize > l.FontSize {
		return builderr.Configuration("labels.min_font_size", "must not exceed labels.font_size")
	}
	if l.MarginLeftMM < 0 || l.MarginTopMM < 0 || l.HGapMM < 0 || l.VGapMM < 0 {
		return builderr.Configuration("labels", "margins and gaps must be >= 0")
	}
	width := l.MarginLeftMM + float64(l.Cols)*l.CellMM + float64(l.Cols-1)*l.HGapMM
	if width > l.PageWidthMM {
		return builderr.Configuration("labels.cols", "grid is %.1f mm wide but the page is %.1f mm", width, l.PageWidthMM)
	}
	height := l.MarginTopMM + float64(l.Rows)*l.CellMM + float64(l.Rows-1)*l.VGapMM
	if height > l.PageHeightMM {
		return builderr.Configuration("labels.rows", "grid is %.1f mm tall but the page is %.1f mm", height, l.PageHeightMM)
	}
	return nil
}

func ensurePositiveMap(values map[string]float64) error {
	for key, value := range values {
		if value <= 0 {
			return builderr.Configuration(key, "must be positive (got %v)", value)
		}
	}
	return nil
}
