// Package labels lays entry QR codes out on printable PDF sheets: the label
// sheet for sticker stock and the 3x5 overview sheet.
package labels

import (
	"math"

	"qrsite/internal/builderr"
	"qrsite/internal/config"
)

const (
	// captionSpaceMM is reserved under the QR code for its caption.
	captionSpaceMM = 5.0
	// qrPaddingMM is kept free around the QR code inside its cell.
	qrPaddingMM = 3.0
	// captionPaddingMM is kept free left and right of a caption.
	captionPaddingMM = 1.0
	overviewMarginMM = 8.5
)

// Geometry describes one sheet layout in millimetres.
type Geometry struct {
	PageWidthMM  float64
	PageHeightMM float64
	Cols         int
	Rows         int
	CellWidthMM  float64
	CellHeightMM float64
	MarginLeftMM float64
	MarginTopMM  float64
	HGapMM       float64
	VGapMM       float64
	Captions     bool
	FontSize     float64
	MinFontSize  float64
	DPI          int
	MinModuleMM  float64
	CutGuides    bool
}

// FromConfig returns the label sheet geometry with square cells.
func FromConfig(l config.Labels) Geometry {
	return Geometry{
		PageWidthMM:  l.PageWidthMM,
		PageHeightMM: l.PageHeightMM,
		Cols:         l.Cols,
		Rows:         l.Rows,
		CellWidthMM:  l.CellMM,
		CellHeightMM: l.CellMM,
		MarginLeftMM: l.MarginLeftMM,
		MarginTopMM:  l.MarginTopMM,
		HGapMM:       l.HGapMM,
		VGapMM:       l.VGapMM,
		Captions:     l.Captions,
		FontSize:     l.FontSize,
		MinFontSize:  l.MinFontSize,
		DPI:          l.DPI,
		MinModuleMM:  l.MinModuleMM,
		CutGuides:    l.CutGuides,
	}
}

// Overview returns the 3x5 overview layout whose cells fill the printable
// area of the configured page evenly. Captions and print settings follow l.
func Overview(l config.Labels) Geometry {
	g := FromConfig(l)
	g.Cols, g.Rows = 3, 5
	g.MarginLeftMM, g.MarginTopMM = overviewMarginMM, overviewMarginMM
	g.HGapMM, g.VGapMM = 0, 0
	g.CellWidthMM = (l.PageWidthMM - 2*overviewMarginMM) / 3
	g.CellHeightMM = (l.PageHeightMM - 2*overviewMarginMM) / 5
	g.CutGuides = false
	return g
}

// PerPage is the number of cells on one page.
func (g Geometry) PerPage() int {
	return g.Cols * g.Rows
}

// Pages returns how many pages n labels need.
func (g Geometry) Pages(n int) int {
	per := g.PerPage()
	if n <= 0 || per <= 0 {
		return 0
	}
	return (n + per - 1) / per
}

// Validate reports a ConfigurationError when the grid does not fit the page.
func (g Geometry) Validate() error {
	if g.Cols <= 0 || g.Rows <= 0 {
		return builderr.Configuration("labels.cols", "grid needs at least one column and row (got %dx%d)", g.Cols, g.Rows)
	}
	if g.CellWidthMM <= 0 || g.CellHeightMM <= 0 {
		return builderr.Configuration("labels.cell_mm", "must be positive")
	}
	if g.DPI <= 0 {
		return builderr.Configuration("labels.dpi", "must be positive (got %d)", g.DPI)
	}
	if w := g.extent(g.MarginLeftMM, g.Cols, g.CellWidthMM, g.HGapMM); w > g.PageWidthMM+epsilon {
		return builderr.Configuration("labels.cols", "grid is %.1f mm wide but the page is %.1f mm", w, g.PageWidthMM)
	}
	if h := g.extent(g.MarginTopMM, g.Rows, g.CellHeightMM, g.VGapMM); h > g.PageHeightMM+epsilon {
		return builderr.Configuration("labels.rows", "grid is %.1f mm tall but the page is %.1f mm", h, g.PageHeightMM)
	}
	return nil
}

const epsilon = 1e-6

func (g Geometry) extent(margin float64, count int, cell, gap float64) float64 {
	return margin + float64(count)*cell + float64(count-1)*gap
}

// captionSpace is the height kept for captions below the code.
func (g Geometry) captionSpace() float64 {
	if !g.Captions {
		return 0
	}
	return captionSpaceMM
}

// QRSideMM is the printed edge length of every code on the sheet.
func (g Geometry) QRSideMM() float64 {
	return math.Min(g.CellWidthMM, g.CellHeightMM-g.captionSpace()) - qrPaddingMM
}

// Placement locates one label on the sheet.
type Placement struct {
	EntryID string
	Caption string
	Page    int
	Col     int
	Row     int
	XMM     float64
	YMM     float64
}

// Plan assigns labels to cells left to right, top to bottom, starting a new
// page when the cells run out. Pages are numbered from 1.
func (g Geometry) Plan(items []Item) []Placement {
	per := g.PerPage()
	out := make([]Placement, 0, len(items))
	if per <= 0 {
		return out
	}
	for i, item := range items {
		slot := i % per
		col, row := slot%g.Cols, slot/g.Cols
		out = append(out, Placement{
			EntryID: item.EntryID,
			Caption: item.Caption,
			Page:    i/per + 1,
			Col:     col,
			Row:     row,
			XMM:     g.MarginLeftMM + float64(col)*(g.CellWidthMM+g.HGapMM),
			YMM:     g.MarginTopMM + float64(row)*(g.CellHeightMM+g.VGapMM),
		})
	}
	return out
}
