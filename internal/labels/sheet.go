package labels

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/go-pdf/fpdf"

	"qrsite/internal/builderr"
	"qrsite/internal/logging"
	"qrsite/internal/qr"
)

// pinnedDate keeps generated PDFs byte-identical across runs.
var pinnedDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const captionFont = "Helvetica"

// Item is one label to place: the entry it encodes and its caption.
type Item struct {
	EntryID string
	Caption string
}

// Encoder renders an entry's QR code at print resolution.
type Encoder interface {
	Print(id string, sideMM float64, dpi int, minModuleMM float64) (qr.PrintImage, error)
}

// Sheet summarizes a written PDF.
type Sheet struct {
	Pages      int
	Placements []Placement
}

// Builder writes label sheets for one geometry.
type Builder struct {
	geometry Geometry
	encoder  Encoder
	title    string
	logger   *slog.Logger
}

// NewBuilder validates the geometry and returns a builder. The QR codes must
// be large enough to be scanned, otherwise a LayoutError is returned.
func NewBuilder(g Geometry, enc Encoder, title string, logger *slog.Logger) (*Builder, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	if g.QRSideMM() <= 0 {
		return nil, &builderr.LayoutError{Reason: fmt.Sprintf("cells of %.1fx%.1f mm leave no room for a QR code", g.CellWidthMM, g.CellHeightMM)}
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Builder{geometry: g, encoder: enc, title: title, logger: logger}, nil
}

// Build lays out items and writes the PDF to w. Nothing is written when any
// label fails to lay out.
func (b *Builder) Build(w io.Writer, items []Item) (Sheet, error) {
	g := b.geometry
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: g.PageWidthMM, Ht: g.PageHeightMM},
	})
	pdf.SetCreationDate(pinnedDate)
	pdf.SetModificationDate(pinnedDate)
	pdf.SetCatalogSort(true)
	pdf.SetCompression(true)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	if b.title != "" {
		pdf.SetTitle(b.title, true)
	}
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	measure := func(text string, size float64) float64 {
		pdf.SetFont(captionFont, "", size)
		return pdf.GetStringWidth(tr(text))
	}

	side := g.QRSideMM()
	placements := g.Plan(items)
	page := 0
	for _, p := range placements {
		if p.Page != page {
			pdf.AddPage()
			page = p.Page
		}
		img, err := b.encoder.Print(p.EntryID, side, g.DPI, g.MinModuleMM)
		if err != nil {
			return Sheet{}, err
		}
		qrAreaH := g.CellHeightMM - g.captionSpace()
		drawModules(pdf, img, p.XMM+(g.CellWidthMM-img.SideMM)/2, p.YMM+(qrAreaH-img.SideMM)/2)

		if g.CutGuides {
			pdf.SetDrawColor(190, 190, 190)
			pdf.SetLineWidth(0.1)
			pdf.Rect(p.XMM, p.YMM, g.CellWidthMM, g.CellHeightMM, "D")
		}
		if g.Captions && p.Caption != "" {
			text, size, err := fitCaption(measure, p.EntryID, p.Caption, g.CellWidthMM-2*captionPaddingMM, g.FontSize, g.MinFontSize)
			if err != nil {
				return Sheet{}, err
			}
			if text != p.Caption {
				b.logger.Debug("caption shortened",
					logging.String(logging.FieldEntryID, p.EntryID),
					logging.String("caption", text),
				)
			}
			pdf.SetFont(captionFont, "", size)
			pdf.SetTextColor(0, 0, 0)
			tw := pdf.GetStringWidth(tr(text))
			tx := p.XMM + (g.CellWidthMM-tw)/2
			// Baseline sits in the middle of the caption strip, shifted by a
			// third of the font height (pt to mm) so the glyphs look centred.
			ty := p.YMM + qrAreaH + g.captionSpace()/2 + size*0.3528/3
			pdf.Text(tx, ty, tr(text))
		}
		if err := pdf.Error(); err != nil {
			return Sheet{}, fmt.Errorf("lay out label %s: %w", p.EntryID, err)
		}
	}
	if page == 0 {
		pdf.AddPage()
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Sheet{}, fmt.Errorf("write label pdf: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return Sheet{}, fmt.Errorf("write label pdf: %w", err)
	}
	return Sheet{Pages: pdf.PageCount(), Placements: placements}, nil
}

// drawModules paints the dark modules of img as filled rectangles with the
// top-left corner at (x, y). Runs of dark modules in a row share one
// rectangle.
func drawModules(pdf *fpdf.Fpdf, img qr.PrintImage, x, y float64) {
	if img.Modules == 0 {
		return
	}
	m := img.SideMM / float64(img.Modules)
	pdf.SetFillColor(0, 0, 0)
	for row, cells := range img.Bitmap {
		for col := 0; col < len(cells); {
			if !cells[col] {
				col++
				continue
			}
			start := col
			for col < len(cells) && cells[col] {
				col++
			}
			pdf.Rect(x+float64(start)*m, y+float64(row)*m, float64(col-start)*m, m, "F")
		}
	}
}
