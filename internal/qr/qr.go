// Package qr builds the target URL of each entry page and encodes it as a
// QR image, both for the web pages and at print resolution for label sheets.
package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"qrsite/internal/builderr"
)

const mmPerInch = 25.4

// ParseLevel maps a configured recovery level name to the encoder constant.
func ParseLevel(name string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "low":
		return qrcode.Low, nil
	case "", "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	default:
		return 0, builderr.Configuration("qr.level", "unsupported value %q", name)
	}
}

// ValidateBaseURL checks that raw is an absolute http(s) URL and returns it
// without trailing slashes.
func ValidateBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", builderr.Configuration("base_url", "is required to build QR targets (use --base-url or site.base_url)")
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", builderr.Configuration("base_url", "invalid URL %q: %v", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", builderr.Configuration("base_url", "must use http or https (got %q)", raw)
	}
	if parsed.Host == "" {
		return "", builderr.Configuration("base_url", "must be absolute (got %q)", raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

// TargetURL is the address a scanned code opens for the given entry id.
func TargetURL(baseURL, id string) string {
	return strings.TrimRight(baseURL, "/") + "/" + id + ".html"
}

// Generator encodes entry URLs below one base URL.
type Generator struct {
	baseURL      string
	level        qrcode.RecoveryLevel
	modulePixels int
}

// NewGenerator validates the base URL and recovery level.
func NewGenerator(baseURL, level string, modulePixels int) (*Generator, error) {
	base, err := ValidateBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	if modulePixels <= 0 {
		return nil, builderr.Configuration("qr.module_pixels", "must be positive (got %d)", modulePixels)
	}
	return &Generator{baseURL: base, level: lvl, modulePixels: modulePixels}, nil
}

// BaseURL returns the normalized base URL.
func (g *Generator) BaseURL() string {
	return g.baseURL
}

// URL returns the target URL for id.
func (g *Generator) URL(id string) string {
	return TargetURL(g.baseURL, id)
}

// PNG encodes the entry's URL for the web page at a fixed pixels-per-module
// density, quiet zone included.
func (g *Generator) PNG(id string) ([]byte, error) {
	code, err := qrcode.New(g.URL(id), g.level)
	if err != nil {
		return nil, fmt.Errorf("encode qr for %s: %w", id, err)
	}
	data, err := code.PNG(-g.modulePixels)
	if err != nil {
		return nil, fmt.Errorf("render qr for %s: %w", id, err)
	}
	return data, nil
}

// PrintImage is a QR code rendered for a physical size.
type PrintImage struct {
	PNG []byte
	// Pixels is the edge length of the square image.
	Pixels int
	// Modules counts the modules across, quiet zone included.
	Modules int
	// ModuleMM is the printed edge length of a single module.
	ModuleMM float64
	// SideMM is the printed edge at the requested dpi, Modules * ModuleMM.
	SideMM float64
	// Bitmap holds the dark modules row by row, quiet zone included.
	Bitmap [][]bool
}

// Print renders the entry's code for a square of sideMM millimetres at dpi.
// Every module maps to a whole number of device pixels. A LayoutError is
// returned when a module would print smaller than minModuleMM.
func (g *Generator) Print(id string, sideMM float64, dpi int, minModuleMM float64) (PrintImage, error) {
	code, err := qrcode.New(g.URL(id), g.level)
	if err != nil {
		return PrintImage{}, fmt.Errorf("encode qr for %s: %w", id, err)
	}
	bitmap := code.Bitmap()
	modules := len(bitmap)
	target := int(math.Round(sideMM * float64(dpi) / mmPerInch))
	perModule := max(target/modules, 1)
	moduleMM := float64(perModule) * mmPerInch / float64(dpi)
	if moduleMM < minModuleMM {
		return PrintImage{}, &builderr.LayoutError{
			EntryID: id,
			Reason:  fmt.Sprintf("qr module would print at %.2f mm, below the %.2f mm minimum", moduleMM, minModuleMM),
		}
	}
	img := rasterize(bitmap, perModule)

	var buf bytes.Buffer
	encoder := png.Encoder{CompressionLevel: png.BestCompression}
	if err := encoder.Encode(&buf, img); err != nil {
		return PrintImage{}, fmt.Errorf("encode print qr for %s: %w", id, err)
	}
	return PrintImage{
		PNG:      buf.Bytes(),
		Pixels:   img.Bounds().Dx(),
		Modules:  modules,
		ModuleMM: moduleMM,
		SideMM:   float64(modules) * moduleMM,
		Bitmap:   bitmap,
	}, nil
}

func rasterize(bitmap [][]bool, perModule int) *image.Paletted {
	size := len(bitmap) * perModule
	palette := color.Palette{color.White, color.Black}
	img := image.NewPaletted(image.Rect(0, 0, size, size), palette)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			for dy := range perModule {
				offset := img.PixOffset(x*perModule, y*perModule+dy)
				for dx := range perModule {
					img.Pix[offset+dx] = 1
				}
			}
		}
	}
	return img
}
