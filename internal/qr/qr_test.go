package qr

import (
	"bytes"
	"errors"
	"image"
	_ "image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	zxingqr "github.com/makiuchi-d/gozxing/qrcode"

	"qrsite/internal/builderr"
)

func decode(t *testing.T, data []byte) string {
	t.Helper()
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatalf("binary bitmap: %v", err)
	}
	result, err := zxingqr.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode qr: %v", err)
	}
	return result.GetText()
}

func TestTargetURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/site":   "https://example.com/site/42.html",
		"https://example.com/site/":  "https://example.com/site/42.html",
		"https://example.com/site//": "https://example.com/site/42.html",
	}
	for base, want := range cases {
		if got := TargetURL(base, "42"); got != want {
			t.Fatalf("TargetURL(%q) = %q, want %q", base, got, want)
		}
	}
}

func TestValidateBaseURL(t *testing.T) {
	for _, bad := range []string{"", "   ", "example.com/site", "ftp://example.com", "https://", "/relative"} {
		if _, err := ValidateBaseURL(bad); !errors.Is(err, builderr.ErrConfiguration) {
			t.Fatalf("ValidateBaseURL(%q): expected configuration error, got %v", bad, err)
		}
	}
	got, err := ValidateBaseURL(" http://localhost:8080/x/ ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "http://localhost:8080/x" {
		t.Fatalf("unexpected normalized url %q", got)
	}
}

func TestNewGeneratorRejectsBadInput(t *testing.T) {
	if _, err := NewGenerator("", "medium", 10); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error for missing base url, got %v", err)
	}
	if _, err := NewGenerator("https://example.com", "ultra", 10); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error for level, got %v", err)
	}
	if _, err := NewGenerator("https://example.com", "low", 0); !errors.Is(err, builderr.ErrConfiguration) {
		t.Fatalf("expected configuration error for module pixels, got %v", err)
	}
}

func TestPNGDecodesToTargetURL(t *testing.T) {
	gen, err := NewGenerator("https://example.com/site/", "medium", 10)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	data, err := gen.PNG("42")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if got := decode(t, data); got != "https://example.com/site/42.html" {
		t.Fatalf("decoded %q", got)
	}
	again, err := gen.PNG("42")
	if err != nil {
		t.Fatalf("PNG: %v", err)
	}
	if !bytes.Equal(data, again) {
		t.Fatal("expected identical PNG bytes for identical input")
	}
}

func TestPrintUsesWholePixelsPerModule(t *testing.T) {
	gen, err := NewGenerator("https://example.com/site", "medium", 10)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	img, err := gen.Print("7", 39, 300, 0.4)
	if err != nil {
		t.Fatalf("Print: %v", err)
	}
	if img.Pixels%img.Modules != 0 {
		t.Fatalf("image of %d px is not a multiple of %d modules", img.Pixels, img.Modules)
	}
	if img.ModuleMM < 0.4 {
		t.Fatalf("module size %.3f below minimum", img.ModuleMM)
	}
	px := 25.4 / 300
	if img.SideMM > 39+px || img.SideMM < 39-float64(img.Modules)*px {
		t.Fatalf("printed side %.3f mm does not fill the 39 mm square", img.SideMM)
	}
	if len(img.Bitmap) != img.Modules {
		t.Fatalf("bitmap has %d rows for %d modules", len(img.Bitmap), img.Modules)
	}
	if got := decode(t, img.PNG); got != "https://example.com/site/7.html" {
		t.Fatalf("decoded %q", got)
	}
}

func TestPrintTooSmall(t *testing.T) {
	gen, err := NewGenerator("https://example.com/site", "highest", 10)
	if err != nil {
		t.Fatalf("NewGenerator: %v", err)
	}
	_, err = gen.Print("7", 5, 300, 0.4)
	var layout *builderr.LayoutError
	if !errors.As(err, &layout) || layout.EntryID != "7" {
		t.Fatalf("expected layout error for entry 7, got %v", err)
	}
}
