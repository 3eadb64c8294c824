// Package photo prepares entry images for the web: downscaling, thumbnails,
// capture dates and conversion to JPEG.
//
// JPEG, PNG, TIFF and BMP images are decoded and re-encoded in their own
// format. Anything else (WebP, GIF, HEIC) is copied byte for byte, since
// there is no encoder for it or resizing would drop animation frames.
package photo

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"qrsite/internal/fileutil"
)

// Format identifies how an image file is written back out.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	// FormatVerbatim files are copied without decoding.
	FormatVerbatim Format = ""
)

// Extensions lists the file extensions treated as images when scanning
// folders.
var Extensions = []string{".jpg", ".jpeg", ".png", ".tif", ".tiff", ".bmp", ".gif", ".webp", ".heic", ".heif"}

// FormatOf reports the re-encoding format for a file name.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".tif", ".tiff":
		return FormatTIFF
	case ".bmp":
		return FormatBMP
	default:
		return FormatVerbatim
	}
}

// IsImage reports whether name carries one of the recognised image extensions.
func IsImage(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// Decodable reports whether images with this name can be decoded, which
// converting and thumbnailing require.
func Decodable(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".heic", ".heif":
		return false
	}
	return IsImage(name)
}

// Result describes a written image.
type Result struct {
	Width    int
	Height   int
	Verbatim bool
}

// Fit writes src to dst, scaled down to at most maxWidth pixels wide while
// keeping the aspect ratio. Images that are already narrow enough are still
// re-encoded so output bytes depend only on pixels and quality.
func Fit(src, dst string, maxWidth, quality int) (Result, error) {
	format := FormatOf(src)
	if format == FormatVerbatim {
		return copyVerbatim(src, dst)
	}
	img, err := decodeFile(src)
	if err != nil {
		return Result{}, err
	}
	img = scaleToWidth(img, maxWidth)
	if err := encodeFile(dst, img, format, quality); err != nil {
		return Result{}, err
	}
	b := img.Bounds()
	return Result{Width: b.Dx(), Height: b.Dy()}, nil
}

// Dimensions reads the pixel size of an image without decoding it fully.
func Dimensions(path string) (int, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("read image size of %s: %w", filepath.Base(path), err)
	}
	return cfg.Width, cfg.Height, nil
}

// ConvertJPEG decodes src, flattens any transparency onto white and writes
// it to dst as JPEG.
func ConvertJPEG(src, dst string, quality int) error {
	img, err := decodeFile(src)
	if err != nil {
		return err
	}
	b := img.Bounds()
	flat := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(flat, flat.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(flat, flat.Bounds(), img, b.Min, draw.Over)
	return encodeFile(dst, flat, FormatJPEG, quality)
}

func scaleToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	if width <= 0 || b.Dx() <= width {
		return img
	}
	height := max(1, b.Dy()*width/b.Dx())
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

func encodeFile(path string, img image.Image, format Format, quality int) error {
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality})
	case FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.BestCompression}
		err = encoder.Encode(&buf, img)
	case FormatTIFF:
		err = tiff.Encode(&buf, img, &tiff.Options{Compression: tiff.Deflate})
	case FormatBMP:
		err = bmp.Encode(&buf, img)
	default:
		err = fmt.Errorf("no encoder for %q", format)
	}
	if err != nil {
		return fmt.Errorf("encode %s: %w", filepath.Base(path), err)
	}
	if err := fileutil.EnsureParent(path); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

func copyVerbatim(src, dst string) (Result, error) {
	if err := fileutil.CopyFile(src, dst); err != nil {
		return Result{}, fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	res := Result{Verbatim: true}
	if w, h, err := Dimensions(src); err == nil {
		res.Width, res.Height = w, h
	}
	return res, nil
}
