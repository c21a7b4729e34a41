package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"inkverify/pkg/core"
)

// Format names an image encoding.
type Format string

const (
	// FormatPPM is plain-text Netpbm (P3).
	FormatPPM Format = "ppm"
	// FormatPNG is PNG with a two-colour palette.
	FormatPNG Format = "png"
	// FormatBMP is Windows bitmap.
	FormatBMP Format = "bmp"
)

// ErrUnknownFormat reports an unsupported image format.
var ErrUnknownFormat = errors.New("unknown image format")

// ParseFormat validates a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPPM, FormatPNG, FormatBMP:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// FormatFromPath picks a format from the file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// WritePPM writes g as a P3 image, one pixel per cell: live cells black,
// empty cells white, one text line per row.
func WritePPM(w io.Writer, g *core.Grid) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", g.Width(), g.Height())
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Get(x, y) == 1 {
				bw.WriteString("0 0 0 ")
			} else {
				bw.WriteString("255 255 255 ")
			}
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Image returns g as a paletted image; index 0 is Paper and 1 is Ink. Values
// above 1 are drawn as Ink.
func Image(g *core.Grid) *image.Paletted {
	img := image.NewPaletted(image.Rect(0, 0, g.Width(), g.Height()), color.Palette{Paper, Ink})
	for i, v := range g.Raw() {
		img.Pix[i] = min(v, 1)
	}
	return img
}

// Encode writes g to w in format f.
func Encode(w io.Writer, g *core.Grid, f Format) error {
	switch f {
	case FormatPPM:
		return WritePPM(w, g)
	case FormatPNG:
		return png.Encode(w, Image(g))
	case FormatBMP:
		return bmp.Encode(w, Image(g))
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// WriteFile encodes g into path. An empty format is taken from the extension.
func WriteFile(path string, g *core.Grid, f Format) (err error) {
	if f == "" {
		if f, err = FormatFromPath(path); err != nil {
			return err
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close image: %w", cerr)
		}
	}()
	if err := Encode(file, g, f); err != nil {
		return fmt.Errorf("encode %s: %w", f, err)
	}
	return nil
}
