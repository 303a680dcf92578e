package canvas

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/image/bmp"

	"github.com/samdwyer/raycaster/internal/telemetry"
)

// ErrUnsupportedFormat is returned for output paths with an unknown extension.
var ErrUnsupportedFormat = errors.New("canvas: unsupported image format")

// WritePPM encodes img as a binary PPM (P6): a "P6\n{w} {h}\n255\n" header
// followed by one RGB byte triplet per pixel, row-major, top row first.
// Alpha is dropped.
func WritePPM(w io.Writer, img image.Image) error {
	b := img.Bounds()
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P6\n%d %d\n255\n", b.Dx(), b.Dy()); err != nil {
		return err
	}

	row := make([]byte, 0, 3*b.Dx())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row = row[:0]
		for x := b.Min.X; x < b.Max.X; x++ {
			p := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			row = append(row, p.R, p.G, p.B)
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// MaxPPMPixels bounds the raster ReadPPM will allocate for.
const MaxPPMPixels = 1 << 26

// ReadPPM decodes a binary PPM with a max value of 255. Headers declaring
// more than MaxPPMPixels pixels are rejected before any allocation.
func ReadPPM(r io.Reader) (*Canvas, error) {
	br := bufio.NewReader(r)

	var magic string
	var width, height, maxVal int
	if _, err := fmt.Fscan(br, &magic, &width, &height, &maxVal); err != nil {
		return nil, fmt.Errorf("ppm header: %w", err)
	}
	if magic != "P6" || maxVal != 255 {
		return nil, fmt.Errorf("%w: ppm %s with max %d", ErrUnsupportedFormat, magic, maxVal)
	}
	// Exactly one whitespace byte separates the header from the raster.
	if _, err := br.ReadByte(); err != nil {
		return nil, fmt.Errorf("ppm header: %w", err)
	}

	if width > 0 && height > 0 && width > MaxPPMPixels/height {
		return nil, fmt.Errorf("%w: ppm raster %dx%d exceeds %d pixels", ErrUnsupportedFormat, width, height, MaxPPMPixels)
	}

	c, err := New(width, height)
	if err != nil {
		return nil, err
	}
	buf := make([]byte, 3*width)
	for y := 0; y < height; y++ {
		if _, err := io.ReadFull(br, buf); err != nil {
			return nil, fmt.Errorf("ppm row %d: %w", y, err)
		}
		for x := 0; x < width; x++ {
			c.pix[c.index(x, y)] = color.RGBA{R: buf[3*x], G: buf[3*x+1], B: buf[3*x+2], A: 255}
		}
	}
	return c, nil
}

// Encoder writes an image in one file format.
type Encoder func(w io.Writer, img image.Image) error

// EncoderFor picks an encoder from a path's extension: .ppm (the default
// when there is no extension), .png or .bmp.
func EncoderFor(path string) (Encoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".ppm":
		return WritePPM, nil
	case ".png":
		return png.Encode, nil
	case ".bmp":
		return bmp.Encode, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Save writes img to path. On failure the partial file is removed, so a
// save either produces a complete image or nothing.
func Save(ctx context.Context, path string, img image.Image) (err error) {
	_, span := telemetry.Tracer("canvas").Start(ctx, "image.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("image.path", path),
		attribute.Int("image.width", img.Bounds().Dx()),
		attribute.Int("image.height", img.Bounds().Dy()),
	)

	enc, err := EncoderFor(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("save %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("save %s: %w", path, cerr)
		}
		if err != nil {
			span.RecordError(err)
			_ = os.Remove(path)
		}
	}()

	if err := enc(f, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
