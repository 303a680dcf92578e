// Package canvas provides the pixel grid frames are drawn into and the
// encoders that write it to disk.
package canvas

import (
	"errors"
	"fmt"
	"image"
	"image/color"
)

// ErrOutOfBounds is returned when a pixel or rectangle falls outside the canvas.
var ErrOutOfBounds = errors.New("canvas: out of bounds")

// Canvas is a mutable RGBA pixel grid addressed from the top-left corner.
// It implements draw.Image, so it can be handed to any image encoder.
type Canvas struct {
	width  int
	height int
	pix    []color.RGBA
}

// New allocates a canvas filled with opaque black.
func New(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrOutOfBounds, width, height)
	}
	c := &Canvas{
		width:  width,
		height: height,
		pix:    make([]color.RGBA, width*height),
	}
	c.Fill(color.RGBA{A: 255})
	return c, nil
}

// Width returns the canvas width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in pixels.
func (c *Canvas) Height() int { return c.height }

func (c *Canvas) index(x, y int) int {
	return y*c.width + x
}

// Pixel returns the color at (x, y).
func (c *Canvas) Pixel(x, y int) (color.RGBA, error) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return color.RGBA{}, fmt.Errorf("%w: pixel (%d,%d) on %dx%d", ErrOutOfBounds, x, y, c.width, c.height)
	}
	return c.pix[c.index(x, y)], nil
}

// SetPixel colors the pixel at (x, y).
func (c *Canvas) SetPixel(x, y int, col color.RGBA) error {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return fmt.Errorf("%w: pixel (%d,%d) on %dx%d", ErrOutOfBounds, x, y, c.width, c.height)
	}
	c.pix[c.index(x, y)] = col
	return nil
}

// FillRect colors the half-open rectangle [Min.X, Max.X) x [Min.Y, Max.Y).
// The rectangle must be well formed and lie entirely on the canvas.
func (c *Canvas) FillRect(r image.Rectangle, col color.RGBA) error {
	if r.Min.X > r.Max.X || r.Min.Y > r.Max.Y {
		return fmt.Errorf("%w: inverted rectangle %v", ErrOutOfBounds, r)
	}
	if r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > c.width || r.Max.Y > c.height {
		return fmt.Errorf("%w: rectangle %v on %dx%d", ErrOutOfBounds, r, c.width, c.height)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := c.pix[c.index(r.Min.X, y):c.index(r.Max.X, y)]
		for i := range row {
			row[i] = col
		}
	}
	return nil
}

// Fill colors every pixel.
func (c *Canvas) Fill(col color.RGBA) {
	for i := range c.pix {
		c.pix[i] = col
	}
}

// ColorModel implements image.Image.
func (c *Canvas) ColorModel() color.Model { return color.RGBAModel }

// Bounds implements image.Image.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// At implements image.Image. Points off the canvas are transparent.
func (c *Canvas) At(x, y int) color.Color {
	p, err := c.Pixel(x, y)
	if err != nil {
		return color.RGBA{}
	}
	return p
}

// Set implements draw.Image. Points off the canvas are ignored.
func (c *Canvas) Set(x, y int, col color.Color) {
	_ = c.SetPixel(x, y, color.RGBAModel.Convert(col).(color.RGBA))
}
