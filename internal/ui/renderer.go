package ui

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// upperHalf draws the top pixel in the foreground color and the bottom
// pixel in the background color, so each cell shows two stacked pixels.
const upperHalf = '▀'

// Renderer draws images onto a Screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render scales img to fill rows [0, height-reserved) of the terminal with
// two image rows per cell, then shows the status line on the last row.
func (r *Renderer) Render(img image.Image, status string) {
	r.screen.Clear()

	cols, rows := r.screen.Size()
	rows-- // status line
	if cols > 0 && rows > 0 {
		b := img.Bounds()
		sample := func(cx, py int) tcell.Color {
			x := b.Min.X + cx*b.Dx()/cols
			y := b.Min.Y + py*b.Dy()/(2*rows)
			return toTCell(img.At(x, y))
		}
		for cy := 0; cy < rows; cy++ {
			for cx := 0; cx < cols; cx++ {
				style := tcell.StyleDefault.
					Foreground(sample(cx, 2*cy)).
					Background(sample(cx, 2*cy+1))
				r.screen.SetContent(cx, cy, upperHalf, style)
			}
		}
	}

	r.RenderMessage(status, rows)
	r.screen.Show()
}

// RenderMessage writes a message on the given row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

func toTCell(c color.Color) tcell.Color {
	p := color.RGBAModel.Convert(c).(color.RGBA)
	return tcell.NewRGBColor(int32(p.R), int32(p.G), int32(p.B))
}
