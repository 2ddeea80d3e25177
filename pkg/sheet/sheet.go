// Package sheet renders decoded frames into a labeled contact sheet for
// visual inspection of extraction output.
package sheet

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// Cell is one frame on the sheet.
type Cell struct {
	Image            image.Image
	Index            uint64
	TimestampSeconds float64
}

// Options control sheet layout.
type Options struct {
	Columns    int
	CellWidth  int
	Gap        int
	LabelSpace int
}

// DefaultOptions returns a 4-column sheet with 320-pixel cells.
func DefaultOptions() Options {
	return Options{
		Columns:    4,
		CellWidth:  320,
		Gap:        12,
		LabelSpace: 18,
	}
}

// Render lays the cells out in a grid, scales each frame into its cell,
// and labels it with frame index and timestamp.
func Render(cells []Cell, opts Options) (image.Image, error) {
	if len(cells) == 0 {
		return nil, errors.New("no frames to render")
	}
	if opts.Columns < 1 {
		opts.Columns = 1
	}
	if opts.CellWidth < 16 {
		opts.CellWidth = 16
	}

	cellHeight := scaledHeight(cells[0].Image, opts.CellWidth)
	rows := (len(cells) + opts.Columns - 1) / opts.Columns
	sheetWidth := opts.Columns*opts.CellWidth + (opts.Columns+1)*opts.Gap
	sheetHeight := rows*(cellHeight+opts.LabelSpace) + (rows+1)*opts.Gap

	dc := gg.NewContext(sheetWidth, sheetHeight)
	dc.SetRGB(0.1, 0.1, 0.18)
	dc.Clear()

	for i, cell := range cells {
		col := i % opts.Columns
		row := i / opts.Columns
		x := opts.Gap + col*(opts.CellWidth+opts.Gap)
		y := opts.Gap + row*(cellHeight+opts.LabelSpace+opts.Gap)

		scaled := scale(cell.Image, opts.CellWidth, cellHeight)
		dc.DrawImage(scaled, x, y)

		label := fmt.Sprintf("#%d", cell.Index)
		if cell.TimestampSeconds >= 0 {
			label = fmt.Sprintf("#%d  %.3fs", cell.Index, cell.TimestampSeconds)
		}
		dc.SetRGB(0.9, 0.9, 0.9)
		dc.DrawString(label, float64(x), float64(y+cellHeight+opts.LabelSpace-4))
	}
	return dc.Image(), nil
}

func scaledHeight(img image.Image, width int) int {
	b := img.Bounds()
	if b.Dx() == 0 {
		return width
	}
	return b.Dy() * width / b.Dx()
}

func scale(img image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}
