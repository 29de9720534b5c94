package image

import (
	"image/color"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

type PlotStyle struct {
	Color  color.RGBA
	Dashes []vg.Length
	Glyph  draw.GlyphDrawer
}

var solid []vg.Length
var dashed = []vg.Length{vg.Points(4), vg.Points(2)}
var dotted = []vg.Length{vg.Points(1), vg.Points(2)}

// One style per partition configuration. Solid lines with distinct
// colors and markers first, dashed and dotted variants for experiments
// comparing more configurations than colors.
var PartitionStyles = []PlotStyle{
	{Color: color.RGBA{R: 200, A: 255}, Dashes: solid, Glyph: draw.CrossGlyph{}},
	{Color: color.RGBA{B: 200, A: 255}, Dashes: solid, Glyph: draw.SquareGlyph{}},
	{Color: color.RGBA{G: 140, A: 255}, Dashes: solid, Glyph: draw.CircleGlyph{}},
	{Color: color.RGBA{R: 230, G: 130, A: 255}, Dashes: solid, Glyph: draw.TriangleGlyph{}},
	{Color: color.RGBA{R: 130, B: 180, A: 255}, Dashes: solid, Glyph: draw.PyramidGlyph{}},
	{Color: color.RGBA{R: 140, G: 90, B: 40, A: 255}, Dashes: solid, Glyph: draw.PlusGlyph{}},
	{Color: color.RGBA{A: 255}, Dashes: solid, Glyph: draw.RingGlyph{}},
	{Color: color.RGBA{G: 180, B: 200, A: 255}, Dashes: solid, Glyph: draw.BoxGlyph{}},

	{Color: color.RGBA{R: 200, A: 255}, Dashes: dashed, Glyph: draw.CrossGlyph{}},
	{Color: color.RGBA{B: 200, A: 255}, Dashes: dashed, Glyph: draw.SquareGlyph{}},
	{Color: color.RGBA{G: 140, A: 255}, Dashes: dashed, Glyph: draw.CircleGlyph{}},
	{Color: color.RGBA{R: 230, G: 130, A: 255}, Dashes: dashed, Glyph: draw.TriangleGlyph{}},

	{Color: color.RGBA{R: 200, A: 255}, Dashes: dotted, Glyph: draw.CrossGlyph{}},
	{Color: color.RGBA{B: 200, A: 255}, Dashes: dotted, Glyph: draw.SquareGlyph{}},
	{Color: color.RGBA{G: 140, A: 255}, Dashes: dotted, Glyph: draw.CircleGlyph{}},
	{Color: color.RGBA{R: 230, G: 130, A: 255}, Dashes: dotted, Glyph: draw.TriangleGlyph{}},
}

// BoundaryLineColor is used for the vertical cache-level reference
// lines.
var BoundaryLineColor = color.RGBA{R: 120, G: 120, B: 120, A: 255}

func GetPartitionStyle(index int) PlotStyle {
	if index < 0 {
		index = 0
	}
	return PartitionStyles[index%len(PartitionStyles)]
}
