// Package plot places a mapped field inside a rectangle of screen cells.
//
// A mapper with a viewport of W x H pixels produces columns 0..W and rows
// 0..H inclusive, so the field needs one extra cell in each direction, plus
// one row under it for the ground line.
package plot

import (
	"github.com/vovakirdan/tui-bounce/internal/config"
	"github.com/vovakirdan/tui-bounce/internal/core"
	"github.com/vovakirdan/tui-bounce/internal/viewport"
)

// Fit scales field so that it and its ground line fit inside area.
func Fit(area core.Rect, field config.FieldConfig) config.FieldConfig {
	return field.FitTo(area.W-1, area.H-2)
}

// Area is a field placed on the screen, bottom-aligned and horizontally
// centered in the rectangle it was fitted to.
type Area struct {
	OriginX, OriginY int // Screen cell of pixel (0, 0)
	Width, Height    int // Viewport size in pixels
}

// Place positions the viewport of m inside area.
func Place(area core.Rect, m *viewport.Mapper) Area {
	w, h := m.ViewportSize()
	return Area{
		OriginX: area.X + max((area.W-(w+1))/2, 0),
		OriginY: area.Bottom() - 2 - h,
		Width:   w,
		Height:  h,
	}
}

// Cell converts a viewport pixel to a screen cell.
func (a Area) Cell(px, py int) (x, y int) {
	return a.OriginX + px, a.OriginY + py
}

// GroundRow returns the screen row just below height zero.
func (a Area) GroundRow() int {
	return a.OriginY + a.Height + 1
}

// DrawGround draws the ground line under the whole field.
func (a Area) DrawGround(dst *core.Screen) {
	dst.DrawHLine(a.OriginX, a.GroundRow(), a.Width+1, '▀', core.ColorGround)
}
