// Package viewport translates positions in the physical field into display
// coordinates.
//
// The physical field is the first quadrant of conventional coordinates: (0, 0)
// is the bottom-left corner and Y grows upwards, in meters. The pixel viewport
// has its origin at the top-left corner and Y grows downwards.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidArgument is returned for non-positive field dimensions or scale.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrOutOfBounds is returned when a coordinate lies outside the field.
	ErrOutOfBounds = errors.New("out of bounds")
)

// Mapper converts physical coordinates to pixel coordinates.
// It is immutable after construction and safe for concurrent use.
type Mapper struct {
	widthM         float64
	heightM        float64
	pixelsPerMeter float64
	widthPx        int
	heightPx       int
}

// NewMapper creates a mapper for a field of the given size in meters drawn at
// pixelsPerMeter.
func NewMapper(widthMeters, heightMeters, pixelsPerMeter float64) (*Mapper, error) {
	for _, p := range []struct {
		name string
		val  float64
	}{
		{"width", widthMeters},
		{"height", heightMeters},
		{"pixels per meter", pixelsPerMeter},
	} {
		if !(p.val > 0) || math.IsInf(p.val, 0) {
			return nil, fmt.Errorf("viewport: %s must be positive, got %v: %w", p.name, p.val, ErrInvalidArgument)
		}
	}

	return &Mapper{
		widthM:         widthMeters,
		heightM:        heightMeters,
		pixelsPerMeter: pixelsPerMeter,
		widthPx:        int(math.Round(widthMeters * pixelsPerMeter)),
		heightPx:       int(math.Round(heightMeters * pixelsPerMeter)),
	}, nil
}

// ViewportSize returns the pixel dimensions of the field.
func (m *Mapper) ViewportSize() (width, height int) {
	return m.widthPx, m.heightPx
}

// MapX converts a horizontal position in meters to a pixel column.
func (m *Mapper) MapX(x float64) (int, error) {
	if !(x >= 0 && x <= m.widthM) {
		return 0, fmt.Errorf("viewport: x %v outside [0, %v]: %w", x, m.widthM, ErrOutOfBounds)
	}
	return int(math.Round(x / m.widthM * float64(m.widthPx))), nil
}

// MapY converts a height in meters to a pixel row. The ground (y = 0) maps to
// the bottom of the viewport and the top of the field to row 0.
func (m *Mapper) MapY(y float64) (int, error) {
	if !(y >= 0 && y <= m.heightM) {
		return 0, fmt.Errorf("viewport: y %v outside [0, %v]: %w", y, m.heightM, ErrOutOfBounds)
	}
	flipped := m.heightM - y
	return int(math.Round(flipped / m.heightM * float64(m.heightPx))), nil
}

// WidthMeters returns the field width.
func (m *Mapper) WidthMeters() float64 { return m.widthM }

// HeightMeters returns the field height.
func (m *Mapper) HeightMeters() float64 { return m.heightM }

// PixelsPerMeter returns the scale factor.
func (m *Mapper) PixelsPerMeter() float64 { return m.pixelsPerMeter }
