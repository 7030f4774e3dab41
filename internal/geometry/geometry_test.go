package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeRect(t *testing.T) {
	tests := []struct {
		name     string
		p1, p2   Point
		expected Rect
	}{
		{
			name:     "top-left to bottom-right",
			p1:       Point{X: 10, Y: 20},
			p2:       Point{X: 110, Y: 70},
			expected: Rect{Top: 20, Left: 10, Height: 50, Width: 100},
		},
		{
			name:     "bottom-right to top-left",
			p1:       Point{X: 110, Y: 70},
			p2:       Point{X: 10, Y: 20},
			expected: Rect{Top: 20, Left: 10, Height: 50, Width: 100},
		},
		{
			name:     "top-right to bottom-left",
			p1:       Point{X: 110, Y: 20},
			p2:       Point{X: 10, Y: 70},
			expected: Rect{Top: 20, Left: 10, Height: 50, Width: 100},
		},
		{
			name:     "degenerate point",
			p1:       Point{X: 5, Y: 5},
			p2:       Point{X: 5, Y: 5},
			expected: Rect{Top: 5, Left: 5, Height: 0, Width: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeRect(tt.p1, tt.p2))
		})
	}
}

func TestNormalizeRectSymmetry(t *testing.T) {
	pts := []Point{{0, 0}, {-3, 7}, {100, 2.5}, {42.2, -13}}
	for _, a := range pts {
		for _, b := range pts {
			ra := NormalizeRect(a, b)
			rb := NormalizeRect(b, a)
			assert.Equal(t, ra, rb)
			assert.GreaterOrEqual(t, ra.Height, 0.0)
			assert.GreaterOrEqual(t, ra.Width, 0.0)
		}
	}
}

func TestClassifyPosition(t *testing.T) {
	rect := Rect{Height: 100, Width: 100}

	tests := []struct {
		name     string
		pt       Point
		expected Position
	}{
		{"top border", Point{X: 50, Y: 5}, PosTop},
		{"right border", Point{X: 95, Y: 50}, PosRight},
		{"lower right corner", Point{X: 95, Y: 95}, PosResizeCorner},
		{"center", Point{X: 50, Y: 50}, PosCenter},
		{"outside left", Point{X: -1, Y: 50}, PosOutside},
		{"outside below", Point{X: 50, Y: 101}, PosOutside},
		{"bottom border", Point{X: 50, Y: 95}, PosBottom},
		{"left border", Point{X: 5, Y: 50}, PosLeft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyPosition(tt.pt, rect, 10))
		})
	}
}

func TestClassifyPositionBorderClamp(t *testing.T) {
	// A 20 high rectangle clamps the effective vertical border to 20/3, so a
	// point below the clamped border but within the naive 10 is center.
	rect := Rect{Height: 20, Width: 100}

	assert.Equal(t, PosCenter, ClassifyPosition(Point{X: 50, Y: 8}, rect, 10))
	assert.Equal(t, PosTop, ClassifyPosition(Point{X: 50, Y: 5}, rect, 10))
	assert.Equal(t, PosBottom, ClassifyPosition(Point{X: 50, Y: 15}, rect, 10))
}

func TestCursorFor(t *testing.T) {
	all := Positions(PosTop, PosBottom, PosLeft, PosRight, PosResizeCorner, PosCenter, PosOutside)

	tests := []struct {
		pos      Position
		active   map[Position]bool
		expected Cursor
	}{
		{PosResizeCorner, all, CursorDiagonal},
		{PosTop, all, CursorVertical},
		{PosBottom, all, CursorVertical},
		{PosLeft, all, CursorHorizonal},
		{PosRight, all, CursorHorizonal},
		{PosCenter, all, CursorGrab},
		{PosOutside, all, CursorDefault},
		{PosResizeCorner, Positions(PosBottom, PosRight), CursorNone},
		{PosCenter, Positions(PosTop), CursorNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CursorFor(tt.pos, tt.active))
	}
}
