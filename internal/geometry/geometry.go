// Package geometry holds the pure rectangle math used by the layout editor:
// normalization of freehand rectangles, hit-zone classification for resize
// handles and the cursor affordance derived from a classified position.
// Everything operates on abstract coordinates; callers decide whether the
// values are intrinsic or representation pixels.
package geometry

// Point is a position in a rectangle-local coordinate system with the origin
// in the upper left corner.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect describes an axis-aligned rectangle. Top/Left position the upper left
// corner; Height and Width are always non-negative after normalization.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"`
}

// Scale returns the rectangle with every coordinate multiplied by f.
func (r Rect) Scale(f float64) Rect {
	return Rect{
		Top:    r.Top * f,
		Left:   r.Left * f,
		Height: r.Height * f,
		Width:  r.Width * f,
	}
}

// ToLocal translates a point into the rectangle's local coordinate system.
func (r Rect) ToLocal(pt Point) Point {
	return Point{X: pt.X - r.Left, Y: pt.Y - r.Top}
}

// Position classifies where a point sits within a rectangle.
type Position string

const (
	PosOutside      Position = "outside"
	PosTop          Position = "top"
	PosBottom       Position = "bottom"
	PosLeft         Position = "left"
	PosRight        Position = "right"
	PosResizeCorner Position = "resizecorner" // lower right corner
	PosCenter       Position = "center"
)

// Cursor names map onto the CSS cursor vocabulary the front end applies.
type Cursor string

const (
	CursorNone      Cursor = ""
	CursorDefault   Cursor = "default"
	CursorDiagonal  Cursor = "nwse-resize"
	CursorVertical  Cursor = "ns-resize"
	CursorHorizonal Cursor = "ew-resize"
	CursorGrab      Cursor = "grab"
	CursorCrosshair Cursor = "crosshair"
	CursorPointer   Cursor = "pointer"
)

// NormalizeRect builds the axis-aligned rectangle spanned by two diagonal
// corner points. Which of the two corners comes first is indifferent.
func NormalizeRect(p1, p2 Point) Rect {
	r := Rect{
		Top:  p2.Y,
		Left: p2.X,
	}
	if p1.Y <= p2.Y {
		r.Top = p1.Y
	}
	if p1.X <= p2.X {
		r.Left = p1.X
	}
	r.Height = abs(p2.Y - p1.Y)
	r.Width = abs(p2.X - p1.X)
	return r
}

// ClassifyPosition returns where pt sits within a rectangle of rect's
// dimensions (pt is rect-local, so Top/Left are ignored). borderWidth is the
// thickness of the triggering border; it is clamped per axis to a third of
// the rectangle's dimension so the center zone never vanishes for small
// rectangles. The lower right corner wins over the bottom and right borders.
func ClassifyPosition(pt Point, rect Rect, borderWidth float64) Position {
	horzBorder := borderWidth
	if horzBorder > rect.Height/3 {
		horzBorder = rect.Height / 3
	}
	vertBorder := borderWidth
	if vertBorder > rect.Width/3 {
		vertBorder = rect.Width / 3
	}
	if pt.Y < 0 || pt.Y > rect.Height || pt.X < 0 || pt.X > rect.Width {
		return PosOutside
	}
	switch {
	case pt.Y > rect.Height-horzBorder && pt.X > rect.Width-vertBorder:
		return PosResizeCorner
	case pt.Y < horzBorder:
		return PosTop
	case pt.Y > rect.Height-horzBorder:
		return PosBottom
	case pt.X < vertBorder:
		return PosLeft
	case pt.X > rect.Width-vertBorder:
		return PosRight
	default:
		return PosCenter
	}
}

// CursorFor maps a classified position to a resize cursor. Positions outside
// the active set yield CursorNone so the caller leaves the cursor untouched.
func CursorFor(pos Position, active map[Position]bool) Cursor {
	if !active[pos] {
		return CursorNone
	}
	switch pos {
	case PosResizeCorner:
		return CursorDiagonal
	case PosTop, PosBottom:
		return CursorVertical
	case PosLeft, PosRight:
		return CursorHorizonal
	case PosCenter:
		return CursorGrab
	default:
		return CursorDefault
	}
}

// Positions is a convenience constructor for active-position sets.
func Positions(ps ...Position) map[Position]bool {
	set := make(map[Position]bool, len(ps))
	for _, p := range ps {
		set[p] = true
	}
	return set
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
