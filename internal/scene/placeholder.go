// Package scene is the in-memory model of one editing surface: the image
// container with its placeholder collection, the auxiliary gallery and the
// drag payload protocol that moves content between them. Nodes carry their
// visual class and cursor as plain state so the controller (internal/editor)
// stays the single owner of all mutation.
package scene

import (
	"fmt"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
)

const (
	// MinPlaceholderSize is the minimal intrinsic height and width of a
	// placeholder. Every rectangle mutation clamps to it.
	MinPlaceholderSize = 12

	// ResizeBorder is the hit-zone thickness for whole-image resizing.
	ResizeBorder = 10

	// PlaceholderResizeBorder is the hit-zone thickness for placeholder
	// resize handles.
	PlaceholderResizeBorder = 20

	// borderInset compensates the placeholder border when fitting a dropped
	// image: two representation pixels per side.
	borderInset = 4
)

// Placeholder is a positioned rectangular region over the base image holding
// either an image or a text answer. Rect is intrinsic; Display is derived
// representation geometry and recomputed by ApplyGeometry.
type Placeholder struct {
	ID           string
	Type         models.PlaceholderType
	Rect         geometry.Rect
	OriginalRect geometry.Rect
	Eval         models.Evaluation

	// Visual state of the node backing this placeholder.
	Class   string
	Cursor  geometry.Cursor
	Display geometry.Rect

	// Content. Image for image placeholders, Text for text placeholders.
	Image        *content.ImageHandle
	Text         string
	TextDisabled bool

	role models.Role
}

// NewPlaceholder builds a placeholder for one of the four roles. The given
// rectangle (intrinsic coordinates) is clamped to the minimum size and
// snapshotted as the original rectangle used by ShrinkToImage.
func NewPlaceholder(role models.Role, id string, typ models.PlaceholderType, rect geometry.Rect) *Placeholder {
	p := &Placeholder{
		ID:   id,
		Type: typ,
		Rect: rect,
		role: role,
	}
	p.clampMin()
	p.OriginalRect = p.Rect
	p.Class = p.baseClass()
	return p
}

// Role returns the role the placeholder was built for.
func (p *Placeholder) Role() models.Role {
	return p.role
}

// baseClass is the visual class applied while the placeholder shows its own
// frame. The answer role derives its class from the grading verdict.
func (p *Placeholder) baseClass() string {
	suffix := "Img"
	if p.Type == models.PlaceholderText {
		suffix = "Txt"
	}
	switch p.role {
	case models.RoleEditor:
		return "imedEditorPlaceholder" + suffix
	case models.RoleQuestion:
		return "imedQuestionPlaceholder" + suffix
	case models.RoleSolution:
		return "imedRightPlh" + suffix
	case models.RoleAnswer:
		return p.evalClass() + suffix
	default:
		return "imedPlaceholder" + suffix
	}
}

func (p *Placeholder) evalClass() string {
	switch p.Eval {
	case models.EvalCorrect:
		return "imedRightPlh"
	case models.EvalIncorrect:
		return "imedWrongPlh"
	case models.EvalUnanswered:
		return "imedNoAnsPlh"
	default:
		return "imedAnsPlh"
	}
}

// AcceptsDrop tells whether this placeholder is a drop target for images.
// Only the authoring and student-facing roles take drops, and only on image
// placeholders.
func (p *Placeholder) AcceptsDrop() bool {
	if p.Type != models.PlaceholderImage {
		return false
	}
	return p.role == models.RoleEditor || p.role == models.RoleQuestion
}

// ApplyGeometry recomputes the representation geometry from the intrinsic
// rectangle and the container's magnification factor.
func (p *Placeholder) ApplyGeometry(magFactor float64) {
	p.Display = geometry.Rect{
		Top:    magFactor * p.Rect.Top,
		Left:   magFactor * p.Rect.Left,
		Height: magFactor * p.Rect.Height,
		Width:  magFactor * p.Rect.Width,
	}
}

func (p *Placeholder) clampMin() {
	if p.Rect.Height < MinPlaceholderSize {
		p.Rect.Height = MinPlaceholderSize
	}
	if p.Rect.Width < MinPlaceholderSize {
		p.Rect.Width = MinPlaceholderSize
	}
}

// AdjustDimensions applies a position-dependent resize rule. Deltas are in
// intrinsic units. Dragging the center translates; dragging the bottom or
// right edge grows the respective dimension; dragging the top or left edge
// moves the origin while keeping the opposite edge fixed. Dimensions are
// clamped to the minimum before the geometry is reapplied.
func (p *Placeholder) AdjustDimensions(pos geometry.Position, dx, dy, magFactor float64) {
	switch pos {
	case geometry.PosCenter:
		p.Rect.Left += dx
		p.Rect.Top += dy
	case geometry.PosBottom:
		p.Rect.Height += dy
	case geometry.PosRight:
		p.Rect.Width += dx
	case geometry.PosTop:
		p.Rect.Top += dy
		p.Rect.Height -= dy
	case geometry.PosLeft:
		p.Rect.Left += dx
		p.Rect.Width -= dx
	}
	p.clampMin()
	p.ApplyGeometry(magFactor)
}

// AdjustRectangle overwrites height and width, used when synchronizing image
// placeholder sizes.
func (p *Placeholder) AdjustRectangle(height, width, magFactor float64) {
	p.Rect.Height = height
	p.Rect.Width = width
	p.clampMin()
	p.ApplyGeometry(magFactor)
}

// SetImage assigns image content and marks the frame as filled.
func (p *Placeholder) SetImage(img content.ImageHandle) {
	p.Image = &img
	if p.role == models.RoleQuestion {
		p.Class = "imedEmptyPlaceholderImg"
	}
}

// RemoveImage clears image content, restores the role's base class and the
// pre-drop rectangle.
func (p *Placeholder) RemoveImage(magFactor float64) {
	p.Image = nil
	p.Class = p.baseClass()
	p.Rect = p.OriginalRect
	p.ApplyGeometry(magFactor)
}

// SetEval records a grading verdict and recomputes the answer-role class.
func (p *Placeholder) SetEval(eval models.Evaluation) {
	p.Eval = eval
	p.Class = p.baseClass()
}

// ShrinkToImage resets the rectangle to its original size, then shrinks one
// dimension so the frame matches the held image's aspect ratio, compensating
// the border inset. The frame never grows beyond the original rectangle.
func (p *Placeholder) ShrinkToImage(magFactor float64) {
	if p.Type != models.PlaceholderImage || p.Image == nil {
		return
	}
	// Restart from the original dimensions to prevent a shrinking chain
	// alternately shrinking width and height.
	p.Rect = p.OriginalRect

	imgRatio := p.Image.Ratio()
	corrector := borderInset / magFactor
	corrected := geometry.Rect{
		Height: p.Rect.Height - corrector,
		Width:  p.Rect.Width - corrector,
	}
	plhRatio := 1.0
	if corrected.Height > 0 {
		plhRatio = corrected.Width / corrected.Height
	}
	if imgRatio <= plhRatio {
		p.Rect.Width = corrected.Height*imgRatio + corrector
	} else {
		p.Rect.Height = corrected.Width/imgRatio + corrector
	}
}

// Content reads the current content value: the stored image name for image
// placeholders, the text value for text placeholders.
func (p *Placeholder) Content() string {
	if p.Type == models.PlaceholderImage {
		if p.Image == nil {
			return ""
		}
		return p.Image.Name
	}
	return p.Text
}

// Serialize emits the portable representation. The container prefix is
// stripped from the id so stored layouts stay instance-independent.
func (p *Placeholder) Serialize() models.PlaceholderRep {
	return models.PlaceholderRep{
		Type:     p.Type,
		ID:       models.StripIDPrefix(p.ID),
		Content:  p.Content(),
		FullRect: p.Rect,
		Eval:     p.Eval,
	}
}

func (p *Placeholder) String() string {
	return fmt.Sprintf("placeholder %s (%s) %+v", p.ID, p.Type, p.Rect)
}
