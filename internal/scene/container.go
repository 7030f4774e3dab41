package scene

import (
	"context"
	"fmt"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
)

// Container is the image container: one base image plus the placeholders
// laid out over it. Placeholder rectangles are stored at intrinsic image
// scale; the representation scale is intrinsic multiplied by MagFactor.
type Container struct {
	ID        string
	role      models.Role
	BaseImage content.ImageHandle

	// Intrinsic dimensions of the base image.
	Height float64
	Width  float64

	// MagFactor maps intrinsic coordinates to representation coordinates.
	MagFactor float64

	Placeholders *Collection

	// In-progress area trace, editor role only.
	areaStart  *geometry.Point
	areaRect   geometry.Rect
	areaActive bool
}

// NewContainer builds an empty container around a base image at MagFactor 1.
func NewContainer(id string, role models.Role, img content.ImageHandle) *Container {
	return &Container{
		ID:           id,
		role:         role,
		BaseImage:    img,
		Height:       img.Height,
		Width:        img.Width,
		MagFactor:    1,
		Placeholders: NewCollection(id, role),
	}
}

// Role returns the container's role.
func (c *Container) Role() models.Role {
	return c.role
}

// Ratio returns width divided by height, or 1 when the height is not
// positive.
func (c *Container) Ratio() float64 {
	if c.Height <= 0 {
		return 1
	}
	return c.Width / c.Height
}

// DisplayHeight returns the representation height.
func (c *Container) DisplayHeight() float64 {
	return c.Height * c.MagFactor
}

// DisplayWidth returns the representation width.
func (c *Container) DisplayWidth() float64 {
	return c.Width * c.MagFactor
}

// DisplayRect returns the representation rectangle anchored at the origin.
func (c *Container) DisplayRect() geometry.Rect {
	return geometry.Rect{Height: c.DisplayHeight(), Width: c.DisplayWidth()}
}

// ApplyGeometry reapplies the representation geometry of the container and
// all of its placeholders.
func (c *Container) ApplyGeometry() {
	c.Placeholders.ApplyGeometry(c.MagFactor)
}

// Resize scales the whole container so the representation matches the given
// display height, preserving the image aspect ratio. Intrinsic dimensions
// are untouched; only MagFactor changes.
func (c *Container) Resize(displayHeight float64) {
	if c.Height <= 0 || displayHeight <= 0 {
		return
	}
	c.MagFactor = displayHeight / c.Height
	c.ApplyGeometry()
}

// ResizeBy adjusts the display height by a delta, clamping so the
// container never collapses below the minimum placeholder size.
func (c *Container) ResizeBy(dy float64) {
	h := c.DisplayHeight() + dy
	if h < MinPlaceholderSize {
		h = MinPlaceholderSize
	}
	c.Resize(h)
}

// BorderCursorAt classifies a representation-space point against the
// container border and returns the matching cursor. Only the bottom and
// right edges (and their corner) are resize handles.
func (c *Container) BorderCursorAt(pt geometry.Point) (geometry.Position, geometry.Cursor) {
	active := geometry.Positions(geometry.PosBottom, geometry.PosRight, geometry.PosResizeCorner)
	pos := geometry.ClassifyPosition(pt, c.DisplayRect(), ResizeBorder)
	return pos, geometry.CursorFor(pos, active)
}

// PlaceholderAt returns the topmost placeholder whose representation
// rectangle contains the point, together with the point's position within
// it. Later placeholders win, matching paint order.
func (c *Container) PlaceholderAt(pt geometry.Point) (*Placeholder, geometry.Position) {
	items := c.Placeholders.Items()
	for i := len(items) - 1; i >= 0; i-- {
		rect := items[i].Rect.Scale(c.MagFactor)
		pos := geometry.ClassifyPosition(rect.ToLocal(pt), rect, PlaceholderResizeBorder)
		if pos != geometry.PosOutside {
			return items[i], pos
		}
	}
	return nil, geometry.PosOutside
}

// BeginArea starts tracing a new area at a representation-space point. The
// trace is refused while another one is active.
func (c *Container) BeginArea(pt geometry.Point) bool {
	if c.areaActive {
		return false
	}
	c.areaStart = &pt
	c.areaRect = geometry.Rect{Top: pt.Y, Left: pt.X}
	c.areaActive = true
	return true
}

// TraceArea extends the active trace to the current pointer position and
// returns the normalized preview rectangle.
func (c *Container) TraceArea(pt geometry.Point) (geometry.Rect, bool) {
	if !c.areaActive || c.areaStart == nil {
		return geometry.Rect{}, false
	}
	c.areaRect = geometry.NormalizeRect(*c.areaStart, pt)
	return c.areaRect, true
}

// CommitArea finishes the trace and materializes it as a new placeholder of
// the given type. The traced rectangle is representation-space and is
// divided back to intrinsic scale before storage.
func (c *Container) CommitArea(typ models.PlaceholderType) *Placeholder {
	if !c.areaActive {
		return nil
	}
	rect := c.areaRect.Scale(1 / c.MagFactor)
	c.areaStart = nil
	c.areaActive = false
	p := NewPlaceholder(c.role, c.Placeholders.NextID(), typ, rect)
	c.Placeholders.Append(p)
	p.ApplyGeometry(c.MagFactor)
	return p
}

// CancelArea drops an active trace without creating a placeholder.
func (c *Container) CancelArea() {
	c.areaStart = nil
	c.areaActive = false
}

// AreaActive reports whether a trace is in progress.
func (c *Container) AreaActive() bool {
	return c.areaActive
}

// Serialize emits the portable representation of the container.
func (c *Container) Serialize() *models.ContainerRep {
	return &models.ContainerRep{
		BaseImage:    c.BaseImage.Name,
		Height:       c.Height,
		Width:        c.Width,
		Ratio:        c.Ratio(),
		MagFactor:    c.MagFactor,
		Placeholders: c.Placeholders.Serialize(),
	}
}

// LoadContainer rebuilds a container from its stored representation. The
// base image is reloaded so intrinsic dimensions come from the image itself
// rather than the stored copy; the stored MagFactor is kept.
func LoadContainer(ctx context.Context, id string, role models.Role, rep *models.ContainerRep, loader content.Loader) (*Container, error) {
	img, err := loader.Load(ctx, rep.BaseImage)
	if err != nil {
		return nil, fmt.Errorf("base image: %w", err)
	}
	c := NewContainer(id, role, img)
	if rep.MagFactor > 0 {
		c.MagFactor = rep.MagFactor
	}
	if err := c.Placeholders.Load(ctx, rep.Placeholders, loader); err != nil {
		return nil, err
	}
	if role == models.RoleSolution || role == models.RoleAnswer {
		c.Placeholders.ShrinkImages(c.MagFactor)
	}
	c.ApplyGeometry()
	return c, nil
}
