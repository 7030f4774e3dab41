package scene

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
)

// Collection owns the ordered placeholders of one image container. Order is
// creation/load order; it matters only for id assignment and for positional
// pairing during grading.
type Collection struct {
	containerID string
	role        models.Role
	items       []*Placeholder
}

// NewCollection builds an empty collection for the container with the given
// id. The id becomes the prefix of every placeholder id.
func NewCollection(containerID string, role models.Role) *Collection {
	return &Collection{
		containerID: containerID,
		role:        role,
	}
}

// Len returns the number of placeholders.
func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns the placeholders in order. The slice is shared; callers must
// not mutate it.
func (c *Collection) Items() []*Placeholder {
	return c.items
}

// At returns the placeholder at an index, or nil when out of range.
func (c *Collection) At(index int) *Placeholder {
	if index < 0 || index >= len(c.items) {
		return nil
	}
	return c.items[index]
}

// NextID returns a fresh unique placeholder id "<containerID>_plh_<n>" where
// n is one more than the largest suffix currently present (minimum 1).
// Suffixes of deleted placeholders are never reused.
func (c *Collection) NextID() string {
	prefix := c.containerID + "_plh_"
	maxNr := 0
	for _, item := range c.items {
		nr, err := strconv.Atoi(strings.TrimPrefix(item.ID, prefix))
		if err == nil && nr > maxNr {
			maxNr = nr
		}
	}
	return prefix + strconv.Itoa(maxNr+1)
}

// Append adds a placeholder to the end of the collection.
func (c *Collection) Append(p *Placeholder) {
	c.items = append(c.items, p)
}

// Remove deletes the placeholder with the given id. Absent ids are a no-op.
func (c *Collection) Remove(id string) {
	for i, item := range c.items {
		if item.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// ByID finds a placeholder by its full id.
func (c *Collection) ByID(id string) *Placeholder {
	for _, item := range c.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// IndexOf returns the index of the placeholder with the given id, or -1.
func (c *Collection) IndexOf(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// ApplyGeometry reapplies representation geometry to every member.
func (c *Collection) ApplyGeometry(magFactor float64) {
	for _, item := range c.items {
		item.ApplyGeometry(magFactor)
	}
}

// FindImageByName returns the first image placeholder currently holding the
// named image.
func (c *Collection) FindImageByName(name string) *Placeholder {
	for _, item := range c.items {
		if item.Type == models.PlaceholderImage && item.Image != nil && item.Image.Name == name {
			return item
		}
	}
	return nil
}

// SetImageRects forces every image placeholder to the given intrinsic
// height and width.
func (c *Collection) SetImageRects(height, width, magFactor float64) {
	for _, item := range c.items {
		if item.Type == models.PlaceholderImage {
			item.AdjustRectangle(height, width, magFactor)
		}
	}
}

// SyncFrom propagates the rectangle of the placeholder at index to every
// image placeholder.
func (c *Collection) SyncFrom(index int, magFactor float64) {
	src := c.At(index)
	if src == nil {
		return
	}
	c.SetImageRects(src.Rect.Height, src.Rect.Width, magFactor)
}

// DisableTextAreas toggles editing on all text placeholders. Disabling also
// resets any cursor left behind on the text node.
func (c *Collection) DisableTextAreas(disabled bool) {
	for _, item := range c.items {
		if item.Type == models.PlaceholderText {
			item.TextDisabled = disabled
			item.Cursor = geometry.CursorNone
		}
	}
}

// Serialize emits the portable representation of every member in order.
func (c *Collection) Serialize() []models.PlaceholderRep {
	reps := make([]models.PlaceholderRep, 0, len(c.items))
	for _, item := range c.items {
		reps = append(reps, item.Serialize())
	}
	return reps
}

// Load materializes placeholders from their stored representation. Ids from
// the store are re-prefixed with the container id. Content loads in two
// separate phases, all images first and then all text; the ordering is part
// of the contract.
func (c *Collection) Load(ctx context.Context, reps []models.PlaceholderRep, loader content.Loader) error {
	for _, rep := range reps {
		p := NewPlaceholder(c.role, c.containerID+"_"+rep.ID, rep.Type, rep.FullRect)
		if rep.Type == models.PlaceholderText {
			p.Text = rep.Content
		}
		if c.role == models.RoleAnswer {
			p.SetEval(rep.Eval)
		}
		c.Append(p)
	}
	// Phase one: image content.
	if err := c.loadImageContent(ctx, reps, loader); err != nil {
		return err
	}
	// Phase two: text content.
	c.loadTextContent(reps)
	return nil
}

func (c *Collection) loadImageContent(ctx context.Context, reps []models.PlaceholderRep, loader content.Loader) error {
	for i, rep := range reps {
		if rep.Type != models.PlaceholderImage || rep.Content == "" {
			continue
		}
		img, err := loader.Load(ctx, rep.Content)
		if err != nil {
			return fmt.Errorf("placeholder %s: %w", rep.ID, err)
		}
		c.items[i].SetImage(img)
	}
	return nil
}

func (c *Collection) loadTextContent(reps []models.PlaceholderRep) {
	for i, rep := range reps {
		if rep.Type == models.PlaceholderText {
			c.items[i].Text = rep.Content
		}
	}
}

// ShrinkImages refits every image placeholder around its held image. Used by
// the solution and answer roles after loading.
func (c *Collection) ShrinkImages(magFactor float64) {
	for _, item := range c.items {
		item.ShrinkToImage(magFactor)
	}
	c.ApplyGeometry(magFactor)
}
