package scene

import (
	"context"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/models"
)

// Gallery is the strip of draggable images next to the container. In the
// editor it is the working set the author uploads into; in the question it
// is the pool the answerer drags from, shrinking as images are placed.
type Gallery struct {
	role  models.Role
	items []content.ImageHandle
}

// NewGallery builds an empty gallery for the given role.
func NewGallery(role models.Role) *Gallery {
	return &Gallery{role: role}
}

// Len returns the number of gallery images.
func (g *Gallery) Len() int {
	return len(g.items)
}

// Items returns the gallery images in order.
func (g *Gallery) Items() []content.ImageHandle {
	return g.items
}

// ByName returns the first gallery image with the given name.
func (g *Gallery) ByName(name string) (content.ImageHandle, bool) {
	for _, item := range g.items {
		if item.Name == name {
			return item, true
		}
	}
	return content.ImageHandle{}, false
}

// Contains reports whether an image of that name is present.
func (g *Gallery) Contains(name string) bool {
	_, ok := g.ByName(name)
	return ok
}

// Append adds an image to the end of the gallery. Duplicate names are
// allowed; the same image may be placed more than once.
func (g *Gallery) Append(img content.ImageHandle) {
	g.items = append(g.items, img)
}

// Remove deletes the first image with the given name. Absent names are a
// no-op.
func (g *Gallery) Remove(name string) {
	for i, item := range g.items {
		if item.Name == name {
			g.items = append(g.items[:i], g.items[i+1:]...)
			return
		}
	}
}

// Serialize emits the gallery image names in order.
func (g *Gallery) Serialize() []string {
	names := make([]string, 0, len(g.items))
	for _, item := range g.items {
		names = append(names, item.Name)
	}
	return names
}

// Load fills the gallery from stored image names. In the editor a missing
// image aborts the load; in other roles it is skipped, so a question still
// opens when a gallery image has been removed from the store since.
func (g *Gallery) Load(ctx context.Context, names []string, loader content.Loader) error {
	for _, name := range names {
		img, err := loader.Load(ctx, name)
		if err != nil {
			if g.role == models.RoleEditor {
				return err
			}
			continue
		}
		g.Append(img)
	}
	return nil
}
