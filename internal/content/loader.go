// Package content resolves stored image names into loaded image handles.
// It is the editing engine's view of the image store: the engine only ever
// needs a name and the intrinsic dimensions, never pixel data.
package content

import (
	"context"
	"fmt"
	"image"
	"io"

	// Decoders for the allowed upload formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageHandle describes a loaded image.
type ImageHandle struct {
	Name   string  `json:"name"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Ratio is width/height, or 1 for a degenerate image.
func (h ImageHandle) Ratio() float64 {
	if h.Height <= 0 {
		return 1
	}
	return h.Width / h.Height
}

// Loader loads an image by its stored name. Load rejects with a descriptive
// error when the image cannot be resolved; retrying is the caller's business.
type Loader interface {
	Load(ctx context.Context, name string) (ImageHandle, error)
}

// Opener is the slice of the image store the loader needs.
type Opener interface {
	Open(name string) (io.ReadCloser, error)
}

// StoreLoader reads intrinsic dimensions from an image store.
type StoreLoader struct {
	store Opener
}

func NewStoreLoader(store Opener) *StoreLoader {
	return &StoreLoader{store: store}
}

func (l *StoreLoader) Load(ctx context.Context, name string) (ImageHandle, error) {
	if err := ctx.Err(); err != nil {
		return ImageHandle{}, err
	}
	rc, err := l.store.Open(name)
	if err != nil {
		return ImageHandle{}, fmt.Errorf("failed to load image %s: %w", name, err)
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return ImageHandle{}, fmt.Errorf("failed to load image %s: %w", name, err)
	}
	return ImageHandle{
		Name:   name,
		Width:  float64(cfg.Width),
		Height: float64(cfg.Height),
	}, nil
}

// StaticLoader serves handles from a fixed map. Used in tests and for layouts
// whose dimensions are already known.
type StaticLoader map[string]ImageHandle

func (l StaticLoader) Load(_ context.Context, name string) (ImageHandle, error) {
	h, ok := l[name]
	if !ok {
		return ImageHandle{}, fmt.Errorf("failed to load image %s: not found", name)
	}
	return h, nil
}
