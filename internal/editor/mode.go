// Package editor is the session controller of the layout editor: it owns
// workspace sizing, the modal tool state machine, pointer event handling,
// initialization from a stored layout and the serialize/submit contract.
// One Session corresponds to one embedded editor instance; all mutation of
// the scene flows through it on a single logical thread.
package editor

import "errors"

// Mode is a tool mode of the editing session. Modes are mutually exclusive
// and entered/exited explicitly.
type Mode string

const (
	// ModeDrop waits for a base image; active while no container exists.
	ModeDrop Mode = "drop"
	// ModeResize is the default once an image exists: whole-image resize
	// and placeholder resize/move are active.
	ModeResize Mode = "resize"
	// ModeAreaChoice traces freehand rectangles into image placeholders.
	ModeAreaChoice Mode = "areaChoice"
	// ModeAreaText traces freehand rectangles into text placeholders.
	ModeAreaText Mode = "areaTxt"
	// ModeAreaDelete removes a placeholder or a gallery image on click.
	ModeAreaDelete Mode = "areaDelete"
	// ModeSyncDims propagates one image placeholder's size to all others.
	ModeSyncDims Mode = "syncDims"
)

var (
	// ErrNoImage rejects a tool that needs a base image before one exists.
	ErrNoImage = errors.New("no image loaded")
	// ErrNoTarget rejects delete mode while no placeholder exists.
	ErrNoTarget = errors.New("no target set")
	// ErrWrongMode rejects an operation outside the mode that carries it.
	ErrWrongMode = errors.New("operation not available in current mode")
	// ErrUnknownMode rejects a mode name outside the closed set.
	ErrUnknownMode = errors.New("unknown mode")
)

// binding names one listener group a mode keeps attached while active. The
// names mirror the surfaces they hang off so a transition trace reads like
// the event wiring it replaces.
type binding string

const (
	bindWorkspaceDrop     binding = "workspace.drop"
	bindWorkspaceMouse    binding = "workspace.mouse"
	bindDimButtons        binding = "buttons.dim"
	bindPlaceholderMouse  binding = "container.placeholderMouse"
	bindCanvasMouse       binding = "canvas.mouse"
	bindCanvasMouseOut    binding = "canvas.mouseout"
	bindPlaceholderDelete binding = "placeholders.delete"
	bindGalleryDelete     binding = "gallery.delete"
	bindSyncMouse         binding = "container.syncMouse"
)

// modeBindings is the transition table: entering a mode attaches exactly
// this set, leaving it detaches the same set. Listener churn is derived
// from the table, never hand-coded per transition.
var modeBindings = map[Mode][]binding{
	ModeDrop:       {bindWorkspaceDrop},
	ModeResize:     {bindWorkspaceMouse, bindDimButtons, bindPlaceholderMouse},
	ModeAreaChoice: {bindCanvasMouse, bindCanvasMouseOut},
	ModeAreaText:   {bindCanvasMouse},
	ModeAreaDelete: {bindPlaceholderDelete, bindGalleryDelete},
	ModeSyncDims:   {bindSyncMouse},
}

// ValidMode reports whether m belongs to the closed mode set.
func ValidMode(m Mode) bool {
	_, ok := modeBindings[m]
	return ok
}
