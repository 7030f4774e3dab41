package editor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/scene"
)

// Params sizes a session's workspace and its default placeholder rectangle.
type Params struct {
	Height    float64 `json:"height" validate:"gt=0"`
	Width     float64 `json:"width" validate:"gt=0"`
	PlhHeight float64 `json:"plhHeight" validate:"gt=0"`
	PlhWidth  float64 `json:"plhWidth" validate:"gt=0"`
	SessName  string  `json:"sessName"`
}

// DefaultParams are applied where a caller leaves Params fields zero.
var DefaultParams = Params{
	Height:    400,
	Width:     600,
	PlhHeight: 100,
	PlhWidth:  100,
}

func (p Params) withDefaults() Params {
	if p.Height <= 0 {
		p.Height = DefaultParams.Height
	}
	if p.Width <= 0 {
		p.Width = DefaultParams.Width
	}
	if p.PlhHeight <= 0 {
		p.PlhHeight = DefaultParams.PlhHeight
	}
	if p.PlhWidth <= 0 {
		p.PlhWidth = DefaultParams.PlhWidth
	}
	return p
}

// gesture is the short-lived pointer interaction state. It lives on the
// session, not on the scene, so every mutation path runs through the
// controller.
type gesture struct {
	resizingImage bool
	adjusting     bool
	target        *scene.Placeholder
	pos           geometry.Position
	last          geometry.Point
}

func (g *gesture) clear() {
	*g = gesture{}
}

// Session is one live editing instance. All methods must be called from a
// single goroutine; the hosting service serializes access per session.
type Session struct {
	id     string
	role   models.Role
	params Params

	mode      Mode
	bindings  map[binding]bool
	container *scene.Container
	gallery   *scene.Gallery
	gesture   gesture

	// WorkspaceCursor mirrors the resize affordance over the image border.
	WorkspaceCursor geometry.Cursor

	// generation rises on every (re)initialization so a completion of an
	// earlier load or upload can be recognized as stale and discarded.
	generation uint64
}

// NewSession builds an empty session for a role. The session id doubles as
// the container id prefix of all placeholder ids.
func NewSession(role models.Role, params Params) *Session {
	return &Session{
		id:       uuid.NewString(),
		role:     role,
		params:   params.withDefaults(),
		bindings: make(map[binding]bool),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Role returns the session's role.
func (s *Session) Role() models.Role { return s.role }

// Mode returns the currently active tool mode.
func (s *Session) Mode() Mode { return s.mode }

// Container returns the image container, nil before a base image exists.
func (s *Session) Container() *scene.Container { return s.container }

// Gallery returns the session's image pool.
func (s *Session) Gallery() *scene.Gallery { return s.gallery }

// Generation returns the current initialization generation.
func (s *Session) Generation() uint64 { return s.generation }

// Stale reports whether gen belongs to an initialization that has since
// been superseded. Async completions carrying a stale generation must be
// dropped.
func (s *Session) Stale(gen uint64) bool { return gen != s.generation }

// AttachedBindings returns the currently attached listener groups, for
// transition auditing.
func (s *Session) AttachedBindings() map[string]bool {
	out := make(map[string]bool, len(s.bindings))
	for b, on := range s.bindings {
		if on {
			out[string(b)] = true
		}
	}
	return out
}

// Init loads a stored layout into the session. Placeholder ids get the
// session id as prefix. An editor-role document without a container enters
// drop mode and waits for an image; every other role requires one.
func (s *Session) Init(ctx context.Context, raw []byte, loader content.Loader) error {
	doc, err := models.ParseLayoutDocument(raw)
	if err != nil {
		return err
	}
	s.generation++
	s.gesture.clear()
	s.gallery = scene.NewGallery(s.role)
	if doc.ImgContainer == nil {
		if s.role != models.RoleEditor {
			return fmt.Errorf("%s layout has no image container", s.role)
		}
		s.container = nil
		s.setMode(ModeDrop)
		return nil
	}
	container, err := scene.LoadContainer(ctx, s.id, s.role, doc.ImgContainer, loader)
	if err != nil {
		return err
	}
	if err := s.gallery.Load(ctx, doc.Gallery, loader); err != nil {
		return err
	}
	s.container = container
	s.setMode(ModeResize)
	return nil
}

// InitEmpty prepares a fresh editor session with no stored layout.
func (s *Session) InitEmpty() error {
	if s.role != models.RoleEditor {
		return fmt.Errorf("%s session needs a stored layout", s.role)
	}
	s.generation++
	s.gesture.clear()
	s.gallery = scene.NewGallery(s.role)
	s.container = nil
	s.setMode(ModeDrop)
	return nil
}

// setMode performs a transition: detach the old mode's binding set, run its
// exit hooks, attach the new set, run its entry hooks. Same-mode calls are
// a no-op.
func (s *Session) setMode(mode Mode) {
	if s.mode == mode {
		return
	}
	if s.mode != "" {
		for _, b := range modeBindings[s.mode] {
			delete(s.bindings, b)
		}
		s.exitHooks(s.mode)
	}
	s.mode = mode
	for _, b := range modeBindings[mode] {
		s.bindings[b] = true
	}
	s.entryHooks(mode)
}

func (s *Session) exitHooks(mode Mode) {
	switch mode {
	case ModeResize:
		if s.container != nil {
			s.container.Placeholders.DisableTextAreas(false)
		}
		s.gesture.clear()
	case ModeAreaChoice, ModeAreaText:
		if s.container != nil {
			s.container.CancelArea()
		}
	case ModeSyncDims:
		s.gesture.clear()
	}
}

func (s *Session) entryHooks(mode Mode) {
	switch mode {
	case ModeResize:
		// Text areas must not swallow drag gestures while resizing.
		if s.container != nil {
			s.container.Placeholders.DisableTextAreas(true)
		}
	case ModeSyncDims:
		if s.container != nil {
			s.container.Placeholders.SetImageRects(s.params.PlhHeight, s.params.PlhWidth, s.container.MagFactor)
		}
	}
}

// PressTool handles a tool-button click. Pressing the active tool's button
// returns to resize mode; otherwise the tool's preconditions are checked
// before the transition, and a violation leaves the mode unchanged.
func (s *Session) PressTool(tool Mode) error {
	if s.role != models.RoleEditor {
		return ErrWrongMode
	}
	switch tool {
	case ModeAreaChoice, ModeAreaText, ModeAreaDelete, ModeSyncDims:
	case ModeDrop, ModeResize:
		return ErrWrongMode
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, tool)
	}
	if s.mode == tool {
		s.setMode(ModeResize)
		return nil
	}
	if s.container == nil {
		return ErrNoImage
	}
	if tool == ModeAreaDelete && s.container.Placeholders.Len() == 0 {
		return ErrNoTarget
	}
	s.setMode(tool)
	return nil
}

// SetStandardSize fits the image into the workspace: the tighter dimension
// is pinned to the workspace and the other follows the image ratio.
func (s *Session) SetStandardSize() error {
	if !s.bindings[bindDimButtons] || s.container == nil {
		return ErrWrongMode
	}
	workspaceRatio := s.params.Width / s.params.Height
	var stdHeight float64
	if s.container.Ratio() > workspaceRatio {
		stdHeight = s.params.Width / s.container.Ratio()
	} else {
		stdHeight = s.params.Height
	}
	s.container.Resize(stdHeight)
	return nil
}

// SetOriginalSize displays the image at intrinsic scale.
func (s *Session) SetOriginalSize() error {
	if !s.bindings[bindDimButtons] || s.container == nil {
		return ErrWrongMode
	}
	s.container.Resize(s.container.Height)
	return nil
}

// PointerDown dispatches a primary-button press at a workspace-relative
// point according to the active mode.
func (s *Session) PointerDown(pt geometry.Point) {
	if s.container == nil {
		return
	}
	switch s.mode {
	case ModeResize:
		if _, cursor := s.container.BorderCursorAt(pt); cursor != geometry.CursorNone {
			s.gesture.resizingImage = true
			return
		}
		if plh, pos := s.container.PlaceholderAt(pt); plh != nil {
			s.gesture = gesture{adjusting: true, target: plh, pos: pos, last: pt}
		}
	case ModeAreaChoice, ModeAreaText:
		s.container.BeginArea(pt)
	case ModeAreaDelete:
		if plh, _ := s.container.PlaceholderAt(pt); plh != nil {
			s.container.Placeholders.Remove(plh.ID)
		}
	case ModeSyncDims:
		if plh, pos := s.container.PlaceholderAt(pt); plh != nil && plh.Type == models.PlaceholderImage {
			s.gesture = gesture{adjusting: true, target: plh, pos: pos, last: pt}
		}
	}
}

// PointerMove dispatches pointer motion: drives a running gesture or, at
// rest, updates the hover cursor affordances.
func (s *Session) PointerMove(pt geometry.Point) {
	if s.container == nil {
		return
	}
	switch s.mode {
	case ModeResize:
		switch {
		case s.gesture.resizingImage:
			s.resizeImageTo(pt)
		case s.gesture.adjusting:
			s.dragAdjust(pt)
		default:
			s.hover(pt, geometry.Positions(
				geometry.PosTop, geometry.PosBottom, geometry.PosLeft,
				geometry.PosRight, geometry.PosCenter))
		}
	case ModeSyncDims:
		if s.gesture.adjusting {
			s.dragAdjust(pt)
			s.container.Placeholders.SetImageRects(
				s.gesture.target.Rect.Height, s.gesture.target.Rect.Width, s.container.MagFactor)
		} else {
			s.hover(pt, geometry.Positions(
				geometry.PosTop, geometry.PosBottom, geometry.PosLeft, geometry.PosRight))
		}
	case ModeAreaChoice, ModeAreaText:
		s.container.TraceArea(pt)
	}
}

// PointerUp finishes the gesture of the active mode. In the area modes the
// traced rectangle is committed as a new placeholder of the tool's type.
func (s *Session) PointerUp(pt geometry.Point) {
	if s.container == nil {
		return
	}
	switch s.mode {
	case ModeResize, ModeSyncDims:
		s.gesture.clear()
	case ModeAreaChoice:
		s.container.TraceArea(pt)
		s.container.CommitArea(models.PlaceholderImage)
	case ModeAreaText:
		s.container.TraceArea(pt)
		s.container.CommitArea(models.PlaceholderText)
	}
}

// PointerLeave tolerates a missed pointer-up: gestures end, an unfinished
// area trace is dropped.
func (s *Session) PointerLeave() {
	s.gesture.clear()
	if s.container != nil && (s.mode == ModeAreaChoice || s.mode == ModeAreaText) {
		s.container.CancelArea()
	}
}

// resizeImageTo scales the whole image toward a pointer position while
// preserving the aspect ratio: whichever of width/height the pointer pulls
// harder leads, the other follows the image ratio.
func (s *Session) resizeImageTo(pt geometry.Point) {
	mouseRatio := 1.0
	if pt.Y != 0 {
		mouseRatio = pt.X / pt.Y
	}
	var height float64
	if mouseRatio > s.container.Ratio() {
		height = pt.X / s.container.Ratio()
	} else {
		height = pt.Y
	}
	if height <= 0 {
		return
	}
	s.container.Resize(height)
}

func (s *Session) dragAdjust(pt geometry.Point) {
	mag := s.container.MagFactor
	dx := (pt.X - s.gesture.last.X) / mag
	dy := (pt.Y - s.gesture.last.Y) / mag
	s.gesture.last = pt
	s.gesture.target.AdjustDimensions(s.gesture.pos, dx, dy, mag)
}

func (s *Session) hover(pt geometry.Point, active map[geometry.Position]bool) {
	_, s.WorkspaceCursor = s.container.BorderCursorAt(pt)
	if plh, pos := s.container.PlaceholderAt(pt); plh != nil {
		plh.Cursor = geometry.CursorFor(pos, active)
	}
}

// ProvideBaseImage completes the drop-mode wait: a freshly uploaded image
// becomes the container's base image at intrinsic scale and the session
// moves to resize mode.
func (s *Session) ProvideBaseImage(img content.ImageHandle) error {
	if s.mode != ModeDrop {
		return ErrWrongMode
	}
	s.container = scene.NewContainer(s.id, s.role, img)
	s.container.ApplyGeometry()
	s.setMode(ModeResize)
	return nil
}

// SetPlaceholderImage assigns an uploaded image to a placeholder, replacing
// any previous content. Question-role placeholders refit around the image.
func (s *Session) SetPlaceholderImage(id string, img content.ImageHandle) error {
	if s.container == nil {
		return ErrNoImage
	}
	plh := s.container.Placeholders.ByID(id)
	if plh == nil {
		return fmt.Errorf("no placeholder %q", id)
	}
	if !plh.AcceptsDrop() {
		return fmt.Errorf("placeholder %q does not take image drops", id)
	}
	plh.SetImage(img)
	if s.role == models.RoleQuestion {
		plh.ShrinkToImage(s.container.MagFactor)
	}
	plh.ApplyGeometry(s.container.MagFactor)
	return nil
}

// DropOnPlaceholder handles an internal drag landing on a placeholder. The
// editor takes images from the gallery or from another placeholder; the
// question role only from its gallery pool.
func (s *Session) DropOnPlaceholder(id string, drag scene.DragData) error {
	if s.container == nil {
		return ErrNoImage
	}
	var img content.ImageHandle
	switch drag.Source {
	case scene.DragFromGallery:
		found, ok := s.gallery.ByName(drag.Value)
		if !ok {
			return fmt.Errorf("no gallery image %q", drag.Value)
		}
		img = found
	case scene.DragFromEditorPlaceholder:
		if s.role != models.RoleEditor {
			return fmt.Errorf("only gallery images are allowed")
		}
		src := s.container.Placeholders.ByID(drag.Value)
		if src == nil || src.Image == nil {
			return fmt.Errorf("no image on placeholder %q", drag.Value)
		}
		img = *src.Image
	default:
		return fmt.Errorf("drag source %q cannot land on a placeholder", drag.Source)
	}
	return s.SetPlaceholderImage(id, img)
}

// DropOnGallery handles an internal drag landing on the gallery. In the
// editor the dragged placeholder image is copied into the pool; in the
// question the placeholder returns its image and recovers its pre-drop
// rectangle.
func (s *Session) DropOnGallery(drag scene.DragData) error {
	if s.container == nil {
		return ErrNoImage
	}
	switch {
	case s.role == models.RoleEditor && drag.Source == scene.DragFromEditorPlaceholder:
		src := s.container.Placeholders.ByID(drag.Value)
		if src == nil || src.Image == nil {
			return fmt.Errorf("no image on placeholder %q", drag.Value)
		}
		s.gallery.Append(*src.Image)
		return nil
	case s.role == models.RoleQuestion && drag.Source == scene.DragFromQuestionPlaceholder:
		src := s.container.Placeholders.ByID(drag.Value)
		if src == nil {
			return fmt.Errorf("no placeholder %q", drag.Value)
		}
		src.RemoveImage(s.container.MagFactor)
		return nil
	default:
		return fmt.Errorf("drag source %q cannot land on the gallery", drag.Source)
	}
}

// AddGalleryImage appends an uploaded image to the pool.
func (s *Session) AddGalleryImage(img content.ImageHandle) error {
	if s.gallery == nil {
		return fmt.Errorf("session not initialized")
	}
	s.gallery.Append(img)
	return nil
}

// ClickGallery discards a gallery image. Only active in delete mode; the
// stored file is untouched.
func (s *Session) ClickGallery(name string) error {
	if !s.bindings[bindGalleryDelete] {
		return ErrWrongMode
	}
	s.gallery.Remove(name)
	return nil
}

// SetText writes a text placeholder's value. Rejected while text areas are
// disabled by the active mode.
func (s *Session) SetText(id, text string) error {
	if s.container == nil {
		return ErrNoImage
	}
	plh := s.container.Placeholders.ByID(id)
	if plh == nil {
		return fmt.Errorf("no placeholder %q", id)
	}
	if plh.Type != models.PlaceholderText {
		return fmt.Errorf("placeholder %q does not take text", id)
	}
	if plh.TextDisabled {
		return ErrWrongMode
	}
	plh.Text = text
	return nil
}

// Serialize composes the layout document submitted on every store, update
// or answer action.
func (s *Session) Serialize() *models.LayoutDocument {
	doc := &models.LayoutDocument{Origin: s.role}
	if s.container != nil {
		doc.ImgContainer = s.container.Serialize()
	}
	if s.gallery != nil {
		doc.Gallery = s.gallery.Serialize()
	}
	return doc
}
