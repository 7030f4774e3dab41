package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/imged/layout-service/internal/content"
	"github.com/imged/layout-service/internal/editor"
	"github.com/imged/layout-service/internal/geometry"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/scene"
)

// SessionService hosts live editing sessions. Every session is owned by one
// client; events are applied under the session lock so concurrent requests
// can never interleave half-applied gestures.
type SessionService interface {
	Open(ctx context.Context, req OpenSessionRequest) (*SessionState, error)
	Apply(ctx context.Context, sessionID string, event SessionEvent) (*SessionState, error)
	Get(ctx context.Context, sessionID string) (*SessionState, error)
	Serialize(ctx context.Context, sessionID string) ([]byte, error)
	Close(ctx context.Context, sessionID string) error
}

type OpenSessionRequest struct {
	Role     models.Role     `json:"role" validate:"required,layout_role"`
	Params   editor.Params   `json:"params"`
	Document json.RawMessage `json:"document,omitempty"`
}

// SessionEvent is one client interaction. Kind selects which of the optional
// fields apply.
type SessionEvent struct {
	Kind       string  `json:"kind" validate:"required"`
	Generation uint64  `json:"generation"`
	X          float64 `json:"x,omitempty"`
	Y          float64 `json:"y,omitempty"`
	Tool       string  `json:"tool,omitempty"`
	Target     string  `json:"target,omitempty"`
	Text       string  `json:"text,omitempty"`
	Payload    string  `json:"payload,omitempty"`
	ImageName  string  `json:"imageName,omitempty"`
}

// Event kinds accepted by Apply.
const (
	EventPointerDown  = "pointerDown"
	EventPointerMove  = "pointerMove"
	EventPointerUp    = "pointerUp"
	EventPointerLeave = "pointerLeave"
	EventPressTool    = "pressTool"
	EventStandardSize = "standardSize"
	EventOriginalSize = "originalSize"
	EventSetText      = "setText"
	EventDropBase     = "dropBase"
	EventDropTarget   = "dropPlaceholder"
	EventDropGallery  = "dropGallery"
	EventGalleryAdd   = "galleryAdd"
	EventGalleryClick = "galleryClick"
)

// SessionState is the client-visible snapshot after an event is applied.
type SessionState struct {
	ID         string                 `json:"id"`
	Role       models.Role            `json:"role"`
	Mode       editor.Mode            `json:"mode"`
	Generation uint64                 `json:"generation"`
	Cursor     geometry.Cursor        `json:"cursor"`
	Document   *models.LayoutDocument `json:"document"`
}

type liveSession struct {
	mu      sync.Mutex
	session *editor.Session
}

type sessionService struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession

	loader content.Loader
	logger *slog.Logger
	opLog  *ServiceLogger
}

func NewSessionService(loader content.Loader, logger *slog.Logger) SessionService {
	return &sessionService{
		sessions: make(map[string]*liveSession),
		loader:   loader,
		logger:   logger,
		opLog:    NewServiceLogger(logger, "session"),
	}
}

func (s *sessionService) Open(ctx context.Context, req OpenSessionRequest) (state *SessionState, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "open_session", "session", string(req.Role), time.Since(start), err) }()

	session := editor.NewSession(req.Role, req.Params)

	if len(req.Document) > 0 {
		if err = session.Init(ctx, req.Document, s.loader); err != nil {
			return nil, WrapMalformed(err)
		}
	} else {
		if err = session.InitEmpty(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
	}

	live := &liveSession{session: session}
	s.mu.Lock()
	s.sessions[session.ID()] = live
	s.mu.Unlock()

	return snapshot(session), nil
}

func (s *sessionService) lookup(sessionID string) (*liveSession, error) {
	s.mu.RLock()
	live, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	return live, nil
}

func (s *sessionService) Apply(ctx context.Context, sessionID string, event SessionEvent) (state *SessionState, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "apply_event", "session", sessionID, time.Since(start), err) }()

	live, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()

	session := live.session
	if event.Generation != 0 && session.Stale(event.Generation) {
		return nil, fmt.Errorf("%w: generation %d", ErrStaleSession, event.Generation)
	}

	if err = s.dispatch(ctx, session, event); err != nil {
		return nil, mapEditorError(err)
	}

	return snapshot(session), nil
}

func (s *sessionService) dispatch(ctx context.Context, session *editor.Session, event SessionEvent) error {
	pt := geometry.Point{X: event.X, Y: event.Y}

	switch event.Kind {
	case EventPointerDown:
		session.PointerDown(pt)
	case EventPointerMove:
		session.PointerMove(pt)
	case EventPointerUp:
		session.PointerUp(pt)
	case EventPointerLeave:
		session.PointerLeave()
	case EventPressTool:
		return session.PressTool(editor.Mode(event.Tool))
	case EventStandardSize:
		return session.SetStandardSize()
	case EventOriginalSize:
		return session.SetOriginalSize()
	case EventSetText:
		return session.SetText(resolveTarget(session, event.Target), event.Text)
	case EventDropBase:
		img, err := s.loader.Load(ctx, event.ImageName)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrImageNotFound, err)
		}
		return session.ProvideBaseImage(img)
	case EventDropTarget:
		drag, err := scene.DecodeDragData(event.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return session.DropOnPlaceholder(resolveTarget(session, event.Target), drag)
	case EventDropGallery:
		drag, err := scene.DecodeDragData(event.Payload)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrBadRequest, err)
		}
		return session.DropOnGallery(drag)
	case EventGalleryAdd:
		img, err := s.loader.Load(ctx, event.ImageName)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrImageNotFound, err)
		}
		return session.AddGalleryImage(img)
	case EventGalleryClick:
		return session.ClickGallery(event.ImageName)
	default:
		return fmt.Errorf("%w: unknown event kind %q", ErrBadRequest, event.Kind)
	}

	return nil
}

func (s *sessionService) Get(ctx context.Context, sessionID string) (*SessionState, error) {
	live, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return snapshot(live.session), nil
}

func (s *sessionService) Serialize(ctx context.Context, sessionID string) ([]byte, error) {
	live, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	live.mu.Lock()
	defer live.mu.Unlock()
	return live.session.Serialize().Encode()
}

func (s *sessionService) Close(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[sessionID]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, sessionID)
	}
	delete(s.sessions, sessionID)
	return nil
}

// resolveTarget accepts placeholder ids in the stored short form ("plh_3")
// as well as the full container-prefixed form.
func resolveTarget(session *editor.Session, target string) string {
	container := session.Container()
	if container == nil || target == "" {
		return target
	}
	if strings.HasPrefix(target, container.ID+"_") {
		return target
	}
	return container.ID + "_" + target
}

func snapshot(session *editor.Session) *SessionState {
	return &SessionState{
		ID:         session.ID(),
		Role:       session.Role(),
		Mode:       session.Mode(),
		Generation: session.Generation(),
		Cursor:     session.WorkspaceCursor,
		Document:   session.Serialize(),
	}
}

// mapEditorError translates engine sentinels into the service error taxonomy
func mapEditorError(err error) error {
	switch {
	case errors.Is(err, editor.ErrWrongMode):
		return fmt.Errorf("%w: %v", ErrInvalidMode, err)
	case errors.Is(err, editor.ErrUnknownMode),
		errors.Is(err, editor.ErrNoImage),
		errors.Is(err, editor.ErrNoTarget):
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	default:
		return err
	}
}
