package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents different types of layout events
type EventType string

const (
	// Layout lifecycle events
	EventLayoutStored  EventType = "layout.stored"
	EventLayoutUpdated EventType = "layout.updated"

	// Image events
	EventImageUploaded EventType = "image.uploaded"

	// Grading events
	EventAttemptGraded EventType = "attempt.graded"
)

// LayoutEvent is the base event structure for all layout events
type LayoutEvent struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Version   string                 `json:"version"`
	Data      interface{}            `json:"data"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// Event payloads

type LayoutStoredEvent struct {
	LayoutID   uint      `json:"layout_id"`
	LayoutName string    `json:"layout_name"`
	StoredAt   time.Time `json:"stored_at"`
}

type LayoutUpdatedEvent struct {
	LayoutID   uint      `json:"layout_id"`
	LayoutName string    `json:"layout_name"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ImageUploadedEvent struct {
	ImageID      uint      `json:"image_id"`
	OriName      string    `json:"ori_name"`
	StoredName   string    `json:"stored_name"`
	Hash         string    `json:"hash"`
	Multiplicity int       `json:"multiplicity"`
	Duplicate    bool      `json:"duplicate"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type AttemptGradedEvent struct {
	SessionName string    `json:"session_name"`
	Correct     int       `json:"correct"`
	Incorrect   int       `json:"incorrect"`
	Unanswered  int       `json:"unanswered"`
	Total       int       `json:"total"`
	GradedAt    time.Time `json:"graded_at"`
}

// Event factory functions

func NewLayoutStoredEvent(layoutID uint, name string) *LayoutEvent {
	return &LayoutEvent{
		ID:        generateEventID(),
		Type:      EventLayoutStored,
		Timestamp: time.Now(),
		Source:    "layout-service",
		Version:   "1.0",
		Data: LayoutStoredEvent{
			LayoutID:   layoutID,
			LayoutName: name,
			StoredAt:   time.Now(),
		},
	}
}

func NewLayoutUpdatedEvent(layoutID uint, name string) *LayoutEvent {
	return &LayoutEvent{
		ID:        generateEventID(),
		Type:      EventLayoutUpdated,
		Timestamp: time.Now(),
		Source:    "layout-service",
		Version:   "1.0",
		Data: LayoutUpdatedEvent{
			LayoutID:   layoutID,
			LayoutName: name,
			UpdatedAt:  time.Now(),
		},
	}
}

func NewImageUploadedEvent(imageID uint, oriName, storedName, hash string, multiplicity int, duplicate bool) *LayoutEvent {
	return &LayoutEvent{
		ID:        generateEventID(),
		Type:      EventImageUploaded,
		Timestamp: time.Now(),
		Source:    "layout-service",
		Version:   "1.0",
		Data: ImageUploadedEvent{
			ImageID:      imageID,
			OriName:      oriName,
			StoredName:   storedName,
			Hash:         hash,
			Multiplicity: multiplicity,
			Duplicate:    duplicate,
			UploadedAt:   time.Now(),
		},
	}
}

func NewAttemptGradedEvent(sessionName string, correct, incorrect, unanswered int) *LayoutEvent {
	return &LayoutEvent{
		ID:        generateEventID(),
		Type:      EventAttemptGraded,
		Timestamp: time.Now(),
		Source:    "layout-service",
		Version:   "1.0",
		Data: AttemptGradedEvent{
			SessionName: sessionName,
			Correct:     correct,
			Incorrect:   incorrect,
			Unanswered:  unanswered,
			Total:       correct + incorrect + unanswered,
			GradedAt:    time.Now(),
		},
	}
}

func generateEventID() string {
	return uuid.NewString()
}
