package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/imged/layout-service/internal/events"
	"github.com/imged/layout-service/internal/grading"
	"github.com/imged/layout-service/internal/models"
)

// GradingService compares submitted answer documents against the stored
// reference layout and keeps a log of graded attempts for export
type GradingService interface {
	Grade(ctx context.Context, req GradeRequest) (*GradeResponse, error)
	Results(ctx context.Context) []GradeRecord
}

type GradeRequest struct {
	SessionName string          `json:"sessionName" validate:"required"`
	Student     json.RawMessage `json:"student" validate:"required"`
	// LayoutID selects the stored reference. Reference overrides it when set.
	LayoutID  *uint           `json:"layoutId,omitempty"`
	Reference json.RawMessage `json:"reference,omitempty"`
}

type GradeResponse struct {
	Document *models.LayoutDocument `json:"document"`
	Summary  grading.Summary        `json:"summary"`
}

// GradeRecord is one graded attempt as kept for result exports.
type GradeRecord struct {
	SessionName string          `json:"sessionName"`
	Summary     grading.Summary `json:"summary"`
	GradedAt    time.Time       `json:"gradedAt"`
}

type gradingService struct {
	layouts   LayoutService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger

	mu      sync.Mutex
	records []GradeRecord
}

func NewGradingService(layouts LayoutService, publisher events.EventPublisher, logger *slog.Logger) GradingService {
	return &gradingService{
		layouts:   layouts,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, "grading"),
	}
}

func (s *gradingService) Grade(ctx context.Context, req GradeRequest) (resp *GradeResponse, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "grade_attempt", "attempt", req.SessionName, time.Since(start), err) }()

	if len(req.Student) == 0 {
		return nil, fmt.Errorf("%w: missing student document", ErrBadRequest)
	}

	referenceJSON := req.Reference
	if len(referenceJSON) == 0 {
		if req.LayoutID == nil {
			return nil, fmt.Errorf("%w: neither reference document nor layout id given", ErrBadRequest)
		}
		layout, lookupErr := s.layouts.GetByID(ctx, *req.LayoutID)
		if lookupErr != nil {
			return nil, lookupErr
		}
		referenceJSON = json.RawMessage(layout.Document)
	}

	student, err := models.ParseLayoutDocument(req.Student)
	if err != nil {
		return nil, WrapMalformed(err)
	}
	reference, err := models.ParseLayoutDocument(referenceJSON)
	if err != nil {
		return nil, WrapMalformed(err)
	}

	graded, err := grading.Grade(student, reference)
	if err != nil {
		return nil, err
	}
	summary := grading.Summarize(graded)

	record := GradeRecord{
		SessionName: req.SessionName,
		Summary:     summary,
		GradedAt:    time.Now(),
	}
	s.mu.Lock()
	s.records = append(s.records, record)
	s.mu.Unlock()

	event := events.NewAttemptGradedEvent(req.SessionName, summary.Correct, summary.Incorrect, summary.Unanswered)
	if pubErr := s.publisher.PublishLayoutEvent(ctx, event); pubErr != nil {
		s.logger.Warn("failed to publish attempt graded event", "session_name", req.SessionName, "error", pubErr)
	}

	return &GradeResponse{Document: graded, Summary: summary}, nil
}

func (s *gradingService) Results(ctx context.Context) []GradeRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GradeRecord, len(s.records))
	copy(out, s.records)
	return out
}
