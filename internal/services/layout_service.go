package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/imged/layout-service/internal/cache"
	"github.com/imged/layout-service/internal/events"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories"
	"github.com/imged/layout-service/internal/validator"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const layoutCacheTTL = 10 * time.Minute

// LayoutService stores and retrieves exercise layouts
type LayoutService interface {
	Create(ctx context.Context, req CreateLayoutRequest) (*models.Layout, error)
	Update(ctx context.Context, req UpdateLayoutRequest) (*models.Layout, error)
	GetByID(ctx context.Context, id uint) (*models.Layout, error)
	List(ctx context.Context, filters repositories.LayoutFilters) ([]*models.Layout, int64, error)
	Delete(ctx context.Context, id uint) error
}

type CreateLayoutRequest struct {
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Document json.RawMessage `json:"document" validate:"required"`
}

type UpdateLayoutRequest struct {
	ID       uint            `json:"id" validate:"required"`
	Name     string          `json:"name" validate:"required,min=1,max=200"`
	Document json.RawMessage `json:"document" validate:"required"`
}

type layoutService struct {
	repo      repositories.Repository
	cache     cache.CacheService
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	validator *validator.Validator
}

func NewLayoutService(repo repositories.Repository, cacheService cache.CacheService, publisher events.EventPublisher, logger *slog.Logger, v *validator.Validator) LayoutService {
	return &layoutService{
		repo:      repo,
		cache:     cacheService,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, "layout"),
		validator: v,
	}
}

func layoutCacheKey(id uint) string {
	return fmt.Sprintf("layout:%d", id)
}

func (s *layoutService) Create(ctx context.Context, req CreateLayoutRequest) (layout *models.Layout, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "create_layout", "layout", req.Name, time.Since(start), err) }()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, parseErr := models.ParseLayoutDocument(req.Document); parseErr != nil {
		return nil, WrapMalformed(parseErr)
	}

	exists, err := s.repo.Layout().ExistsByName(ctx, req.Name, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check layout name: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: %q", ErrLayoutDuplicateName, req.Name)
	}

	layout = &models.Layout{
		Name:     req.Name,
		Document: datatypes.JSON(req.Document),
	}
	if err = s.repo.Layout().Create(ctx, layout); err != nil {
		return nil, err
	}

	if pubErr := s.publisher.PublishLayoutEvent(ctx, events.NewLayoutStoredEvent(layout.ID, layout.Name)); pubErr != nil {
		s.logger.Warn("failed to publish layout stored event", "layout_id", layout.ID, "error", pubErr)
	}

	return layout, nil
}

func (s *layoutService) Update(ctx context.Context, req UpdateLayoutRequest) (layout *models.Layout, err error) {
	start := time.Now()
	defer func() {
		s.opLog.LogOperation(ctx, "update_layout", "layout", fmt.Sprint(req.ID), time.Since(start), err)
	}()

	if err = s.validator.Validate(req); err != nil {
		return nil, err
	}
	if _, parseErr := models.ParseLayoutDocument(req.Document); parseErr != nil {
		return nil, WrapMalformed(parseErr)
	}

	layout, err = s.repo.Layout().GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLayoutNotFound, req.ID)
		}
		return nil, err
	}

	if layout.Name != req.Name {
		exists, checkErr := s.repo.Layout().ExistsByName(ctx, req.Name, &req.ID)
		if checkErr != nil {
			return nil, fmt.Errorf("failed to check layout name: %w", checkErr)
		}
		if exists {
			return nil, fmt.Errorf("%w: %q", ErrLayoutDuplicateName, req.Name)
		}
	}

	layout.Name = req.Name
	layout.Document = datatypes.JSON(req.Document)
	if err = s.repo.Layout().Update(ctx, layout); err != nil {
		return nil, err
	}

	if cacheErr := s.cache.Delete(ctx, layoutCacheKey(layout.ID)); cacheErr != nil {
		s.logger.Warn("failed to invalidate layout cache", "layout_id", layout.ID, "error", cacheErr)
	}

	if pubErr := s.publisher.PublishLayoutEvent(ctx, events.NewLayoutUpdatedEvent(layout.ID, layout.Name)); pubErr != nil {
		s.logger.Warn("failed to publish layout updated event", "layout_id", layout.ID, "error", pubErr)
	}

	return layout, nil
}

func (s *layoutService) GetByID(ctx context.Context, id uint) (layout *models.Layout, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "get_layout", "layout", fmt.Sprint(id), time.Since(start), err) }()

	var cached models.Layout
	if cacheErr := s.cache.Get(ctx, layoutCacheKey(id), &cached); cacheErr == nil {
		return &cached, nil
	} else if !errors.Is(cacheErr, cache.ErrCacheMiss) {
		s.logger.Warn("layout cache read failed", "layout_id", id, "error", cacheErr)
	}

	layout, err = s.repo.Layout().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", ErrLayoutNotFound, id)
		}
		return nil, err
	}

	if cacheErr := s.cache.Set(ctx, layoutCacheKey(id), layout, layoutCacheTTL); cacheErr != nil {
		s.logger.Warn("layout cache write failed", "layout_id", id, "error", cacheErr)
	}

	return layout, nil
}

func (s *layoutService) List(ctx context.Context, filters repositories.LayoutFilters) ([]*models.Layout, int64, error) {
	return s.repo.Layout().List(ctx, filters)
}

func (s *layoutService) Delete(ctx context.Context, id uint) (err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "delete_layout", "layout", fmt.Sprint(id), time.Since(start), err) }()

	if _, err = s.repo.Layout().GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: id %d", ErrLayoutNotFound, id)
		}
		return err
	}

	if err = s.repo.Layout().Delete(ctx, id); err != nil {
		return err
	}

	if cacheErr := s.cache.Delete(ctx, layoutCacheKey(id)); cacheErr != nil {
		s.logger.Warn("failed to invalidate layout cache", "layout_id", id, "error", cacheErr)
	}

	return nil
}
