package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/imged/layout-service/internal/events"
	"github.com/imged/layout-service/internal/imaging"
	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories"
	"github.com/imged/layout-service/internal/storage"
	"gorm.io/gorm"
)

// ImageService ingests uploaded images into the content-addressed store
type ImageService interface {
	Upload(ctx context.Context, req UploadRequest) (*UploadResult, error)
	Open(ctx context.Context, storedName string) (io.ReadCloser, error)
	List(ctx context.Context, limit, offset int) ([]*models.HashedImage, int64, error)
}

type UploadRequest struct {
	OriName string
	Data    []byte
}

type UploadResult struct {
	// ImgServerName is the stable filename layout documents reference
	ImgServerName string `json:"imgServerName"`
	Duplicate     bool   `json:"duplicate"`
	Multiplicity  int    `json:"multiplicity"`
}

type imageService struct {
	repo      repositories.Repository
	store     *storage.FileStore
	publisher events.EventPublisher
	logger    *slog.Logger
	opLog     *ServiceLogger
	maxBytes  int64
}

func NewImageService(repo repositories.Repository, store *storage.FileStore, publisher events.EventPublisher, logger *slog.Logger, maxBytes int64) ImageService {
	return &imageService{
		repo:      repo,
		store:     store,
		publisher: publisher,
		logger:    logger,
		opLog:     NewServiceLogger(logger, "image"),
		maxBytes:  maxBytes,
	}
}

// Upload registers an uploaded image. The original name and the content hash
// together form the dedup key: re-uploading the same bytes under the same
// name bumps the multiplicity counter and returns the already stored file.
func (s *imageService) Upload(ctx context.Context, req UploadRequest) (result *UploadResult, err error) {
	start := time.Now()
	defer func() { s.opLog.LogOperation(ctx, "upload_image", "image", req.OriName, time.Since(start), err) }()

	// Gate on size and extension before any hashing or disk I/O
	if len(req.Data) == 0 {
		return nil, ErrEmptyUpload
	}
	if int64(len(req.Data)) > s.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(req.Data), s.maxBytes)
	}
	ext, ok := imaging.Extension(req.OriName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBadExtension, req.OriName)
	}

	hash := imaging.StableHash(req.Data)

	existing, err := s.repo.Image().GetByNameAndHash(ctx, req.OriName, hash)
	if err == nil {
		if incErr := s.repo.Image().IncrementMultiplicity(ctx, existing.ID); incErr != nil {
			return nil, incErr
		}
		existing.Multiplicity++

		s.publishUploaded(ctx, existing, true)
		return &UploadResult{
			ImgServerName: existing.StoredName(),
			Duplicate:     true,
			Multiplicity:  existing.Multiplicity,
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	image := &models.HashedImage{
		OriName:      req.OriName,
		Hash:         hash,
		Extension:    ext,
		Multiplicity: 1,
	}
	if err = s.repo.Image().Create(ctx, image); err != nil {
		return nil, err
	}

	if err = s.store.Save(image.StoredName(), req.Data); err != nil {
		return nil, fmt.Errorf("failed to store image file: %w", err)
	}

	s.publishUploaded(ctx, image, false)
	return &UploadResult{
		ImgServerName: image.StoredName(),
		Duplicate:     false,
		Multiplicity:  image.Multiplicity,
	}, nil
}

func (s *imageService) publishUploaded(ctx context.Context, image *models.HashedImage, duplicate bool) {
	event := events.NewImageUploadedEvent(image.ID, image.OriName, image.StoredName(), image.Hash, image.Multiplicity, duplicate)
	if err := s.publisher.PublishLayoutEvent(ctx, event); err != nil {
		s.logger.Warn("failed to publish image uploaded event", "image_id", image.ID, "error", err)
	}
}

func (s *imageService) Open(ctx context.Context, storedName string) (io.ReadCloser, error) {
	if _, err := s.repo.Image().GetByStoredName(ctx, storedName); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %q", ErrImageNotFound, storedName)
		}
		return nil, err
	}

	reader, err := s.store.Open(storedName)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrImageNotFound, storedName)
	}
	return reader, nil
}

func (s *imageService) List(ctx context.Context, limit, offset int) ([]*models.HashedImage, int64, error) {
	return s.repo.Image().List(ctx, limit, offset)
}
