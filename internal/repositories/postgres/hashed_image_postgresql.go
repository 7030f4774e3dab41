package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories"
	"gorm.io/gorm"
)

type HashedImagePostgreSQL struct {
	db *gorm.DB
}

func NewHashedImagePostgreSQL(db *gorm.DB) repositories.HashedImageRepository {
	return &HashedImagePostgreSQL{db: db}
}

func (h *HashedImagePostgreSQL) Create(ctx context.Context, image *models.HashedImage) error {
	if image.Multiplicity == 0 {
		image.Multiplicity = 1
	}
	if err := h.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create hashed image: %w", err)
	}
	return nil
}

func (h *HashedImagePostgreSQL) GetByID(ctx context.Context, id uint) (*models.HashedImage, error) {
	var image models.HashedImage
	if err := h.db.WithContext(ctx).First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (h *HashedImagePostgreSQL) GetByNameAndHash(ctx context.Context, oriName, hash string) (*models.HashedImage, error) {
	var image models.HashedImage
	err := h.db.WithContext(ctx).
		Where("ori_name = ? AND hash = ?", oriName, hash).
		First(&image).Error
	if err != nil {
		return nil, err
	}
	return &image, nil
}

// GetByStoredName resolves a server-side filename of the form f_<id>.<ext>
// back to its registry row.
func (h *HashedImagePostgreSQL) GetByStoredName(ctx context.Context, storedName string) (*models.HashedImage, error) {
	base, _, ok := strings.Cut(storedName, ".")
	if !ok || !strings.HasPrefix(base, "f_") {
		return nil, fmt.Errorf("malformed stored image name %q: %w", storedName, gorm.ErrRecordNotFound)
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(base, "f_"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed stored image name %q: %w", storedName, gorm.ErrRecordNotFound)
	}
	return h.GetByID(ctx, uint(id))
}

func (h *HashedImagePostgreSQL) IncrementMultiplicity(ctx context.Context, id uint) error {
	result := h.db.WithContext(ctx).
		Model(&models.HashedImage{}).
		Where("id = ?", id).
		UpdateColumn("multiplicity", gorm.Expr("multiplicity + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment multiplicity: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (h *HashedImagePostgreSQL) List(ctx context.Context, limit, offset int) ([]*models.HashedImage, int64, error) {
	var images []*models.HashedImage
	var total int64

	query := h.db.WithContext(ctx).Model(&models.HashedImage{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count hashed images: %w", err)
	}

	query = query.Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&images).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list hashed images: %w", err)
	}

	return images, total, nil
}
