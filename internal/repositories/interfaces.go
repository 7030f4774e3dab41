package repositories

import (
	"context"
	"time"

	"github.com/imged/layout-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type LayoutFilters struct {
	Name      string     `json:"name"` // substring match
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`    // "created_at", "updated_at", "name"
	SortOrder string     `json:"sort_order"` // "asc", "desc"
}

// ===== REPOSITORY INTERFACES =====

// LayoutRepository persists stored exercise layouts
type LayoutRepository interface {
	Create(ctx context.Context, layout *models.Layout) error
	GetByID(ctx context.Context, id uint) (*models.Layout, error)
	Update(ctx context.Context, layout *models.Layout) error
	Delete(ctx context.Context, id uint) error // Soft delete

	List(ctx context.Context, filters LayoutFilters) ([]*models.Layout, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error)
}

// HashedImageRepository registers uploaded images keyed by original name and
// content hash so duplicate uploads resolve to the already stored file
type HashedImageRepository interface {
	Create(ctx context.Context, image *models.HashedImage) error
	GetByID(ctx context.Context, id uint) (*models.HashedImage, error)
	GetByNameAndHash(ctx context.Context, oriName, hash string) (*models.HashedImage, error)
	GetByStoredName(ctx context.Context, storedName string) (*models.HashedImage, error)
	IncrementMultiplicity(ctx context.Context, id uint) error
	List(ctx context.Context, limit, offset int) ([]*models.HashedImage, int64, error)
}

// Repository bundles all repositories behind one dependency
type Repository interface {
	Layout() LayoutRepository
	Image() HashedImageRepository
}
