package postgres

import (
	"context"
	"fmt"

	"github.com/imged/layout-service/internal/models"
	"github.com/imged/layout-service/internal/repositories"
	"gorm.io/gorm"
)

// layoutSortColumns are the only columns List will order by. The sort clause
// is built from request input, so anything outside this set falls back to
// created_at instead of reaching the ORDER BY clause raw.
var layoutSortColumns = map[string]bool{
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

func sortClause(sortBy, sortOrder string) string {
	if !layoutSortColumns[sortBy] {
		sortBy = "created_at"
	}
	if sortOrder != "asc" {
		sortOrder = "desc"
	}
	return sortBy + " " + sortOrder
}

type LayoutPostgreSQL struct {
	db *gorm.DB
}

func NewLayoutPostgreSQL(db *gorm.DB) repositories.LayoutRepository {
	return &LayoutPostgreSQL{db: db}
}

func (l *LayoutPostgreSQL) Create(ctx context.Context, layout *models.Layout) error {
	if err := l.db.WithContext(ctx).Create(layout).Error; err != nil {
		return fmt.Errorf("failed to create layout: %w", err)
	}
	return nil
}

func (l *LayoutPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Layout, error) {
	var layout models.Layout
	if err := l.db.WithContext(ctx).First(&layout, id).Error; err != nil {
		return nil, err
	}
	return &layout, nil
}

func (l *LayoutPostgreSQL) Update(ctx context.Context, layout *models.Layout) error {
	if err := l.db.WithContext(ctx).Save(layout).Error; err != nil {
		return fmt.Errorf("failed to update layout: %w", err)
	}
	return nil
}

func (l *LayoutPostgreSQL) Delete(ctx context.Context, id uint) error {
	return l.db.WithContext(ctx).Delete(&models.Layout{}, id).Error
}

func (l *LayoutPostgreSQL) List(ctx context.Context, filters repositories.LayoutFilters) ([]*models.Layout, int64, error) {
	var layouts []*models.Layout
	var total int64

	query := l.db.WithContext(ctx).Model(&models.Layout{})

	if filters.Name != "" {
		query = query.Where("name ILIKE ?", "%"+filters.Name+"%")
	}
	if filters.DateFrom != nil {
		query = query.Where("created_at >= ?", *filters.DateFrom)
	}
	if filters.DateTo != nil {
		query = query.Where("created_at <= ?", *filters.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count layouts: %w", err)
	}

	query = query.Order(sortClause(filters.SortBy, filters.SortOrder))

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.Find(&layouts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list layouts: %w", err)
	}

	return layouts, total, nil
}

func (l *LayoutPostgreSQL) ExistsByName(ctx context.Context, name string, excludeID *uint) (bool, error) {
	query := l.db.WithContext(ctx).Model(&models.Layout{}).Where("name = ?", name)
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check layout name: %w", err)
	}
	return count > 0, nil
}
