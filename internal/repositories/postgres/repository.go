package postgres

import (
	"github.com/imged/layout-service/internal/repositories"
	"gorm.io/gorm"
)

type repository struct {
	layout repositories.LayoutRepository
	image  repositories.HashedImageRepository
}

// NewRepository assembles the PostgreSQL-backed repository bundle
func NewRepository(db *gorm.DB) repositories.Repository {
	return &repository{
		layout: NewLayoutPostgreSQL(db),
		image:  NewHashedImagePostgreSQL(db),
	}
}

func (r *repository) Layout() repositories.LayoutRepository {
	return r.layout
}

func (r *repository) Image() repositories.HashedImageRepository {
	return r.image
}
