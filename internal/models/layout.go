package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Layout is a stored exercise layout: the name shown in the teacher's list
// plus the full serialized layout document.
type Layout struct {
	ID       uint           `json:"id" gorm:"primaryKey"`
	Name     string         `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Document datatypes.JSON `json:"document" gorm:"type:jsonb;not null"`

	// Metadata
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Layout) TableName() string {
	return "layouts"
}
