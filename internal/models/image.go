package models

import (
	"fmt"
	"time"
)

// HashedImage registers one stored image file. Uploads are content-addressed:
// two uploads with the same original name and content hash map to the same
// row, and Multiplicity counts how often the image was (re-)uploaded. The
// file on disk is named after the row id, never after the upload filename.
type HashedImage struct {
	ID           uint   `json:"id" gorm:"primaryKey"`
	OriName      string `json:"ori_name" gorm:"not null;size:255;index:idx_oriname_hash"`
	Hash         string `json:"hash" gorm:"not null;size:64;index:idx_oriname_hash"`
	Extension    string `json:"extension" gorm:"not null;size:8"`
	Multiplicity int    `json:"multiplicity" gorm:"default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (HashedImage) TableName() string {
	return "hashed_images"
}

// StoredName is the stable server-side filename clients reference in layout
// documents and gallery lists.
func (h *HashedImage) StoredName() string {
	return fmt.Sprintf("f_%d.%s", h.ID, h.Extension)
}
