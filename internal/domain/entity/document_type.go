package entity

import (
	"time"

	"gorm.io/gorm"
)

// DocumentType represents an accepted identity document type (passport,
// national ID, ...)
type DocumentType struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
