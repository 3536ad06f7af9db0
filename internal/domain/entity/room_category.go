package entity

import (
	"time"

	"gorm.io/gorm"
)

// RoomCategory represents a room category (standard, suite, ...)
type RoomCategory struct {
	ID        uint
	Code      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt
}
