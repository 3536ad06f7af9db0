package repository

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormRoomCategoryRepository implements the RoomCategoryRepository interface
type GormRoomCategoryRepository struct {
	db *gorm.DB
}

// NewGormRoomCategoryRepository creates a new GORM room category repository
func NewGormRoomCategoryRepository(db *gorm.DB) repository.RoomCategoryRepository {
	return &GormRoomCategoryRepository{
		db: db,
	}
}

// RoomCategories GORM model for database mapping
type RoomCategories struct {
	gorm.Model
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (RoomCategories) TableName() string {
	return "m_room_categories"
}

// GetByCode finds a room category by code
func (r *GormRoomCategoryRepository) GetByCode(ctx context.Context, code string) (*entity.RoomCategory, error) {
	var category RoomCategories
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&category)

	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.RoomCategory{
		ID:        category.ID,
		Code:      category.Code,
		Name:      category.Name,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
		DeletedAt: category.DeletedAt,
	}, nil
}
