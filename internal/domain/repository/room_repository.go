package repository

import (
	"context"

	"reservation-service/internal/domain/entity"
)

// RoomRepository defines the interface for room storage
type RoomRepository interface {
	// FindByID returns (nil, nil) when no room matches
	FindByID(ctx context.Context, id string) (*entity.Room, error)
	// FindAvailable returns rooms that are available and not under maintenance
	FindAvailable(ctx context.Context) ([]entity.Room, error)
}

// RoomCategoryRepository defines the interface for room category reference data
type RoomCategoryRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.RoomCategory, error)
}

// DocumentTypeRepository defines the interface for document type reference data
type DocumentTypeRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.DocumentType, error)
}
