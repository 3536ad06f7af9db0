package repository

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormDocumentTypeRepository implements the DocumentTypeRepository interface
type GormDocumentTypeRepository struct {
	db *gorm.DB
}

// NewGormDocumentTypeRepository creates a new GORM document type repository
func NewGormDocumentTypeRepository(db *gorm.DB) repository.DocumentTypeRepository {
	return &GormDocumentTypeRepository{
		db: db,
	}
}

// DocumentTypes GORM model for database mapping
type DocumentTypes struct {
	gorm.Model
	ID        uint           `gorm:"primaryKey"`
	Code      string         `gorm:"column:code;unique"`
	Name      string         `gorm:"column:name"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (DocumentTypes) TableName() string {
	return "m_document_types"
}

// GetByCode finds a document type by code
func (r *GormDocumentTypeRepository) GetByCode(ctx context.Context, code string) (*entity.DocumentType, error) {
	var documentType DocumentTypes
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&documentType)

	if result.Error != nil {
		return nil, result.Error
	}

	return &entity.DocumentType{
		ID:        documentType.ID,
		Code:      documentType.Code,
		Name:      documentType.Name,
		CreatedAt: documentType.CreatedAt,
		UpdatedAt: documentType.UpdatedAt,
		DeletedAt: documentType.DeletedAt,
	}, nil
}
