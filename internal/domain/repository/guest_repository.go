package repository

import (
	"context"

	"reservation-service/internal/domain/entity"
)

// GuestRepository defines the interface for guest storage
type GuestRepository interface {
	Create(ctx context.Context, guest *entity.Guest) error
	// ExistsByDocumentNumber reports whether any guest is registered with the
	// document number, independent of document type
	ExistsByDocumentNumber(ctx context.Context, documentNumber string) (bool, error)
	FindByReservation(ctx context.Context, reservationID string) ([]entity.Guest, error)
	DeleteByReservation(ctx context.Context, reservationID string) error
}
