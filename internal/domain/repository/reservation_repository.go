package repository

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
)

// ReservationRepository defines the interface for reservation storage
type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	// FindByID returns (nil, nil) when no reservation matches
	FindByID(ctx context.Context, id string) (*entity.Reservation, error)
	// CountConflicting counts confirmed or pending reservations for the room
	// whose [checkInDate, checkOutDate) interval intersects the candidate
	// half-open interval
	CountConflicting(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int64, error)
	// FindStaysByRoom returns the stay intervals for the room restricted to
	// the given statuses
	FindStaysByRoom(ctx context.Context, roomID string, statuses []string) ([]entity.StayInterval, error)
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
}
