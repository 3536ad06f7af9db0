package repository

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
)

// AvailabilityCache is the cache-aside accelerator and real-time counter
// store layered over the record store. It is never a source of truth: callers
// treat any returned error as a cache miss and fall through to the store.
type AvailabilityCache interface {
	// GetOccupiedDates returns the cached occupied dates for a room, or
	// (nil, nil) on a miss
	GetOccupiedDates(ctx context.Context, roomID string) ([]string, error)
	SetOccupiedDates(ctx context.Context, roomID string, dates []string, ttl time.Duration) error
	InvalidateRoom(ctx context.Context, roomID string) error

	// GetAvailableRooms returns the cached available-rooms listing, or
	// (nil, nil) on a miss
	GetAvailableRooms(ctx context.Context) ([]entity.Room, error)
	SetAvailableRooms(ctx context.Context, rooms []entity.Room, ttl time.Duration) error
	InvalidateAvailableRooms(ctx context.Context) error

	// Counters are backed by the store's atomic increment primitive.
	// Decrements clamp at zero. Daily counters expire 30 days after their
	// last write.
	IncrementDailyReservations(ctx context.Context, key string) (int64, error)
	GetDailyReservations(ctx context.Context, date string) (int64, error)
	AddDailyRevenue(ctx context.Context, date string, amount float64) (float64, error)
	GetDailyRevenue(ctx context.Context, date string) (float64, error)
	IncrementOccupiedRooms(ctx context.Context) (int64, error)
	DecrementOccupiedRooms(ctx context.Context) (int64, error)
	GetOccupiedRoomsCount(ctx context.Context) (int64, error)
	IncrementActiveUsers(ctx context.Context) (int64, error)
	DecrementActiveUsers(ctx context.Context) (int64, error)
	GetActiveUsersCount(ctx context.Context) (int64, error)
}
