package usecase

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"
	"reservation-service/pkg/logger"
)

const dateLayout = "2006-01-02"

// ExpandStayDates expands a half-open [checkIn, checkOut) interval to one
// date string per covered calendar day. The checkout day is excluded.
func ExpandStayDates(checkIn, checkOut time.Time) []string {
	var dates []string
	for d := checkIn; d.Before(checkOut); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// AvailabilityService serves derived occupancy data through the cache-aside
// layer and exposes the real-time counter snapshot
type AvailabilityService struct {
	reservationRepo repository.ReservationRepository
	roomRepo        repository.RoomRepository
	cache           repository.AvailabilityCache
	logger          logger.Logger

	occupiedDatesTTL  time.Duration
	availableRoomsTTL time.Duration
}

// NewAvailabilityService creates a new availability service
func NewAvailabilityService(
	reservationRepo repository.ReservationRepository,
	roomRepo repository.RoomRepository,
	cache repository.AvailabilityCache,
	logger logger.Logger,
	occupiedDatesTTL time.Duration,
	availableRoomsTTL time.Duration,
) *AvailabilityService {
	return &AvailabilityService{
		reservationRepo:   reservationRepo,
		roomRepo:          roomRepo,
		cache:             cache,
		logger:            logger,
		occupiedDatesTTL:  occupiedDatesTTL,
		availableRoomsTTL: availableRoomsTTL,
	}
}

// GetOccupiedDates returns every calendar date covered by a confirmed or
// pending reservation for the room. Cache hits are returned unchanged; on a
// miss the set is rebuilt from the record store and cached. Cache failures
// are logged and treated as misses.
func (s *AvailabilityService) GetOccupiedDates(ctx context.Context, roomID string) ([]string, error) {
	cached, err := s.cache.GetOccupiedDates(ctx, roomID)
	if err != nil {
		s.logger.Warn("Occupied dates cache read failed", "roomId", roomID, "error", err)
	} else if cached != nil {
		s.logger.Debug("Occupied dates cache hit", "roomId", roomID)
		return cached, nil
	}

	stays, err := s.reservationRepo.FindStaysByRoom(ctx, roomID, []string{entity.StatusConfirmed, entity.StatusPending})
	if err != nil {
		return nil, err
	}

	dates := make([]string, 0)
	for _, stay := range stays {
		dates = append(dates, ExpandStayDates(stay.CheckInDate, stay.CheckOutDate)...)
	}

	if err := s.cache.SetOccupiedDates(ctx, roomID, dates, s.occupiedDatesTTL); err != nil {
		s.logger.Warn("Occupied dates cache write failed", "roomId", roomID, "error", err)
	}

	return dates, nil
}

// GetAvailableRooms returns the rooms currently open for booking, cached
// under a single shared entry
func (s *AvailabilityService) GetAvailableRooms(ctx context.Context) ([]entity.Room, error) {
	cached, err := s.cache.GetAvailableRooms(ctx)
	if err != nil {
		s.logger.Warn("Available rooms cache read failed", "error", err)
	} else if cached != nil {
		return cached, nil
	}

	rooms, err := s.roomRepo.FindAvailable(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetAvailableRooms(ctx, rooms, s.availableRoomsTTL); err != nil {
		s.logger.Warn("Available rooms cache write failed", "error", err)
	}

	return rooms, nil
}

// MetricsSnapshot reads today's reservation count and revenue plus the
// occupied-room and active-user counters. Best-effort: each failed read is
// logged and reported as zero.
func (s *AvailabilityService) MetricsSnapshot(ctx context.Context) *entity.MetricsSnapshot {
	today := time.Now().UTC().Format(dateLayout)

	snapshot := &entity.MetricsSnapshot{
		Date:      today,
		Timestamp: time.Now().UTC(),
	}

	var err error
	if snapshot.Reservations, err = s.cache.GetDailyReservations(ctx, today); err != nil {
		s.logger.Warn("Failed to read daily reservations counter", "error", err)
	}
	if snapshot.Revenue, err = s.cache.GetDailyRevenue(ctx, today); err != nil {
		s.logger.Warn("Failed to read daily revenue counter", "error", err)
	}
	if snapshot.OccupiedRooms, err = s.cache.GetOccupiedRoomsCount(ctx); err != nil {
		s.logger.Warn("Failed to read occupied rooms counter", "error", err)
	}
	if snapshot.ActiveUsers, err = s.cache.GetActiveUsersCount(ctx); err != nil {
		s.logger.Warn("Failed to read active users counter", "error", err)
	}

	return snapshot
}

// TrackUserActive increments the active-user counter
func (s *AvailabilityService) TrackUserActive(ctx context.Context) {
	if _, err := s.cache.IncrementActiveUsers(ctx); err != nil {
		s.logger.Warn("Failed to increment active users counter", "error", err)
	}
}

// TrackUserInactive decrements the active-user counter, clamped at zero
func (s *AvailabilityService) TrackUserInactive(ctx context.Context) {
	if _, err := s.cache.DecrementActiveUsers(ctx); err != nil {
		s.logger.Warn("Failed to decrement active users counter", "error", err)
	}
}
