package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"
	"reservation-service/pkg/logger"
	"reservation-service/pkg/metrics"

	"gorm.io/gorm"
)

// BookingOrchestrator is the single entry point for accepting a reservation.
// The sequence is validate, then persist, then post-commit side effects; it
// is transactional in intent only. Two concurrent requests for overlapping
// dates can both pass validation before either persists; no lock closes that
// window.
type BookingOrchestrator struct {
	reservationRepo  repository.ReservationRepository
	guestRepo        repository.GuestRepository
	roomRepo         repository.RoomRepository
	categoryRepo     repository.RoomCategoryRepository
	documentTypeRepo repository.DocumentTypeRepository
	cache            repository.AvailabilityCache
	notifier         repository.Notifier
	detector         *ConflictDetector
	metrics          *metrics.Metrics
	logger           logger.Logger
}

// NewBookingOrchestrator creates a new booking orchestrator. The notifier may
// be nil when confirmation email is not configured.
func NewBookingOrchestrator(
	reservationRepo repository.ReservationRepository,
	guestRepo repository.GuestRepository,
	roomRepo repository.RoomRepository,
	categoryRepo repository.RoomCategoryRepository,
	documentTypeRepo repository.DocumentTypeRepository,
	cache repository.AvailabilityCache,
	notifier repository.Notifier,
	detector *ConflictDetector,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *BookingOrchestrator {
	return &BookingOrchestrator{
		reservationRepo:  reservationRepo,
		guestRepo:        guestRepo,
		roomRepo:         roomRepo,
		categoryRepo:     categoryRepo,
		documentTypeRepo: documentTypeRepo,
		cache:            cache,
		notifier:         notifier,
		detector:         detector,
		metrics:          metrics,
		logger:           logger,
	}
}

// Create validates, persists and commits one reservation, then runs the
// post-commit side effects (cache invalidation, counters, confirmation
// email). Post-commit failures never undo the reservation.
func (o *BookingOrchestrator) Create(ctx context.Context, input *entity.ReservationInput) (*entity.Reservation, error) {
	reservation, err := o.ValidateAndPersist(ctx, input)
	if err != nil {
		return nil, err
	}

	o.postCommit(ctx, reservation, input)

	return reservation, nil
}

// ValidateAndPersist runs the validation and persistence steps only. The
// batch processor uses it directly so that bulk items skip per-item
// post-commit work.
func (o *BookingOrchestrator) ValidateAndPersist(ctx context.Context, input *entity.ReservationInput) (*entity.Reservation, error) {
	start := time.Now()
	defer func() {
		o.metrics.BookingDuration.Observe(time.Since(start).Seconds())
	}()

	if err := o.validateInput(ctx, input); err != nil {
		o.metrics.BookingsRejected.WithLabelValues("invalid_input").Inc()
		return nil, err
	}

	if len(input.Guests) > 0 {
		if err := o.detector.CheckDuplicateDocuments(ctx, input.Guests); err != nil {
			var dup *DuplicateDocumentError
			if errors.As(err, &dup) {
				o.metrics.BookingsRejected.WithLabelValues("duplicate_document").Inc()
			}
			return nil, err
		}
	}

	overlap, err := o.detector.HasDateOverlap(ctx, input.RoomID, input.CheckInDate, input.CheckOutDate)
	if err != nil {
		return nil, err
	}
	if overlap {
		o.metrics.BookingsRejected.WithLabelValues("date_conflict").Inc()
		return nil, &DateConflictError{
			RoomID:   input.RoomID,
			CheckIn:  input.CheckInDate.Format(dateLayout),
			CheckOut: input.CheckOutDate.Format(dateLayout),
		}
	}

	guestCount, maxCapacity := normalizeCapacity(input.GuestCount, input.MaxCapacity, len(input.Guests))

	reservation := &entity.Reservation{
		UserID:          input.UserID,
		RoomID:          input.RoomID,
		CheckInDate:     input.CheckInDate,
		CheckOutDate:    input.CheckOutDate,
		TotalPrice:      input.TotalPrice,
		Status:          entity.StatusPending,
		GuestCount:      guestCount,
		MaxCapacity:     maxCapacity,
		ServiceIDs:      input.ServiceIDs,
		SpecialRequests: input.SpecialRequests,
	}

	if err := o.reservationRepo.Create(ctx, reservation); err != nil {
		return nil, fmt.Errorf("failed to persist reservation: %w", err)
	}

	// Guest writes are best-effort: a failed guest write is logged and the
	// reservation stands
	o.persistGuests(ctx, reservation.ID, input.Guests)

	o.metrics.ReservationsCreated.Inc()
	o.logger.Info("Reservation persisted",
		"reservationId", reservation.ID,
		"roomId", reservation.RoomID,
		"checkIn", reservation.CheckInDate.Format(dateLayout),
		"checkOut", reservation.CheckOutDate.Format(dateLayout))

	return reservation, nil
}

// Cancel marks a reservation cancelled, invalidates its room's cache entries
// and releases one occupied-room slot. Cancelling an already cancelled
// reservation is a no-op.
func (o *BookingOrchestrator) Cancel(ctx context.Context, id string) (*entity.Reservation, error) {
	reservation, err := o.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, &ValidationError{Reason: "reservation " + id + " not found"}
	}
	if reservation.Status == entity.StatusCancelled {
		return reservation, nil
	}

	if err := o.reservationRepo.UpdateStatus(ctx, id, entity.StatusCancelled); err != nil {
		return nil, fmt.Errorf("failed to cancel reservation: %w", err)
	}
	reservation.Status = entity.StatusCancelled

	o.invalidateCaches(ctx, reservation.RoomID)
	if _, err := o.cache.DecrementOccupiedRooms(ctx); err != nil {
		o.logCacheError("decrement_occupied_rooms", err)
	}

	o.logger.Info("Reservation cancelled", "reservationId", id, "roomId", reservation.RoomID)
	return reservation, nil
}

// Delete removes a reservation together with its guests
func (o *BookingOrchestrator) Delete(ctx context.Context, id string) error {
	reservation, err := o.reservationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if reservation == nil {
		return &ValidationError{Reason: "reservation " + id + " not found"}
	}

	if err := o.reservationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	if err := o.guestRepo.DeleteByReservation(ctx, id); err != nil {
		o.logger.Error("Failed to delete guests of reservation", "reservationId", id, "error", err)
	}

	o.invalidateCaches(ctx, reservation.RoomID)
	if reservation.Status == entity.StatusPending || reservation.Status == entity.StatusConfirmed {
		if _, err := o.cache.DecrementOccupiedRooms(ctx); err != nil {
			o.logCacheError("decrement_occupied_rooms", err)
		}
	}

	o.logger.Info("Reservation deleted", "reservationId", id, "roomId", reservation.RoomID)
	return nil
}

func (o *BookingOrchestrator) validateInput(ctx context.Context, input *entity.ReservationInput) error {
	if input.RoomID == "" {
		return &ValidationError{Reason: "roomId is required"}
	}
	if input.UserID == "" {
		return &ValidationError{Reason: "userId is required"}
	}
	if input.CheckInDate.IsZero() || input.CheckOutDate.IsZero() {
		return &ValidationError{Reason: "checkInDate and checkOutDate are required"}
	}
	if !input.CheckInDate.Before(input.CheckOutDate) {
		return &ValidationError{Reason: "checkInDate must be before checkOutDate"}
	}
	if input.TotalPrice < 0 {
		return &ValidationError{Reason: "totalPrice must not be negative"}
	}

	for _, guest := range input.Guests {
		if guest.DocumentTypeCode == "" {
			return &ValidationError{Reason: "guest document type is required"}
		}
		if guest.DocumentNumber == "" {
			return &ValidationError{Reason: "guest document number is required"}
		}
		if _, err := o.documentTypeRepo.GetByCode(ctx, guest.DocumentTypeCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ValidationError{Reason: "unknown document type " + guest.DocumentTypeCode}
			}
			return err
		}
	}

	return nil
}

// normalizeCapacity defaults the guest count to the submitted guest list
// length, the capacity to the guest count, and clamps guestCount <= capacity
func normalizeCapacity(guestCount, maxCapacity, submittedGuests int) (int, int) {
	if guestCount < 1 {
		guestCount = submittedGuests
	}
	if guestCount < 1 {
		guestCount = 1
	}
	if maxCapacity < 1 {
		maxCapacity = guestCount
	}
	if guestCount > maxCapacity {
		guestCount = maxCapacity
	}
	return guestCount, maxCapacity
}

func (o *BookingOrchestrator) persistGuests(ctx context.Context, reservationID string, guests []entity.GuestInput) {
	for _, input := range guests {
		guest := &entity.Guest{
			ReservationID:    reservationID,
			IsMainGuest:      input.IsMainGuest,
			DocumentTypeCode: input.DocumentTypeCode,
			DocumentNumber:   input.DocumentNumber,
			FirstName:        input.FirstName,
			LastName:         input.LastName,
			BirthDate:        input.BirthDate,
			Nationality:      input.Nationality,
			PhoneNumber:      input.PhoneNumber,
			Email:            input.Email,
			IsCompleted:      input.IsCompleted,
		}
		if err := o.guestRepo.Create(ctx, guest); err != nil {
			o.logger.Error("Failed to register guest on reservation",
				"reservationId", reservationID,
				"documentNumber", input.DocumentNumber,
				"error", err)
		}
	}
}

// postCommit runs the side effects of a committed reservation. Each step is
// independently fallible; a failure is logged and the remaining steps still
// run.
func (o *BookingOrchestrator) postCommit(ctx context.Context, reservation *entity.Reservation, input *entity.ReservationInput) {
	o.invalidateCaches(ctx, reservation.RoomID)

	today := time.Now().UTC().Format(dateLayout)
	if _, err := o.cache.IncrementDailyReservations(ctx, today); err != nil {
		o.logCacheError("increment_daily_reservations", err)
	}
	if _, err := o.cache.AddDailyRevenue(ctx, today, reservation.TotalPrice); err != nil {
		o.logCacheError("add_daily_revenue", err)
	}
	if _, err := o.cache.IncrementOccupiedRooms(ctx); err != nil {
		o.logCacheError("increment_occupied_rooms", err)
	}

	o.updateCategoryCounter(ctx, reservation.RoomID, today)

	if o.notifier != nil && input.RecipientEmail != "" {
		if err := o.notifier.SendReservationConfirmation(ctx, reservation, input.RecipientEmail); err != nil {
			o.logger.Error("Confirmation notification failed",
				"reservationId", reservation.ID,
				"recipient", input.RecipientEmail,
				"error", err)
		}
	}
}

// updateCategoryCounter bumps the per-category daily counter when the room's
// category is resolvable
func (o *BookingOrchestrator) updateCategoryCounter(ctx context.Context, roomID, today string) {
	room, err := o.roomRepo.FindByID(ctx, roomID)
	if err != nil || room == nil || room.CategoryCode == "" {
		return
	}

	category, err := o.categoryRepo.GetByCode(ctx, room.CategoryCode)
	if err != nil {
		o.logger.Warn("Failed to resolve room category", "roomId", roomID, "categoryCode", room.CategoryCode, "error", err)
		return
	}

	key := fmt.Sprintf("%s:category:%s", today, category.Code)
	if _, err := o.cache.IncrementDailyReservations(ctx, key); err != nil {
		o.logCacheError("increment_category_reservations", err)
	}
}

func (o *BookingOrchestrator) invalidateCaches(ctx context.Context, roomID string) {
	if err := o.cache.InvalidateRoom(ctx, roomID); err != nil {
		o.logCacheError("invalidate_room", err)
	}
	if err := o.cache.InvalidateAvailableRooms(ctx); err != nil {
		o.logCacheError("invalidate_available_rooms", err)
	}
}

func (o *BookingOrchestrator) logCacheError(operation string, err error) {
	o.metrics.CacheErrors.WithLabelValues(operation).Inc()
	o.logger.Error("Availability cache operation failed", "operation", operation, "error", err)
}
