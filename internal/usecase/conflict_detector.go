package usecase

import (
	"context"
	"time"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"
)

// ConflictDetector decides, without side effects, whether a reservation
// request may be accepted. Both checks are read-only and run to completion
// before the orchestrator writes anything.
type ConflictDetector struct {
	reservationRepo repository.ReservationRepository
	guestRepo       repository.GuestRepository
}

// NewConflictDetector creates a new conflict detector
func NewConflictDetector(
	reservationRepo repository.ReservationRepository,
	guestRepo repository.GuestRepository,
) *ConflictDetector {
	return &ConflictDetector{
		reservationRepo: reservationRepo,
		guestRepo:       guestRepo,
	}
}

// HasDateOverlap reports whether the candidate [checkIn, checkOut) interval
// intersects any confirmed or pending reservation for the room. Intervals are
// half-open: an existing checkout on the candidate check-in day is adjacency,
// not overlap.
func (d *ConflictDetector) HasDateOverlap(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	count, err := d.reservationRepo.CountConflicting(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// CheckDuplicateDocuments fails on the first duplicate document number found,
// first within the submitted guest list, then against the store. The store
// check is global by document number alone, stricter than the storage-level
// uniqueness constraint scoped to (documentNumber, documentType).
func (d *ConflictDetector) CheckDuplicateDocuments(ctx context.Context, guests []entity.GuestInput) error {
	seen := make(map[string]struct{}, len(guests))
	for _, guest := range guests {
		if guest.DocumentNumber == "" {
			continue
		}
		if _, ok := seen[guest.DocumentNumber]; ok {
			return &DuplicateDocumentError{DocumentNumber: guest.DocumentNumber}
		}
		seen[guest.DocumentNumber] = struct{}{}
	}

	for _, guest := range guests {
		if guest.DocumentNumber == "" {
			continue
		}
		exists, err := d.guestRepo.ExistsByDocumentNumber(ctx, guest.DocumentNumber)
		if err != nil {
			return err
		}
		if exists {
			return &DuplicateDocumentError{DocumentNumber: guest.DocumentNumber}
		}
	}

	return nil
}
