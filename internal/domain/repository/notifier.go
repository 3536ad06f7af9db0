package repository

import (
	"context"

	"reservation-service/internal/domain/entity"
)

// Notifier sends reservation confirmations. Notification is a best-effort
// post-commit step: failures are logged by callers, never propagated.
type Notifier interface {
	SendReservationConfirmation(ctx context.Context, reservation *entity.Reservation, recipientEmail string) error
}
