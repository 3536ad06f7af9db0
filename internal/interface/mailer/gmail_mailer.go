package mailer

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"reservation-service/internal/domain/entity"
	"reservation-service/internal/domain/repository"
	"reservation-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// GmailMailer sends reservation confirmations through the Gmail API
type GmailMailer struct {
	gmailService *gmail.Service
	sender       string
	logger       logger.Logger
}

// NewGmailMailer creates a new Gmail mailer
func NewGmailMailer(ctx context.Context, tokenSource oauth2.TokenSource, sender string, logger logger.Logger) (*GmailMailer, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &GmailMailer{
		gmailService: service,
		sender:       sender,
		logger:       logger,
	}, nil
}

var _ repository.Notifier = (*GmailMailer)(nil)

// SendReservationConfirmation sends a confirmation email for a committed
// reservation
func (m *GmailMailer) SendReservationConfirmation(ctx context.Context, reservation *entity.Reservation, recipientEmail string) error {
	subject := fmt.Sprintf("Reservation confirmed - %s", reservation.ID)
	body := m.buildBody(reservation)

	var raw strings.Builder
	raw.WriteString("From: " + m.sender + "\r\n")
	raw.WriteString("To: " + recipientEmail + "\r\n")
	raw.WriteString("Subject: " + subject + "\r\n")
	raw.WriteString("MIME-Version: 1.0\r\n")
	raw.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	raw.WriteString("\r\n")
	raw.WriteString(body)

	message := &gmail.Message{
		Raw: base64.URLEncoding.EncodeToString([]byte(raw.String())),
	}

	_, err := m.gmailService.Users.Messages.Send("me", message).Context(ctx).Do()
	if err != nil {
		m.logger.Error("Failed to send confirmation email",
			"reservationId", reservation.ID,
			"recipient", recipientEmail,
			"error", err)
		return err
	}

	m.logger.Info("Confirmation email sent",
		"reservationId", reservation.ID,
		"recipient", recipientEmail)
	return nil
}

func (m *GmailMailer) buildBody(reservation *entity.Reservation) string {
	var b strings.Builder
	b.WriteString("Your reservation has been confirmed.\n\n")
	b.WriteString(fmt.Sprintf("Reservation: %s\n", reservation.ID))
	b.WriteString(fmt.Sprintf("Room: %s\n", reservation.RoomID))
	b.WriteString(fmt.Sprintf("Check-in: %s\n", reservation.CheckInDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Check-out: %s\n", reservation.CheckOutDate.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Guests: %d\n", reservation.GuestCount))
	b.WriteString(fmt.Sprintf("Total: $%.2f\n", reservation.TotalPrice))
	if reservation.SpecialRequests != "" {
		b.WriteString(fmt.Sprintf("Special requests: %s\n", reservation.SpecialRequests))
	}
	return b.String()
}
