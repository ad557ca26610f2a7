package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"fleetrental-backend/internal/money"
)

type sendgridEmailService struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridEmailService(apiKey, fromEmail, fromName string) EmailService {
	return &sendgridEmailService{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendgridEmailService) send(ctx context.Context, to, toName, subject, plainText string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	recipient := mail.NewEmail(toName, to)
	message := mail.NewSingleEmail(from, subject, recipient, plainText, "")

	resp, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (s *sendgridEmailService) SendBookingCreated(ctx context.Context, to, customerName, bookingNumber, plate string, start, end time.Time, total money.Amount) error {
	subject := fmt.Sprintf("Booking %s received", bookingNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nWe received your booking %s for vehicle %s, from %s to %s.\nTotal: %s TND.\n\nWe will confirm it shortly.\n",
		customerName, bookingNumber, plate,
		start.Format("2006-01-02"), end.Format("2006-01-02"), total.String(),
	)
	return s.send(ctx, to, customerName, subject, body)
}

func (s *sendgridEmailService) SendBookingConfirmed(ctx context.Context, to, customerName, bookingNumber, plate string) error {
	subject := fmt.Sprintf("Booking %s confirmed", bookingNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour booking %s is confirmed. Vehicle %s is reserved for you.\n\nSee you at the counter.\n",
		customerName, bookingNumber, plate,
	)
	return s.send(ctx, to, customerName, subject, body)
}

func (s *sendgridEmailService) SendBookingCompleted(ctx context.Context, to, customerName, bookingNumber string, total money.Amount) error {
	subject := fmt.Sprintf("Booking %s completed", bookingNumber)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour rental %s is complete. Total charged: %s TND.\n\nThank you for riding with us.\n",
		customerName, bookingNumber, total.String(),
	)
	return s.send(ctx, to, customerName, subject, body)
}

func (s *sendgridEmailService) SendBookingCancelled(ctx context.Context, to, customerName, bookingNumber, reason string) error {
	subject := fmt.Sprintf("Booking %s cancelled", bookingNumber)
	body := fmt.Sprintf("Hello %s,\n\nYour booking %s has been cancelled.", customerName, bookingNumber)
	if reason != "" {
		body += fmt.Sprintf(" Reason: %s.", reason)
	}
	body += "\n\nContact the agency if this is unexpected.\n"
	return s.send(ctx, to, customerName, subject, body)
}
