package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ormeet/ormeet-api/internal/notify"
)

// TestReminder previews the reminder email. Only Email is required.
type TestReminder struct {
	Email           string
	AttendeeName    string
	EventTitle      string
	EventDate       string
	EventLocation   string
	TicketCode      string
	TicketType      string
	HoursUntilEvent *int
}

type EmailService struct {
	sender      Sender
	frontendURL string
	now         clock
}

func NewEmailService(sender Sender, frontendURL string) *EmailService {
	return &EmailService{
		sender:      sender,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// SendTestReminder renders and sends a reminder right away, filling blanks
// with sample values. Delivery errors are returned.
func (s *EmailService) SendTestReminder(ctx context.Context, in TestReminder) error {
	hours := 24
	if in.HoursUntilEvent != nil {
		hours = *in.HoursUntilEvent
	}

	data := notify.ReminderData{
		AttendeeName:    orDefault(in.AttendeeName, "Test Attendee"),
		EventTitle:      orDefault(in.EventTitle, "Sample Event - Test Reminder"),
		EventDate:       orDefault(in.EventDate, notify.FormatEventDate(s.now().Add(24*time.Hour), "UTC")),
		EventLocation:   orDefault(in.EventLocation, "Convention Center, New York"),
		TicketCode:      orDefault(in.TicketCode, "TEST12345678"),
		TicketType:      orDefault(in.TicketType, "General Admission"),
		HoursUntilEvent: hours,
		EventURL:        s.frontendURL + "/events",
	}

	if err := s.sender.Send(ctx, notify.EventReminder(in.Email, data)); err != nil {
		return fmt.Errorf("s.sender.Send -> %w", err)
	}

	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
