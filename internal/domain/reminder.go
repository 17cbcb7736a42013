package domain

import "time"

// ReminderRecipient is an active ticket holder of an upcoming event.
type ReminderRecipient struct {
	TicketID   string
	TicketCode string
	TicketType string
	OwnerID    string
	Email      string
	Name       string
}

type ReminderDelivery struct {
	ID        string
	EventID   string
	TicketID  string
	Email     string
	LeadHours int
	SentAt    time.Time
}
