package domain

import "time"

type TicketStatus string

const (
	TicketActive    TicketStatus = "active"
	TicketUsed      TicketStatus = "used"
	TicketCancelled TicketStatus = "cancelled"
)

// Only active tickets move, and only to used or cancelled. Transfers keep the
// ticket active.
func (s TicketStatus) CanTransitionTo(next TicketStatus) bool {
	return s == TicketActive && (next == TicketUsed || next == TicketCancelled)
}

type Seat struct {
	Section *string `json:"seatSection"`
	Row     *string `json:"seatRow"`
	Number  *string `json:"seatNumber"`
}

type Ticket struct {
	ID           string       `json:"id"`
	TicketTypeID string       `json:"ticketTypeId"`
	EventID      string       `json:"eventId"`
	OrderID      string       `json:"orderId"`
	OwnerID      string       `json:"ownerId"`
	Code         string       `json:"code"`
	Status       TicketStatus `json:"status"`
	IssuedAt     time.Time    `json:"issuedAt"`
	Seat
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TicketFilter struct {
	OwnerID string
	OrderID string
	EventID string
	Status  TicketStatus
}
