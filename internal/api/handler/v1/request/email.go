package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/service"
)

type TestReminderRequest struct {
	Email           string `json:"email"`
	AttendeeName    string `json:"attendeeName"`
	EventTitle      string `json:"eventTitle"`
	EventDate       string `json:"eventDate"`
	EventLocation   string `json:"eventLocation"`
	TicketCode      string `json:"ticketCode"`
	TicketType      string `json:"ticketType"`
	HoursUntilEvent *int   `json:"hoursUntilEvent"`
}

func (req *TestReminderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.HoursUntilEvent, validation.Min(0), validation.Max(168)),
	)
}

func (req *TestReminderRequest) ToInput() service.TestReminder {
	return service.TestReminder{
		Email:           req.Email,
		AttendeeName:    req.AttendeeName,
		EventTitle:      req.EventTitle,
		EventDate:       req.EventDate,
		EventLocation:   req.EventLocation,
		TicketCode:      req.TicketCode,
		TicketType:      req.TicketType,
		HoursUntilEvent: req.HoursUntilEvent,
	}
}
