package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

var checkInMethods = []interface{}{string(domain.CheckInQR), string(domain.CheckInNFC), string(domain.CheckInManual)}

type CheckInRequest struct {
	TicketID string         `json:"ticketId"`
	EventID  string         `json:"eventId"`
	Method   string         `json:"method" enums:"qr,nfc,manual"`
	Metadata map[string]any `json:"metadata"`
}

func (req *CheckInRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.TicketID, validation.Required, is.UUID),
		validation.Field(&req.EventID, validation.Required, is.UUID),
		validation.Field(&req.Method, validation.Required, validation.In(checkInMethods...)),
	)
}

func (req *CheckInRequest) ToInput() service.CheckInInput {
	return service.CheckInInput{
		TicketID: req.TicketID,
		EventID:  req.EventID,
		Method:   domain.CheckInMethod(req.Method),
		Metadata: req.Metadata,
	}
}

type UpdateAttendanceRequest struct {
	Method   string         `json:"method" enums:"qr,nfc,manual"`
	Metadata map[string]any `json:"metadata"`
}

func (req *UpdateAttendanceRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Method, validation.In(checkInMethods...)),
	)
}
