package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type CreateTicketRequest struct {
	OrderID      string  `json:"orderId"`
	TicketTypeID string  `json:"ticketTypeId"`
	OwnerID      string  `json:"ownerId"`
	SeatSection  *string `json:"seatSection"`
	SeatRow      *string `json:"seatRow"`
	SeatNumber   *string `json:"seatNumber"`
}

func (req *CreateTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.OrderID, validation.Required, is.UUID),
		validation.Field(&req.TicketTypeID, validation.Required, is.UUID),
		validation.Field(&req.OwnerID, validation.Required, is.UUID),
	)
}

func (req *CreateTicketRequest) ToInput() service.CreateTicketInput {
	return service.CreateTicketInput{
		OrderID:      req.OrderID,
		TicketTypeID: req.TicketTypeID,
		OwnerID:      req.OwnerID,
		Seat: domain.Seat{
			Section: req.SeatSection,
			Row:     req.SeatRow,
			Number:  req.SeatNumber,
		},
	}
}

type UpdateTicketRequest struct {
	SeatSection *string `json:"seatSection"`
	SeatRow     *string `json:"seatRow"`
	SeatNumber  *string `json:"seatNumber"`
}

func (req *UpdateTicketRequest) Seat() domain.Seat {
	return domain.Seat{
		Section: req.SeatSection,
		Row:     req.SeatRow,
		Number:  req.SeatNumber,
	}
}

type TransferTicketRequest struct {
	NewOwnerID string `json:"newOwnerId"`
}

func (req *TransferTicketRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.NewOwnerID, validation.Required, is.UUID),
	)
}
