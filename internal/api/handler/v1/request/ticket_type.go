package request

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/ormeet/ormeet-api/internal/domain"
)

var ticketKinds = []interface{}{string(domain.TicketKindGeneral), string(domain.TicketKindVIP), string(domain.TicketKindEarlyBird)}

type CreateTicketTypeRequest struct {
	EventID       string          `json:"eventId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" swaggertype:"number"`
	Currency      string          `json:"currency"`
	QuantityTotal int             `json:"quantityTotal"`
	SalesStart    *time.Time      `json:"salesStart"`
	SalesEnd      *time.Time      `json:"salesEnd"`
	IsFree        bool            `json:"isFree"`
	Kind          string          `json:"type" enums:"general,vip,early-bird"`
	Metadata      map[string]any  `json:"metadata"`
}

func (req *CreateTicketTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, is.UUID),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Price, nonNegative),
		validation.Field(&req.Currency, validation.Length(3, 3)),
		validation.Field(&req.QuantityTotal, validation.Required, validation.Min(1)),
		validation.Field(&req.SalesEnd, after(req.SalesStart)),
		validation.Field(&req.Kind, validation.In(ticketKinds...)),
	)
}

func (req *CreateTicketTypeRequest) ToDomain() domain.TicketType {
	return domain.TicketType{
		EventID:       req.EventID,
		Title:         req.Title,
		Description:   req.Description,
		Price:         req.Price,
		Currency:      req.Currency,
		QuantityTotal: req.QuantityTotal,
		SalesStart:    req.SalesStart,
		SalesEnd:      req.SalesEnd,
		IsFree:        req.IsFree,
		Kind:          domain.TicketKind(req.Kind),
		Metadata:      req.Metadata,
	}
}

type UpdateTicketTypeRequest struct {
	Title         *string          `json:"title"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price" swaggertype:"number"`
	QuantityTotal *int             `json:"quantityTotal"`
	SalesStart    *time.Time       `json:"salesStart"`
	SalesEnd      *time.Time       `json:"salesEnd"`
	IsFree        *bool            `json:"isFree"`
	Kind          *string          `json:"type" enums:"general,vip,early-bird"`
	Metadata      map[string]any   `json:"metadata"`
}

func (req *UpdateTicketTypeRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.NilOrNotEmpty),
		validation.Field(&req.Price, nonNegative),
		validation.Field(&req.QuantityTotal, validation.Min(1)),
		validation.Field(&req.SalesEnd, after(req.SalesStart)),
		validation.Field(&req.Kind, validation.In(ticketKinds...)),
	)
}

func (req *UpdateTicketTypeRequest) Apply(t *domain.TicketType) {
	setIf(&t.Title, req.Title)
	setIf(&t.Description, req.Description)
	setIf(&t.Price, req.Price)
	setIf(&t.QuantityTotal, req.QuantityTotal)
	setIf(&t.IsFree, req.IsFree)
	if req.SalesStart != nil {
		t.SalesStart = req.SalesStart
	}
	if req.SalesEnd != nil {
		t.SalesEnd = req.SalesEnd
	}
	if req.Kind != nil {
		t.Kind = domain.TicketKind(*req.Kind)
	}
	if req.Metadata != nil {
		t.Metadata = req.Metadata
	}
}
