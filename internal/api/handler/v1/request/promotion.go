package request

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/ormeet/ormeet-api/internal/domain"
)

var (
	promotionKinds = []interface{}{string(domain.PromotionPercent), string(domain.PromotionFixed), string(domain.PromotionFreeTicket)}

	errPercentOver100 = errors.New("a percent discount cannot exceed 100")
)

type CreatePromotionRequest struct {
	Code                   string          `json:"code"`
	EventID                *string         `json:"eventId"`
	Kind                   string          `json:"type" enums:"percent,fixed,free-ticket"`
	Value                  decimal.Decimal `json:"value" swaggertype:"number"`
	Description            string          `json:"description"`
	ValidFrom              *time.Time      `json:"validFrom"`
	ValidUntil             *time.Time      `json:"validUntil"`
	MaxUses                *int            `json:"maxUses"`
	IsActive               *bool           `json:"isActive"`
	AppliesToTicketTypeIDs []string        `json:"appliesToTicketTypeIds"`
}

func (req *CreatePromotionRequest) Validate() error {
	err := validation.ValidateStruct(
		req,
		validation.Field(&req.Code, validation.Required, validation.Length(3, 50)),
		validation.Field(&req.EventID, validation.NilOrNotEmpty, is.UUID),
		validation.Field(&req.Kind, validation.In(promotionKinds...)),
		validation.Field(&req.Value, nonNegative),
		validation.Field(&req.ValidFrom, validation.Required),
		validation.Field(&req.ValidUntil, validation.Required, after(req.ValidFrom)),
		validation.Field(&req.MaxUses, validation.Min(0)),
		validation.Field(&req.AppliesToTicketTypeIDs, validation.Each(is.UUID)),
	)
	if err != nil {
		return err
	}

	if (req.Kind == "" || req.Kind == string(domain.PromotionPercent)) && req.Value.GreaterThan(decimal.NewFromInt(100)) {
		return errPercentOver100
	}

	return nil
}

func (req *CreatePromotionRequest) ToDomain() domain.Promotion {
	kind := domain.PromotionKind(req.Kind)
	if kind == "" {
		kind = domain.PromotionPercent
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return domain.Promotion{
		Code:                   req.Code,
		EventID:                req.EventID,
		Kind:                   kind,
		Value:                  req.Value,
		Description:            req.Description,
		ValidFrom:              *req.ValidFrom,
		ValidUntil:             *req.ValidUntil,
		MaxUses:                req.MaxUses,
		IsActive:               active,
		AppliesToTicketTypeIDs: req.AppliesToTicketTypeIDs,
	}
}

type UpdatePromotionRequest struct {
	Description            *string          `json:"description"`
	Value                  *decimal.Decimal `json:"value" swaggertype:"number"`
	ValidFrom              *time.Time       `json:"validFrom"`
	ValidUntil             *time.Time       `json:"validUntil"`
	MaxUses                *int             `json:"maxUses"`
	IsActive               *bool            `json:"isActive"`
	AppliesToTicketTypeIDs []string         `json:"appliesToTicketTypeIds"`
}

func (req *UpdatePromotionRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Value, nonNegative),
		validation.Field(&req.ValidUntil, after(req.ValidFrom)),
		validation.Field(&req.MaxUses, validation.Min(0)),
		validation.Field(&req.AppliesToTicketTypeIDs, validation.Each(is.UUID)),
	)
}

func (req *UpdatePromotionRequest) Apply(p *domain.Promotion) {
	setIf(&p.Description, req.Description)
	setIf(&p.Value, req.Value)
	setIf(&p.ValidFrom, req.ValidFrom)
	setIf(&p.ValidUntil, req.ValidUntil)
	setIf(&p.IsActive, req.IsActive)
	if req.MaxUses != nil {
		p.MaxUses = req.MaxUses
	}
	if req.AppliesToTicketTypeIDs != nil {
		p.AppliesToTicketTypeIDs = req.AppliesToTicketTypeIDs
	}
}
