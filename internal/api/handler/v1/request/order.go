package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/shopspring/decimal"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/service"
)

type OrderItemRequest struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice" swaggertype:"number"`
}

func (req OrderItemRequest) Validate() error {
	return validation.ValidateStruct(
		&req,
		validation.Field(&req.TicketTypeID, validation.Required, is.UUID),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1), validation.Max(domain.MaxItemQuantity)),
	)
}

type CreateOrderRequest struct {
	EventID        string             `json:"eventId"`
	Items          []OrderItemRequest `json:"items"`
	BillingName    string             `json:"billingName"`
	BillingEmail   string             `json:"billingEmail"`
	BillingAddress map[string]any     `json:"billingAddress"`
	PromotionCode  string             `json:"promotionCode"`
}

func (req *CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required, is.UUID),
		validation.Field(&req.Items, validation.Required),
		validation.Field(&req.BillingName, validation.Required),
		validation.Field(&req.BillingEmail, validation.Required, is.Email),
	)
}

func (req *CreateOrderRequest) ToInput() service.CreateOrderInput {
	items := make([]domain.OrderItem, len(req.Items))
	for i, item := range req.Items {
		items[i] = domain.OrderItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		}
	}

	return service.CreateOrderInput{
		EventID: req.EventID,
		Items:   items,
		Billing: domain.Billing{
			Name:    req.BillingName,
			Email:   req.BillingEmail,
			Address: req.BillingAddress,
		},
		PromotionCode: req.PromotionCode,
	}
}

type UpdateOrderRequest struct {
	BillingName    *string        `json:"billingName"`
	BillingEmail   *string        `json:"billingEmail"`
	BillingAddress map[string]any `json:"billingAddress"`
}

func (req *UpdateOrderRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.BillingName, validation.NilOrNotEmpty),
		validation.Field(&req.BillingEmail, validation.NilOrNotEmpty, is.Email),
	)
}

// Merge overlays the request on the current billing details.
func (req *UpdateOrderRequest) Merge(current domain.Billing) domain.Billing {
	setIf(&current.Name, req.BillingName)
	setIf(&current.Email, req.BillingEmail)
	if req.BillingAddress != nil {
		current.Address = req.BillingAddress
	}
	return current
}

type ProcessPaymentRequest struct {
	PaymentProvider   string `json:"paymentProvider"`
	ProviderPaymentID string `json:"providerPaymentId"`
}

func (req *ProcessPaymentRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.PaymentProvider, validation.Required, validation.Length(1, 32)),
		validation.Field(&req.ProviderPaymentID, validation.Required),
	)
}
