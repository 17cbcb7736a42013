package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending  OrderStatus = "pending"
	OrderPaid     OrderStatus = "paid"
	OrderFailed   OrderStatus = "failed"
	OrderRefunded OrderStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderFailed},
	OrderPaid:    {OrderRefunded},
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// MaxItemQuantity caps the tickets a single order line can ask for.
const MaxItemQuantity = 100

type OrderItem struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type Billing struct {
	Name    string         `json:"billingName"`
	Email   string         `json:"billingEmail"`
	Address map[string]any `json:"billingAddress"`
}

type Order struct {
	ID                string          `json:"id"`
	UserID            string          `json:"userId"`
	EventID           string          `json:"eventId"`
	Items             []OrderItem     `json:"items"`
	AmountTotal       decimal.Decimal `json:"amountTotal"`
	DiscountTotal     decimal.Decimal `json:"discountTotal"`
	PromotionCode     *string         `json:"promotionCode"`
	Currency          string          `json:"currency"`
	Status            OrderStatus     `json:"status"`
	PaymentProvider   *string         `json:"paymentProvider"`
	ProviderPaymentID *string         `json:"providerPaymentId"`
	CapturedAt        *time.Time      `json:"capturedAt"`
	Receipts          []string        `json:"receipts"`
	Billing
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type OrderFilter struct {
	UserID  string
	EventID string
	Status  OrderStatus
}

// Subtotal is Σ quantity × unitPrice.
func Subtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Seats is the total number of tickets the items stand for.
func Seats(items []OrderItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}

// PaymentCapture is everything written atomically when an order is paid.
type PaymentCapture struct {
	OrderID           string
	Provider          string
	ProviderPaymentID string
	CapturedAt        time.Time
	Tickets           []Ticket
	PromotionID       string
}
