package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromotionKind string

const (
	PromotionPercent    PromotionKind = "percent"
	PromotionFixed      PromotionKind = "fixed"
	PromotionFreeTicket PromotionKind = "free-ticket"
)

type Promotion struct {
	ID                     string          `json:"id"`
	Code                   string          `json:"code"`
	EventID                *string         `json:"eventId"`
	Kind                   PromotionKind   `json:"type"`
	Value                  decimal.Decimal `json:"value"`
	Description            string          `json:"description"`
	ValidFrom              time.Time       `json:"validFrom"`
	ValidUntil             time.Time       `json:"validUntil"`
	MaxUses                *int            `json:"maxUses"`
	UsedCount              int             `json:"usedCount"`
	IsActive               bool            `json:"isActive"`
	AppliesToTicketTypeIDs []string        `json:"appliesToTicketTypeIds"`
	CreatedAt              time.Time       `json:"createdAt"`
	UpdatedAt              time.Time       `json:"updatedAt"`
}

type PromotionFilter struct {
	EventID  string
	IsActive *bool
}

// PromotionValidation is the outcome of validating a code: Valid with the
// promotion, or not Valid with a reason.
type PromotionValidation struct {
	Valid     bool       `json:"valid"`
	Message   string     `json:"message,omitempty"`
	Promotion *Promotion `json:"promotion,omitempty"`
}

const (
	PromotionMsgInvalid  = "Invalid promotion code"
	PromotionMsgInactive = "Promotion is no longer active"
	PromotionMsgNotYet   = "Promotion has not started yet"
	PromotionMsgExpired  = "Promotion has expired"
	PromotionMsgMaxUses  = "Promotion has reached maximum uses"
)

// Validate checks, in order, activity, start, expiry and the usage cap.
func (p Promotion) Validate(now time.Time) PromotionValidation {
	switch {
	case !p.IsActive:
		return PromotionValidation{Message: PromotionMsgInactive}
	case now.Before(p.ValidFrom):
		return PromotionValidation{Message: PromotionMsgNotYet}
	case now.After(p.ValidUntil):
		return PromotionValidation{Message: PromotionMsgExpired}
	case p.MaxUses != nil && p.UsedCount >= *p.MaxUses:
		return PromotionValidation{Message: PromotionMsgMaxUses}
	}

	return PromotionValidation{Valid: true, Promotion: &p}
}

func (p Promotion) AppliesTo(ticketTypeID string) bool {
	if len(p.AppliesToTicketTypeIDs) == 0 {
		return true
	}
	for _, id := range p.AppliesToTicketTypeIDs {
		if id == ticketTypeID {
			return true
		}
	}
	return false
}

// Discount returns the amount taken off items. It never exceeds the total of
// the items the promotion applies to.
func (p Promotion) Discount(items []OrderItem) decimal.Decimal {
	eligible := make([]OrderItem, 0, len(items))
	for _, item := range items {
		if p.AppliesTo(item.TicketTypeID) {
			eligible = append(eligible, item)
		}
	}
	base := Subtotal(eligible)
	if base.IsZero() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch p.Kind {
	case PromotionPercent:
		discount = base.Mul(p.Value).Div(decimal.NewFromInt(100)).Round(2)
	case PromotionFixed:
		discount = p.Value
	case PromotionFreeTicket:
		discount = eligible[0].UnitPrice
		for _, item := range eligible[1:] {
			if item.UnitPrice.LessThan(discount) {
				discount = item.UnitPrice
			}
		}
	}

	if discount.GreaterThan(base) {
		return base
	}
	if discount.IsNegative() {
		return decimal.Zero
	}
	return discount
}
