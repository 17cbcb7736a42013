package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketKind string

const (
	TicketKindGeneral   TicketKind = "general"
	TicketKindVIP       TicketKind = "vip"
	TicketKindEarlyBird TicketKind = "early-bird"
)

type TicketType struct {
	ID            string          `json:"id"`
	EventID       string          `json:"eventId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Currency      string          `json:"currency"`
	QuantityTotal int             `json:"quantityTotal"`
	QuantitySold  int             `json:"quantitySold"`
	SalesStart    *time.Time      `json:"salesStart"`
	SalesEnd      *time.Time      `json:"salesEnd"`
	IsFree        bool            `json:"isFree"`
	Kind          TicketKind      `json:"type"`
	Metadata      map[string]any  `json:"metadata"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (t TicketType) Available() int {
	return t.QuantityTotal - t.QuantitySold
}

// OnSale reports whether t can be bought at now: inside its sales window and
// not sold out.
func (t TicketType) OnSale(now time.Time) bool {
	if t.SalesStart != nil && now.Before(*t.SalesStart) {
		return false
	}
	if t.SalesEnd != nil && now.After(*t.SalesEnd) {
		return false
	}
	return t.Available() > 0
}
