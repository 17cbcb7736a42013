package dao

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound          = errors.New("order not found")
	ErrOrderWrongStatus       = errors.New("order is not in the expected status")
	ErrPaymentAlreadyCaptured = errors.New("payment already captured")
)

type OrderItem struct {
	TicketTypeID string          `json:"ticketTypeId"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
}

type Order struct {
	Model

	UserID            string                          `gorm:"type:uuid;not null;index"`
	EventID           string                          `gorm:"type:uuid;not null;index"`
	Items             datatypes.JSONType[[]OrderItem] `gorm:"not null"`
	AmountTotal       decimal.Decimal                 `gorm:"type:numeric(10,2);not null"`
	DiscountTotal     decimal.Decimal                 `gorm:"type:numeric(10,2);not null;default:0"`
	PromotionCode     *string
	Currency          string  `gorm:"type:varchar(3);not null;default:USD"`
	Status            string  `gorm:"type:varchar(16);not null;default:pending;index"`
	PaymentProvider   *string `gorm:"uniqueIndex:idx_orders_provider_payment"`
	ProviderPaymentID *string `gorm:"uniqueIndex:idx_orders_provider_payment"`
	CapturedAt        *time.Time
	Receipts          datatypes.JSONType[[]string]
	BillingName       string
	BillingEmail      string
	BillingAddress    datatypes.JSONMap
}

type OrderFilter struct {
	UserID  string
	EventID string
	Status  string
}

// Capture is the set of writes performed when an order is paid.
type Capture struct {
	OrderID           string
	Provider          string
	ProviderPaymentID string
	CapturedAt        time.Time
	Tickets           []Ticket
	PromotionID       string
}

type OrderDAO struct {
	db *gorm.DB
}

func NewOrderDAO(db *gorm.DB) *OrderDAO {
	return &OrderDAO{
		db: db,
	}
}

func (d *OrderDAO) Insert(ctx context.Context, order Order) (Order, error) {
	if err := d.db.WithContext(ctx).Create(&order).Error; err != nil {
		return Order{}, err
	}

	return order, nil
}

func (d *OrderDAO) FindByID(ctx context.Context, id string) (Order, error) {
	var order Order

	result := d.db.WithContext(ctx).First(&order, "id = ?", id)
	if result.Error != nil {
		return Order{}, notFound(result.Error, ErrOrderNotFound)
	}

	return order, nil
}

func (d *OrderDAO) FindAll(ctx context.Context, filter OrderFilter) ([]Order, error) {
	var orders []Order

	query := d.db.WithContext(ctx).Order("created_at DESC")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Find(&orders).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return orders, nil
}

func (d *OrderDAO) UpdateBilling(ctx context.Context, order Order) (Order, error) {
	result := d.db.WithContext(ctx).Model(&order).
		Select("BillingName", "BillingEmail", "BillingAddress").
		Updates(&order)
	if result.Error != nil {
		return Order{}, notFound(result.Error, ErrOrderNotFound)
	}
	if result.RowsAffected == 0 {
		return Order{}, ErrOrderNotFound
	}

	return d.FindByID(ctx, order.ID)
}

// Transition moves the order from one status to another, failing with
// ErrOrderWrongStatus if a concurrent call moved it first.
func (d *OrderDAO) Transition(ctx context.Context, id, from, to string) (Order, error) {
	result := d.db.WithContext(ctx).Model(&Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return Order{}, notFound(result.Error, ErrOrderNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return Order{}, err
		}
		return Order{}, ErrOrderWrongStatus
	}

	return d.FindByID(ctx, id)
}

// Delete removes an order unless it is paid.
func (d *OrderDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Order{}, "id = ? AND status <> ?", id, "paid")
	if result.Error != nil {
		return notFound(result.Error, ErrOrderNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrOrderWrongStatus
	}

	return nil
}

// Capture marks a pending order paid, issues its tickets, bumps quantity_sold
// of every ticket type and consumes the promotion, all or nothing.
func (d *OrderDAO) Capture(ctx context.Context, c Capture) (Order, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Order{}).
			Where("id = ? AND status = ?", c.OrderID, "pending").
			Updates(map[string]any{
				"status":              "paid",
				"payment_provider":    c.Provider,
				"provider_payment_id": c.ProviderPaymentID,
				"captured_at":         c.CapturedAt,
			})
		if result.Error != nil {
			if constraint, ok := uniqueViolation(result.Error); ok && constraint == "idx_orders_provider_payment" {
				return ErrPaymentAlreadyCaptured
			}
			return notFound(result.Error, ErrOrderNotFound)
		}
		if result.RowsAffected == 0 {
			var existing Order
			if err := tx.First(&existing, "id = ?", c.OrderID).Error; err != nil {
				return notFound(err, ErrOrderNotFound)
			}
			return ErrOrderWrongStatus
		}

		// Lock ticket types in a stable order.
		seats := make(map[string]int)
		for _, t := range c.Tickets {
			seats[t.TicketTypeID]++
		}
		ids := make([]string, 0, len(seats))
		for id := range seats {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			if err := reserveSeats(tx, id, seats[id]); err != nil {
				return err
			}
		}

		if len(c.Tickets) > 0 {
			if err := tx.Create(&c.Tickets).Error; err != nil {
				return mapTicketInsertErr(err)
			}
		}

		if c.PromotionID != "" {
			if err := consumePromotion(tx, c.PromotionID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Order{}, err
	}

	return d.FindByID(ctx, c.OrderID)
}
