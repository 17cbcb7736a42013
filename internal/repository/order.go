package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrOrderNotFound          = dao.ErrOrderNotFound
	ErrOrderWrongStatus       = dao.ErrOrderWrongStatus
	ErrPaymentAlreadyCaptured = dao.ErrPaymentAlreadyCaptured
)

type OrderDAO interface {
	Insert(ctx context.Context, order dao.Order) (dao.Order, error)
	FindByID(ctx context.Context, id string) (dao.Order, error)
	FindAll(ctx context.Context, filter dao.OrderFilter) ([]dao.Order, error)
	UpdateBilling(ctx context.Context, order dao.Order) (dao.Order, error)
	Transition(ctx context.Context, id, from, to string) (dao.Order, error)
	Delete(ctx context.Context, id string) error
	Capture(ctx context.Context, c dao.Capture) (dao.Order, error)
}

type OrderRepository struct {
	dao OrderDAO
}

func NewOrderRepository(dao OrderDAO) *OrderRepository {
	return &OrderRepository{
		dao: dao,
	}
}

func (r *OrderRepository) Create(ctx context.Context, order domain.Order) (domain.Order, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(order))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (domain.Order, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *OrderRepository) FindAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	found, err := r.dao.FindAll(ctx, dao.OrderFilter{
		UserID:  filter.UserID,
		EventID: filter.EventID,
		Status:  string(filter.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	orders := make([]domain.Order, len(found))
	for i := range found {
		orders[i] = r.daoToDomain(found[i])
	}

	return orders, nil
}

func (r *OrderRepository) UpdateBilling(ctx context.Context, id string, billing domain.Billing) (domain.Order, error) {
	updated, err := r.dao.UpdateBilling(ctx, dao.Order{
		Model:          dao.Model{ID: id},
		BillingName:    billing.Name,
		BillingEmail:   billing.Email,
		BillingAddress: datatypes.JSONMap(billing.Address),
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.UpdateBilling -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *OrderRepository) Transition(ctx context.Context, id string, from, to domain.OrderStatus) (domain.Order, error) {
	updated, err := r.dao.Transition(ctx, id, string(from), string(to))
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Transition -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// Capture persists a payment capture: the order flips to paid and its tickets
// are issued together, or nothing is written.
func (r *OrderRepository) Capture(ctx context.Context, c domain.PaymentCapture) (domain.Order, error) {
	tickets := make([]dao.Ticket, len(c.Tickets))
	for i := range c.Tickets {
		tickets[i] = ticketToDao(c.Tickets[i])
	}

	captured, err := r.dao.Capture(ctx, dao.Capture{
		OrderID:           c.OrderID,
		Provider:          c.Provider,
		ProviderPaymentID: c.ProviderPaymentID,
		CapturedAt:        c.CapturedAt,
		Tickets:           tickets,
		PromotionID:       c.PromotionID,
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("r.dao.Capture -> %w", err)
	}

	return r.daoToDomain(captured), nil
}

func (r *OrderRepository) domainToDao(o domain.Order) dao.Order {
	items := make([]dao.OrderItem, len(o.Items))
	for i, item := range o.Items {
		items[i] = dao.OrderItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		}
	}

	return dao.Order{
		Model:             dao.Model{ID: o.ID, CreatedAt: o.CreatedAt},
		UserID:            o.UserID,
		EventID:           o.EventID,
		Items:             datatypes.NewJSONType(items),
		AmountTotal:       o.AmountTotal,
		DiscountTotal:     o.DiscountTotal,
		PromotionCode:     o.PromotionCode,
		Currency:          o.Currency,
		Status:            string(o.Status),
		PaymentProvider:   o.PaymentProvider,
		ProviderPaymentID: o.ProviderPaymentID,
		CapturedAt:        o.CapturedAt,
		Receipts:          datatypes.NewJSONType(o.Receipts),
		BillingName:       o.Billing.Name,
		BillingEmail:      o.Billing.Email,
		BillingAddress:    datatypes.JSONMap(o.Billing.Address),
	}
}

func (r *OrderRepository) daoToDomain(o dao.Order) domain.Order {
	stored := o.Items.Data()
	items := make([]domain.OrderItem, len(stored))
	for i, item := range stored {
		items[i] = domain.OrderItem{
			TicketTypeID: item.TicketTypeID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
		}
	}

	return domain.Order{
		ID:                o.ID,
		UserID:            o.UserID,
		EventID:           o.EventID,
		Items:             items,
		AmountTotal:       o.AmountTotal,
		DiscountTotal:     o.DiscountTotal,
		PromotionCode:     o.PromotionCode,
		Currency:          o.Currency,
		Status:            domain.OrderStatus(o.Status),
		PaymentProvider:   o.PaymentProvider,
		ProviderPaymentID: o.ProviderPaymentID,
		CapturedAt:        o.CapturedAt,
		Receipts:          o.Receipts.Data(),
		Billing: domain.Billing{
			Name:    o.BillingName,
			Email:   o.BillingEmail,
			Address: o.BillingAddress,
		},
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
