package repository

import (
	"context"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrTicketNotFound    = dao.ErrTicketNotFound
	ErrTicketCodeExists  = dao.ErrTicketCodeExists
	ErrTicketWrongStatus = dao.ErrTicketWrongStatus
)

type TicketDAO interface {
	Insert(ctx context.Context, ticket dao.Ticket) (dao.Ticket, error)
	FindByID(ctx context.Context, id string) (dao.Ticket, error)
	FindByCode(ctx context.Context, code string) (dao.Ticket, error)
	FindAll(ctx context.Context, filter dao.TicketFilter) ([]dao.Ticket, error)
	UpdateSeat(ctx context.Context, id string, section, row, number *string) (dao.Ticket, error)
	Transition(ctx context.Context, id, from, to string) (dao.Ticket, error)
	Transfer(ctx context.Context, id, newOwnerID string) (dao.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type TicketRepository struct {
	dao TicketDAO
}

func NewTicketRepository(dao TicketDAO) *TicketRepository {
	return &TicketRepository{
		dao: dao,
	}
}

func (r *TicketRepository) Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error) {
	created, err := r.dao.Insert(ctx, ticketToDao(ticket))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return ticketToDomain(created), nil
}

func (r *TicketRepository) FindByID(ctx context.Context, id string) (domain.Ticket, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return ticketToDomain(found), nil
}

func (r *TicketRepository) FindByCode(ctx context.Context, code string) (domain.Ticket, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return ticketToDomain(found), nil
}

func (r *TicketRepository) FindAll(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	found, err := r.dao.FindAll(ctx, dao.TicketFilter{
		OwnerID: filter.OwnerID,
		OrderID: filter.OrderID,
		EventID: filter.EventID,
		Status:  string(filter.Status),
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	tickets := make([]domain.Ticket, len(found))
	for i := range found {
		tickets[i] = ticketToDomain(found[i])
	}

	return tickets, nil
}

func (r *TicketRepository) UpdateSeat(ctx context.Context, id string, seat domain.Seat) (domain.Ticket, error) {
	updated, err := r.dao.UpdateSeat(ctx, id, seat.Section, seat.Row, seat.Number)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.UpdateSeat -> %w", err)
	}

	return ticketToDomain(updated), nil
}

func (r *TicketRepository) Transition(ctx context.Context, id string, from, to domain.TicketStatus) (domain.Ticket, error) {
	updated, err := r.dao.Transition(ctx, id, string(from), string(to))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Transition -> %w", err)
	}

	return ticketToDomain(updated), nil
}

func (r *TicketRepository) Transfer(ctx context.Context, id, newOwnerID string) (domain.Ticket, error) {
	updated, err := r.dao.Transfer(ctx, id, newOwnerID)
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("r.dao.Transfer -> %w", err)
	}

	return ticketToDomain(updated), nil
}

func (r *TicketRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

// ticketToDao is shared with the order repository, which issues tickets on
// capture.
func ticketToDao(t domain.Ticket) dao.Ticket {
	return dao.Ticket{
		Model:        dao.Model{ID: t.ID, CreatedAt: t.CreatedAt},
		TicketTypeID: t.TicketTypeID,
		EventID:      t.EventID,
		OrderID:      t.OrderID,
		OwnerID:      t.OwnerID,
		Code:         t.Code,
		SeatSection:  t.Section,
		SeatRow:      t.Row,
		SeatNumber:   t.Number,
		Status:       string(t.Status),
		IssuedAt:     t.IssuedAt,
	}
}

func ticketToDomain(t dao.Ticket) domain.Ticket {
	return domain.Ticket{
		ID:           t.ID,
		TicketTypeID: t.TicketTypeID,
		EventID:      t.EventID,
		OrderID:      t.OrderID,
		OwnerID:      t.OwnerID,
		Code:         t.Code,
		Status:       domain.TicketStatus(t.Status),
		IssuedAt:     t.IssuedAt,
		Seat: domain.Seat{
			Section: t.SeatSection,
			Row:     t.SeatRow,
			Number:  t.SeatNumber,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
