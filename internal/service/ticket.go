package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/metrics"
	"github.com/ormeet/ormeet-api/internal/pkg/random"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var (
	errTicketNotUsable       = BadRequest("Only active tickets can be used")
	errCancelUsedTicket      = BadRequest("Cannot cancel a used ticket")
	errTicketNotTransferable = BadRequest("Only active tickets can be transferred")
	errDeleteUsedTicket      = BadRequest("Cannot delete a used ticket")
)

type TicketRepository interface {
	Create(ctx context.Context, ticket domain.Ticket) (domain.Ticket, error)
	FindByID(ctx context.Context, id string) (domain.Ticket, error)
	FindByCode(ctx context.Context, code string) (domain.Ticket, error)
	FindAll(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error)
	UpdateSeat(ctx context.Context, id string, seat domain.Seat) (domain.Ticket, error)
	Transition(ctx context.Context, id string, from, to domain.TicketStatus) (domain.Ticket, error)
	Transfer(ctx context.Context, id, newOwnerID string) (domain.Ticket, error)
	Delete(ctx context.Context, id string) error
}

type TicketService struct {
	repo        TicketRepository
	ticketTypes TicketTypeRepository
	events      EventFinder
	orgs        OrganizerDirectory
	users       UserRepository
	now         clock
}

func NewTicketService(repo TicketRepository, ticketTypes TicketTypeRepository, events EventFinder, orgs OrganizerDirectory, users UserRepository) *TicketService {
	return &TicketService{
		repo:        repo,
		ticketTypes: ticketTypes,
		events:      events,
		orgs:        orgs,
		users:       users,
		now:         time.Now,
	}
}

type CreateTicketInput struct {
	OrderID      string
	TicketTypeID string
	OwnerID      string
	Seat         domain.Seat
}

func ticketNotFound(id string) error {
	return notFoundf("Ticket with ID %s not found", id)
}

// Create issues a ticket outside of the payment flow. quantity_sold of the
// ticket type is left untouched.
func (s *TicketService) Create(ctx context.Context, actor domain.Actor, in CreateTicketInput) (domain.Ticket, error) {
	tt, err := s.ticketTypes.FindByID(ctx, in.TicketTypeID)
	if err != nil {
		return domain.Ticket{}, translate("s.ticketTypes.FindByID", err, on(repository.ErrTicketTypeNotFound, ticketTypeNotFound(in.TicketTypeID)))
	}
	event, err := s.events.FindByID(ctx, tt.EventID)
	if err != nil {
		return domain.Ticket{}, translate("s.events.FindByID", err, on(repository.ErrEventNotFound, eventNotFound(tt.EventID)))
	}
	if err = authorizeOrganizer(ctx, s.orgs, actor, policy.KindTicketType, event.OrganizerID, policy.ActionUpdate); err != nil {
		return domain.Ticket{}, err
	}

	ticket := domain.Ticket{
		TicketTypeID: tt.ID,
		EventID:      tt.EventID,
		OrderID:      in.OrderID,
		OwnerID:      in.OwnerID,
		Status:       domain.TicketActive,
		IssuedAt:     s.now(),
		Seat:         in.Seat,
	}

	for attempt := 1; ; attempt++ {
		if ticket.Code, err = random.TicketCode(); err != nil {
			return domain.Ticket{}, fmt.Errorf("random.TicketCode -> %w", err)
		}

		created, err := s.repo.Create(ctx, ticket)
		if err == nil {
			metrics.TicketsIssued.Inc()
			return created, nil
		}
		if !errors.Is(err, repository.ErrTicketCodeExists) || attempt >= maxCodeAttempts {
			return domain.Ticket{}, fmt.Errorf("s.repo.Create -> %w", err)
		}
		zap.L().Warn("ticket code collision, regenerating", zap.Int("attempt", attempt))
	}
}

func (s *TicketService) Get(ctx context.Context, id string) (domain.Ticket, error) {
	ticket, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.FindByID", err, on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return ticket, nil
}

// FindByCode resolves a scanned QR code.
func (s *TicketService) FindByCode(ctx context.Context, code string) (domain.Ticket, error) {
	ticket, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.FindByCode", err,
			on(repository.ErrTicketNotFound, notFoundf("Ticket with code %s not found", code)))
	}

	return ticket, nil
}

func (s *TicketService) List(ctx context.Context, filter domain.TicketFilter) ([]domain.Ticket, error) {
	tickets, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return tickets, nil
}

func (s *TicketService) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	return s.List(ctx, domain.TicketFilter{OwnerID: userID})
}

func (s *TicketService) UpdateSeat(ctx context.Context, actor domain.Actor, id string, seat domain.Seat) (domain.Ticket, error) {
	if _, err := s.authorized(ctx, actor, id, policy.ActionUpdate); err != nil {
		return domain.Ticket{}, err
	}

	updated, err := s.repo.UpdateSeat(ctx, id, seat)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.UpdateSeat", err, on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return updated, nil
}

// Cancel cancels an active ticket. Cancelling a cancelled ticket is a no-op.
func (s *TicketService) Cancel(ctx context.Context, actor domain.Actor, id string) (domain.Ticket, error) {
	ticket, err := s.authorized(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket.Status == domain.TicketCancelled {
		return ticket, nil
	}
	if !ticket.Status.CanTransitionTo(domain.TicketCancelled) {
		return domain.Ticket{}, errCancelUsedTicket
	}

	cancelled, err := s.repo.Transition(ctx, id, domain.TicketActive, domain.TicketCancelled)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.Transition", err,
			on(repository.ErrTicketWrongStatus, errCancelUsedTicket),
			on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return cancelled, nil
}

func (s *TicketService) MarkAsUsed(ctx context.Context, actor domain.Actor, id string) (domain.Ticket, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindTicket}, policy.ActionUse); err != nil {
		return domain.Ticket{}, err
	}

	used, err := s.repo.Transition(ctx, id, domain.TicketActive, domain.TicketUsed)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.Transition", err,
			on(repository.ErrTicketWrongStatus, errTicketNotUsable),
			on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return used, nil
}

func (s *TicketService) Transfer(ctx context.Context, actor domain.Actor, id, newOwnerID string) (domain.Ticket, error) {
	ticket, err := s.authorized(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return domain.Ticket{}, err
	}
	if ticket.Status != domain.TicketActive {
		return domain.Ticket{}, errTicketNotTransferable
	}
	if _, err = s.users.FindByID(ctx, newOwnerID); err != nil {
		return domain.Ticket{}, translate("s.users.FindByID", err, on(repository.ErrUserNotFound, errUserNotFound))
	}

	moved, err := s.repo.Transfer(ctx, id, newOwnerID)
	if err != nil {
		return domain.Ticket{}, translate("s.repo.Transfer", err,
			on(repository.ErrTicketWrongStatus, errTicketNotTransferable),
			on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return moved, nil
}

func (s *TicketService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	ticket, err := s.authorized(ctx, actor, id, policy.ActionDelete)
	if err != nil {
		return err
	}
	if ticket.Status == domain.TicketUsed {
		return errDeleteUsedTicket
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err,
			on(repository.ErrTicketWrongStatus, errDeleteUsedTicket),
			on(repository.ErrTicketNotFound, ticketNotFound(id)))
	}

	return nil
}

func (s *TicketService) authorized(ctx context.Context, actor domain.Actor, id string, action policy.Action) (domain.Ticket, error) {
	ticket, err := s.Get(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindTicket, OwnerID: ticket.OwnerID}, action); err != nil {
		return domain.Ticket{}, err
	}

	return ticket, nil
}
