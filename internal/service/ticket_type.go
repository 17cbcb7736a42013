package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var (
	errTicketTypeHasSales = BadRequest("Cannot delete ticket type with sold tickets")
	errNotEnoughTickets   = BadRequest("Not enough tickets available")
)

type TicketTypeRepository interface {
	Create(ctx context.Context, tt domain.TicketType) (domain.TicketType, error)
	FindByID(ctx context.Context, id string) (domain.TicketType, error)
	FindByIDs(ctx context.Context, ids []string) ([]domain.TicketType, error)
	FindAll(ctx context.Context, eventID string) ([]domain.TicketType, error)
	Update(ctx context.Context, tt domain.TicketType) (domain.TicketType, error)
	Delete(ctx context.Context, id string) error
}

type EventFinder interface {
	FindByID(ctx context.Context, id string) (domain.Event, error)
}

type TicketTypeService struct {
	repo   TicketTypeRepository
	events EventFinder
	orgs   OrganizerDirectory
	now    clock
}

func NewTicketTypeService(repo TicketTypeRepository, events EventFinder, orgs OrganizerDirectory) *TicketTypeService {
	return &TicketTypeService{
		repo:   repo,
		events: events,
		orgs:   orgs,
		now:    time.Now,
	}
}

func ticketTypeNotFound(id string) error {
	return notFoundf("Ticket type with ID %s not found", id)
}

func (s *TicketTypeService) Create(ctx context.Context, actor domain.Actor, tt domain.TicketType) (domain.TicketType, error) {
	if err := s.authorizeEvent(ctx, actor, tt.EventID, policy.ActionCreate); err != nil {
		return domain.TicketType{}, err
	}

	if tt.Currency == "" {
		tt.Currency = "USD"
	}
	if tt.Kind == "" {
		tt.Kind = domain.TicketKindGeneral
	}
	tt.QuantitySold = 0

	created, err := s.repo.Create(ctx, tt)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *TicketTypeService) Get(ctx context.Context, id string) (domain.TicketType, error) {
	tt, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, translate("s.repo.FindByID", err, on(repository.ErrTicketTypeNotFound, ticketTypeNotFound(id)))
	}

	return tt, nil
}

// List returns ticket types ordered by price, optionally of one event.
func (s *TicketTypeService) List(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	types, err := s.repo.FindAll(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return types, nil
}

func (s *TicketTypeService) AvailableQuantity(ctx context.Context, id string) (int, error) {
	tt, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}

	return tt.Available(), nil
}

func (s *TicketTypeService) IsAvailable(ctx context.Context, id string) (bool, error) {
	tt, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	return tt.OnSale(s.now()), nil
}

func (s *TicketTypeService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.TicketType)) (domain.TicketType, error) {
	tt, err := s.Get(ctx, id)
	if err != nil {
		return domain.TicketType{}, err
	}
	if err = s.authorizeEvent(ctx, actor, tt.EventID, policy.ActionUpdate); err != nil {
		return domain.TicketType{}, err
	}

	apply(&tt)
	tt.ID = id

	updated, err := s.repo.Update(ctx, tt)
	if err != nil {
		return domain.TicketType{}, translate("s.repo.Update", err,
			on(repository.ErrTicketTypeNotFound, ticketTypeNotFound(id)),
			on(repository.ErrTicketTypeSoldOut, errNotEnoughTickets))
	}

	return updated, nil
}

func (s *TicketTypeService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	tt, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = s.authorizeEvent(ctx, actor, tt.EventID, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err,
			on(repository.ErrTicketTypeHasSales, errTicketTypeHasSales),
			on(repository.ErrTicketTypeNotFound, ticketTypeNotFound(id)))
	}

	return nil
}

// authorizeEvent checks action against the organizer of the ticket type's
// event.
func (s *TicketTypeService) authorizeEvent(ctx context.Context, actor domain.Actor, eventID string, action policy.Action) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return translate("s.events.FindByID", err, on(repository.ErrEventNotFound, eventNotFound(eventID)))
	}

	return authorizeOrganizer(ctx, s.orgs, actor, policy.KindTicketType, event.OrganizerID, action)
}
