package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var errEventAlreadyPublished = BadRequest("Event is already published")

type EventRepository interface {
	Create(ctx context.Context, event domain.Event) (domain.Event, error)
	FindByID(ctx context.Context, id string) (domain.Event, error)
	FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error)
	Update(ctx context.Context, event domain.Event) (domain.Event, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string, at time.Time) (domain.Event, error)
	SetStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error)
	IncrementViews(ctx context.Context, id string) (domain.Event, error)
	IncrementFavorites(ctx context.Context, id string) (domain.Event, error)
}

type EventService struct {
	repo EventRepository
	orgs OrganizerDirectory
	now  clock
}

func NewEventService(repo EventRepository, orgs OrganizerDirectory) *EventService {
	return &EventService{
		repo: repo,
		orgs: orgs,
		now:  time.Now,
	}
}

func eventNotFound(id string) error {
	return notFoundf("Event with ID %s not found", id)
}

// Create stores a draft event. An event organized by an organization needs
// an owner or admin of that organization; otherwise the actor organizes it.
func (s *EventService) Create(ctx context.Context, actor domain.Actor, event domain.Event) (domain.Event, error) {
	res := policy.Resource{Kind: policy.KindEvent}
	if event.OrganizerID == "" || event.OrganizerID == actor.UserID {
		event.OrganizerID = actor.UserID
	} else {
		org, err := s.orgs.FindByID(ctx, event.OrganizerID)
		if err != nil {
			return domain.Event{}, translate("s.orgs.FindByID", err,
				on(repository.ErrOrganizationNotFound, organizationNotFound(event.OrganizerID)))
		}
		if res.MemberRole, err = orgMemberRole(ctx, s.orgs, org, actor.UserID); err != nil {
			return domain.Event{}, err
		}
		res.OwnerID = org.OwnerID
	}
	if err := authorize(actor, res, policy.ActionCreate); err != nil {
		return domain.Event{}, err
	}

	if event.Status == "" {
		event.Status = domain.EventDraft
	}

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, translate("s.repo.FindByID", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return event, nil
}

func (s *EventService) List(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	events, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return events, nil
}

func (s *EventService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Event)) (domain.Event, error) {
	event, err := s.authorized(ctx, actor, id, policy.ActionUpdate)
	if err != nil {
		return domain.Event{}, err
	}

	apply(&event)
	event.ID = id

	updated, err := s.repo.Update(ctx, event)
	if err != nil {
		return domain.Event{}, translate("s.repo.Update", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if _, err := s.authorized(ctx, actor, id, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return nil
}

func (s *EventService) Publish(ctx context.Context, actor domain.Actor, id string) (domain.Event, error) {
	if _, err := s.authorized(ctx, actor, id, policy.ActionUpdate); err != nil {
		return domain.Event{}, err
	}

	event, err := s.repo.Publish(ctx, id, s.now())
	if err != nil {
		return domain.Event{}, translate("s.repo.Publish", err,
			on(repository.ErrEventAlreadyPublished, errEventAlreadyPublished),
			on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return event, nil
}

func (s *EventService) Cancel(ctx context.Context, actor domain.Actor, id string) (domain.Event, error) {
	if _, err := s.authorized(ctx, actor, id, policy.ActionUpdate); err != nil {
		return domain.Event{}, err
	}

	event, err := s.repo.SetStatus(ctx, id, domain.EventCancelled)
	if err != nil {
		return domain.Event{}, translate("s.repo.SetStatus", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return event, nil
}

func (s *EventService) IncrementViews(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.IncrementViews(ctx, id)
	if err != nil {
		return domain.Event{}, translate("s.repo.IncrementViews", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return event, nil
}

func (s *EventService) IncrementFavorites(ctx context.Context, id string) (domain.Event, error) {
	event, err := s.repo.IncrementFavorites(ctx, id)
	if err != nil {
		return domain.Event{}, translate("s.repo.IncrementFavorites", err, on(repository.ErrEventNotFound, eventNotFound(id)))
	}

	return event, nil
}

func (s *EventService) authorized(ctx context.Context, actor domain.Actor, id string, action policy.Action) (domain.Event, error) {
	event, err := s.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if err = authorizeOrganizer(ctx, s.orgs, actor, policy.KindEvent, event.OrganizerID, action); err != nil {
		return domain.Event{}, err
	}

	return event, nil
}
