package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/metrics"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var errPromotionCodeExists = BadRequest("Promotion code already exists")

type PromotionRepository interface {
	Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error)
	FindByID(ctx context.Context, id string) (domain.Promotion, error)
	FindByCode(ctx context.Context, code string) (domain.Promotion, error)
	FindAll(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error)
	Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error)
	Deactivate(ctx context.Context, id string) (domain.Promotion, error)
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) (domain.Promotion, error)
}

type PromotionService struct {
	repo   PromotionRepository
	events EventFinder
	orgs   OrganizerDirectory
	now    clock
}

func NewPromotionService(repo PromotionRepository, events EventFinder, orgs OrganizerDirectory) *PromotionService {
	return &PromotionService{
		repo:   repo,
		events: events,
		orgs:   orgs,
		now:    time.Now,
	}
}

func promotionNotFound(id string) error {
	return notFoundf("Promotion with ID %s not found", id)
}

func (s *PromotionService) Create(ctx context.Context, actor domain.Actor, p domain.Promotion) (domain.Promotion, error) {
	if err := s.authorizeEvent(ctx, actor, p.EventID, policy.ActionCreate); err != nil {
		return domain.Promotion{}, err
	}

	p.Code = strings.TrimSpace(p.Code)
	if _, err := s.repo.FindByCode(ctx, p.Code); err == nil {
		return domain.Promotion{}, errPromotionCodeExists
	} else if !errors.Is(err, repository.ErrPromotionNotFound) {
		return domain.Promotion{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}
	p.UsedCount = 0

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.Create", err, on(repository.ErrPromotionCodeExists, errPromotionCodeExists))
	}

	return created, nil
}

func (s *PromotionService) Get(ctx context.Context, id string) (domain.Promotion, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.FindByID", err, on(repository.ErrPromotionNotFound, promotionNotFound(id)))
	}

	return p, nil
}

func (s *PromotionService) FindByCode(ctx context.Context, code string) (domain.Promotion, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.FindByCode", err,
			on(repository.ErrPromotionNotFound, notFoundf("Promotion with code %s not found", code)))
	}

	return p, nil
}

func (s *PromotionService) List(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error) {
	promotions, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return promotions, nil
}

// Validate never fails for an unknown or unusable code; the outcome says
// why the code cannot be used.
func (s *PromotionService) Validate(ctx context.Context, code string) (domain.PromotionValidation, error) {
	p, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrPromotionNotFound) {
			return domain.PromotionValidation{Message: domain.PromotionMsgInvalid}, nil
		}
		return domain.PromotionValidation{}, fmt.Errorf("s.repo.FindByCode -> %w", err)
	}

	return p.Validate(s.now()), nil
}

// IncrementUsage takes one use of the promotion, failing once the cap is
// reached.
func (s *PromotionService) IncrementUsage(ctx context.Context, id string) (domain.Promotion, error) {
	p, err := s.repo.IncrementUsage(ctx, id)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.IncrementUsage", err,
			on(repository.ErrPromotionExhausted, errPromotionExhausted),
			on(repository.ErrPromotionNotFound, promotionNotFound(id)))
	}
	metrics.PromotionRedemptions.Inc()

	return p, nil
}

func (s *PromotionService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Promotion)) (domain.Promotion, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Promotion{}, err
	}
	if err = s.authorizeEvent(ctx, actor, p.EventID, policy.ActionUpdate); err != nil {
		return domain.Promotion{}, err
	}

	apply(&p)
	p.ID = id

	updated, err := s.repo.Update(ctx, p)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.Update", err,
			on(repository.ErrPromotionCodeExists, errPromotionCodeExists),
			on(repository.ErrPromotionNotFound, promotionNotFound(id)))
	}

	return updated, nil
}

func (s *PromotionService) Deactivate(ctx context.Context, actor domain.Actor, id string) (domain.Promotion, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return domain.Promotion{}, err
	}
	if err = s.authorizeEvent(ctx, actor, p.EventID, policy.ActionUpdate); err != nil {
		return domain.Promotion{}, err
	}

	deactivated, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return domain.Promotion{}, translate("s.repo.Deactivate", err, on(repository.ErrPromotionNotFound, promotionNotFound(id)))
	}

	return deactivated, nil
}

func (s *PromotionService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = s.authorizeEvent(ctx, actor, p.EventID, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err, on(repository.ErrPromotionNotFound, promotionNotFound(id)))
	}

	return nil
}

// authorizeEvent checks action against the organizer of the promotion's
// event. Promotions without an event are open to every organizer.
func (s *PromotionService) authorizeEvent(ctx context.Context, actor domain.Actor, eventID *string, action policy.Action) error {
	if eventID == nil {
		return authorize(actor, policy.Resource{Kind: policy.KindPromotion}, action)
	}

	event, err := s.events.FindByID(ctx, *eventID)
	if err != nil {
		return translate("s.events.FindByID", err, on(repository.ErrEventNotFound, eventNotFound(*eventID)))
	}

	return authorizeOrganizer(ctx, s.orgs, actor, policy.KindPromotion, event.OrganizerID, action)
}
