package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var (
	errReviewExists = BadRequest("You have already reviewed this event. Please update your existing review.")
	errReviewRating = BadRequest("Rating must be between 1 and 5")
)

type ReviewRepository interface {
	Create(ctx context.Context, review domain.Review) (domain.Review, error)
	FindByID(ctx context.Context, id string) (domain.Review, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) (domain.Review, error)
	FindAll(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error)
	AverageRating(ctx context.Context, eventID string) (float64, error)
	Update(ctx context.Context, review domain.Review) (domain.Review, error)
	SetApproved(ctx context.Context, id string, approved bool) (domain.Review, error)
	Delete(ctx context.Context, id string) error
}

type ReviewService struct {
	repo   ReviewRepository
	events EventFinder
}

func NewReviewService(repo ReviewRepository, events EventFinder) *ReviewService {
	return &ReviewService{
		repo:   repo,
		events: events,
	}
}

func reviewNotFound(id string) error {
	return notFoundf("Review with ID %s not found", id)
}

func (s *ReviewService) Create(ctx context.Context, actor domain.Actor, review domain.Review) (domain.Review, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindReview}, policy.ActionCreate); err != nil {
		return domain.Review{}, err
	}
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Review{}, errReviewRating
	}
	review.UserID = actor.UserID
	review.Approved = false

	if _, err := s.events.FindByID(ctx, review.EventID); err != nil {
		return domain.Review{}, translate("s.events.FindByID", err, on(repository.ErrEventNotFound, eventNotFound(review.EventID)))
	}

	_, err := s.repo.FindByEventAndUser(ctx, review.EventID, review.UserID)
	if err == nil {
		return domain.Review{}, errReviewExists
	}
	if !errors.Is(err, repository.ErrReviewNotFound) {
		return domain.Review{}, fmt.Errorf("s.repo.FindByEventAndUser -> %w", err)
	}

	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return domain.Review{}, translate("s.repo.Create", err, on(repository.ErrReviewExists, errReviewExists))
	}

	return created, nil
}

func (s *ReviewService) Get(ctx context.Context, id string) (domain.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, translate("s.repo.FindByID", err, on(repository.ErrReviewNotFound, reviewNotFound(id)))
	}

	return review, nil
}

func (s *ReviewService) List(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	reviews, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return reviews, nil
}

// ListByEvent returns the approved reviews of an event.
func (s *ReviewService) ListByEvent(ctx context.Context, eventID string) ([]domain.Review, error) {
	approved := true
	return s.List(ctx, domain.ReviewFilter{EventID: eventID, Approved: &approved})
}

func (s *ReviewService) AverageRating(ctx context.Context, eventID string) (float64, error) {
	avg, err := s.repo.AverageRating(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.AverageRating -> %w", err)
	}

	return avg, nil
}

func (s *ReviewService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Review)) (domain.Review, error) {
	review, err := s.Get(ctx, id)
	if err != nil {
		return domain.Review{}, err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindReview, OwnerID: review.UserID}, policy.ActionUpdate); err != nil {
		return domain.Review{}, err
	}

	apply(&review)
	if review.Rating < 1 || review.Rating > 5 {
		return domain.Review{}, errReviewRating
	}

	updated, err := s.repo.Update(ctx, review)
	if err != nil {
		return domain.Review{}, translate("s.repo.Update", err, on(repository.ErrReviewNotFound, reviewNotFound(id)))
	}

	return updated, nil
}

func (s *ReviewService) Approve(ctx context.Context, actor domain.Actor, id string) (domain.Review, error) {
	return s.setApproved(ctx, actor, id, true)
}

func (s *ReviewService) Reject(ctx context.Context, actor domain.Actor, id string) (domain.Review, error) {
	return s.setApproved(ctx, actor, id, false)
}

func (s *ReviewService) setApproved(ctx context.Context, actor domain.Actor, id string, approved bool) (domain.Review, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindReview}, policy.ActionManage); err != nil {
		return domain.Review{}, err
	}

	review, err := s.repo.SetApproved(ctx, id, approved)
	if err != nil {
		return domain.Review{}, translate("s.repo.SetApproved", err, on(repository.ErrReviewNotFound, reviewNotFound(id)))
	}

	return review, nil
}

func (s *ReviewService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	review, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err = authorize(actor, policy.Resource{Kind: policy.KindReview, OwnerID: review.UserID}, policy.ActionDelete); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err, on(repository.ErrReviewNotFound, reviewNotFound(id)))
	}

	return nil
}
