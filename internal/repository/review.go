package repository

import (
	"context"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrReviewNotFound = dao.ErrReviewNotFound
	ErrReviewExists   = dao.ErrReviewExists
)

type ReviewDAO interface {
	Insert(ctx context.Context, r dao.Review) (dao.Review, error)
	FindByID(ctx context.Context, id string) (dao.Review, error)
	FindByEventAndUser(ctx context.Context, eventID, userID string) (dao.Review, error)
	FindAll(ctx context.Context, filter dao.ReviewFilter) ([]dao.Review, error)
	AverageRating(ctx context.Context, eventID string) (float64, error)
	Update(ctx context.Context, r dao.Review) (dao.Review, error)
	SetApproved(ctx context.Context, id string, approved bool) (dao.Review, error)
	Delete(ctx context.Context, id string) error
}

type ReviewRepository struct {
	dao ReviewDAO
}

func NewReviewRepository(dao ReviewDAO) *ReviewRepository {
	return &ReviewRepository{
		dao: dao,
	}
}

func (r *ReviewRepository) Create(ctx context.Context, review domain.Review) (domain.Review, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(review))
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (domain.Review, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReviewRepository) FindByEventAndUser(ctx context.Context, eventID, userID string) (domain.Review, error) {
	found, err := r.dao.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.FindByEventAndUser -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *ReviewRepository) FindAll(ctx context.Context, filter domain.ReviewFilter) ([]domain.Review, error) {
	found, err := r.dao.FindAll(ctx, dao.ReviewFilter{
		EventID:  filter.EventID,
		UserID:   filter.UserID,
		Approved: filter.Approved,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	reviews := make([]domain.Review, len(found))
	for i := range found {
		reviews[i] = r.daoToDomain(found[i])
	}

	return reviews, nil
}

func (r *ReviewRepository) AverageRating(ctx context.Context, eventID string) (float64, error) {
	avg, err := r.dao.AverageRating(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.AverageRating -> %w", err)
	}

	return avg, nil
}

func (r *ReviewRepository) Update(ctx context.Context, review domain.Review) (domain.Review, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(review))
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReviewRepository) SetApproved(ctx context.Context, id string, approved bool) (domain.Review, error) {
	updated, err := r.dao.SetApproved(ctx, id, approved)
	if err != nil {
		return domain.Review{}, fmt.Errorf("r.dao.SetApproved -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *ReviewRepository) domainToDao(rv domain.Review) dao.Review {
	return dao.Review{
		Model:    dao.Model{ID: rv.ID, CreatedAt: rv.CreatedAt},
		EventID:  rv.EventID,
		UserID:   rv.UserID,
		Rating:   rv.Rating,
		Title:    rv.Title,
		Comment:  rv.Comment,
		Approved: rv.Approved,
	}
}

func (r *ReviewRepository) daoToDomain(rv dao.Review) domain.Review {
	return domain.Review{
		ID:        rv.ID,
		EventID:   rv.EventID,
		UserID:    rv.UserID,
		Rating:    rv.Rating,
		Title:     rv.Title,
		Comment:   rv.Comment,
		Approved:  rv.Approved,
		CreatedAt: rv.CreatedAt,
		UpdatedAt: rv.UpdatedAt,
	}
}
