package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrPromotionNotFound   = dao.ErrPromotionNotFound
	ErrPromotionCodeExists = dao.ErrPromotionCodeExists
	ErrPromotionExhausted  = dao.ErrPromotionExhausted
)

type PromotionDAO interface {
	Insert(ctx context.Context, p dao.Promotion) (dao.Promotion, error)
	FindByID(ctx context.Context, id string) (dao.Promotion, error)
	FindByCode(ctx context.Context, code string) (dao.Promotion, error)
	FindAll(ctx context.Context, filter dao.PromotionFilter) ([]dao.Promotion, error)
	Update(ctx context.Context, p dao.Promotion) (dao.Promotion, error)
	Deactivate(ctx context.Context, id string) (dao.Promotion, error)
	Delete(ctx context.Context, id string) error
	IncrementUsage(ctx context.Context, id string) (dao.Promotion, error)
}

type PromotionRepository struct {
	dao PromotionDAO
}

func NewPromotionRepository(dao PromotionDAO) *PromotionRepository {
	return &PromotionRepository{
		dao: dao,
	}
}

func (r *PromotionRepository) Create(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(p))
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *PromotionRepository) FindByID(ctx context.Context, id string) (domain.Promotion, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PromotionRepository) FindByCode(ctx context.Context, code string) (domain.Promotion, error) {
	found, err := r.dao.FindByCode(ctx, code)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.FindByCode -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *PromotionRepository) FindAll(ctx context.Context, filter domain.PromotionFilter) ([]domain.Promotion, error) {
	found, err := r.dao.FindAll(ctx, dao.PromotionFilter{
		EventID:  filter.EventID,
		IsActive: filter.IsActive,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	promotions := make([]domain.Promotion, len(found))
	for i := range found {
		promotions[i] = r.daoToDomain(found[i])
	}

	return promotions, nil
}

func (r *PromotionRepository) Update(ctx context.Context, p domain.Promotion) (domain.Promotion, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(p))
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PromotionRepository) Deactivate(ctx context.Context, id string) (domain.Promotion, error) {
	updated, err := r.dao.Deactivate(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.Deactivate -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PromotionRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *PromotionRepository) IncrementUsage(ctx context.Context, id string) (domain.Promotion, error) {
	updated, err := r.dao.IncrementUsage(ctx, id)
	if err != nil {
		return domain.Promotion{}, fmt.Errorf("r.dao.IncrementUsage -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *PromotionRepository) domainToDao(p domain.Promotion) dao.Promotion {
	return dao.Promotion{
		Model:                  dao.Model{ID: p.ID, CreatedAt: p.CreatedAt},
		Code:                   p.Code,
		EventID:                p.EventID,
		Kind:                   string(p.Kind),
		Value:                  p.Value,
		Description:            p.Description,
		ValidFrom:              p.ValidFrom,
		ValidUntil:             p.ValidUntil,
		MaxUses:                p.MaxUses,
		UsedCount:              p.UsedCount,
		IsActive:               p.IsActive,
		AppliesToTicketTypeIDs: datatypes.NewJSONType(p.AppliesToTicketTypeIDs),
	}
}

func (r *PromotionRepository) daoToDomain(p dao.Promotion) domain.Promotion {
	return domain.Promotion{
		ID:                     p.ID,
		Code:                   p.Code,
		EventID:                p.EventID,
		Kind:                   domain.PromotionKind(p.Kind),
		Value:                  p.Value,
		Description:            p.Description,
		ValidFrom:              p.ValidFrom,
		ValidUntil:             p.ValidUntil,
		MaxUses:                p.MaxUses,
		UsedCount:              p.UsedCount,
		IsActive:               p.IsActive,
		AppliesToTicketTypeIDs: p.AppliesToTicketTypeIDs.Data(),
		CreatedAt:              p.CreatedAt,
		UpdatedAt:              p.UpdatedAt,
	}
}
