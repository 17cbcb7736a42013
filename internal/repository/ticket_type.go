package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrTicketTypeNotFound = dao.ErrTicketTypeNotFound
	ErrTicketTypeSoldOut  = dao.ErrTicketTypeSoldOut
	ErrTicketTypeHasSales = dao.ErrTicketTypeHasSales
)

type TicketTypeDAO interface {
	Insert(ctx context.Context, tt dao.TicketType) (dao.TicketType, error)
	FindByID(ctx context.Context, id string) (dao.TicketType, error)
	FindByIDs(ctx context.Context, ids []string) ([]dao.TicketType, error)
	FindAll(ctx context.Context, eventID string) ([]dao.TicketType, error)
	Update(ctx context.Context, tt dao.TicketType) (dao.TicketType, error)
	Delete(ctx context.Context, id string) error
}

type TicketTypeRepository struct {
	dao TicketTypeDAO
}

func NewTicketTypeRepository(dao TicketTypeDAO) *TicketTypeRepository {
	return &TicketTypeRepository{
		dao: dao,
	}
}

func (r *TicketTypeRepository) Create(ctx context.Context, tt domain.TicketType) (domain.TicketType, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(tt))
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *TicketTypeRepository) FindByID(ctx context.Context, id string) (domain.TicketType, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *TicketTypeRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.TicketType, error) {
	found, err := r.dao.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByIDs -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TicketTypeRepository) FindAll(ctx context.Context, eventID string) ([]domain.TicketType, error) {
	found, err := r.dao.FindAll(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *TicketTypeRepository) Update(ctx context.Context, tt domain.TicketType) (domain.TicketType, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(tt))
	if err != nil {
		return domain.TicketType{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *TicketTypeRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *TicketTypeRepository) daosToDomain(tts []dao.TicketType) []domain.TicketType {
	result := make([]domain.TicketType, len(tts))
	for i := range tts {
		result[i] = r.daoToDomain(tts[i])
	}

	return result
}

func (r *TicketTypeRepository) domainToDao(t domain.TicketType) dao.TicketType {
	return dao.TicketType{
		Model:         dao.Model{ID: t.ID, CreatedAt: t.CreatedAt},
		EventID:       t.EventID,
		Title:         t.Title,
		Description:   t.Description,
		Price:         t.Price,
		Currency:      t.Currency,
		QuantityTotal: t.QuantityTotal,
		QuantitySold:  t.QuantitySold,
		SalesStart:    t.SalesStart,
		SalesEnd:      t.SalesEnd,
		IsFree:        t.IsFree,
		Kind:          string(t.Kind),
		Metadata:      datatypes.JSONMap(t.Metadata),
	}
}

func (r *TicketTypeRepository) daoToDomain(t dao.TicketType) domain.TicketType {
	return domain.TicketType{
		ID:            t.ID,
		EventID:       t.EventID,
		Title:         t.Title,
		Description:   t.Description,
		Price:         t.Price,
		Currency:      t.Currency,
		QuantityTotal: t.QuantityTotal,
		QuantitySold:  t.QuantitySold,
		SalesStart:    t.SalesStart,
		SalesEnd:      t.SalesEnd,
		IsFree:        t.IsFree,
		Kind:          domain.TicketKind(t.Kind),
		Metadata:      t.Metadata,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}
