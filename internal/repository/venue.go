package repository

import (
	"context"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var ErrVenueNotFound = dao.ErrVenueNotFound

type VenueDAO interface {
	Insert(ctx context.Context, venue dao.Venue) (dao.Venue, error)
	FindByID(ctx context.Context, id string) (dao.Venue, error)
	FindAll(ctx context.Context, filter dao.VenueFilter) ([]dao.Venue, error)
	FindWithCoordinates(ctx context.Context) ([]dao.Venue, error)
	Update(ctx context.Context, venue dao.Venue) (dao.Venue, error)
	Delete(ctx context.Context, id string) error
}

type VenueRepository struct {
	dao VenueDAO
}

func NewVenueRepository(dao VenueDAO) *VenueRepository {
	return &VenueRepository{
		dao: dao,
	}
}

func (r *VenueRepository) Create(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(venue))
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *VenueRepository) FindByID(ctx context.Context, id string) (domain.Venue, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *VenueRepository) FindAll(ctx context.Context, filter domain.VenueFilter) ([]domain.Venue, error) {
	found, err := r.dao.FindAll(ctx, dao.VenueFilter{
		City:        filter.City,
		Country:     filter.Country,
		MinCapacity: filter.MinCapacity,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *VenueRepository) FindWithCoordinates(ctx context.Context) ([]domain.Venue, error) {
	found, err := r.dao.FindWithCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindWithCoordinates -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *VenueRepository) Update(ctx context.Context, venue domain.Venue) (domain.Venue, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(venue))
	if err != nil {
		return domain.Venue{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *VenueRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *VenueRepository) daosToDomain(venues []dao.Venue) []domain.Venue {
	result := make([]domain.Venue, len(venues))
	for i := range venues {
		result[i] = r.daoToDomain(venues[i])
	}

	return result
}

func (r *VenueRepository) domainToDao(v domain.Venue) dao.Venue {
	return dao.Venue{
		Model:         dao.Model{ID: v.ID, CreatedAt: v.CreatedAt},
		Name:          v.Name,
		AddressLine1:  v.Line1,
		AddressLine2:  v.Line2,
		City:          v.City,
		State:         v.State,
		PostalCode:    v.PostalCode,
		Country:       v.Country,
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		Capacity:      v.Capacity,
		Accessibility: v.Accessibility,
		ContactName:   v.Contact.Name,
		ContactPhone:  v.Phone,
		ContactEmail:  v.Email,
	}
}

func (r *VenueRepository) daoToDomain(v dao.Venue) domain.Venue {
	return domain.Venue{
		ID:   v.ID,
		Name: v.Name,
		Address: domain.Address{
			Line1:      v.AddressLine1,
			Line2:      v.AddressLine2,
			City:       v.City,
			State:      v.State,
			PostalCode: v.PostalCode,
			Country:    v.Country,
		},
		Latitude:      v.Latitude,
		Longitude:     v.Longitude,
		Capacity:      v.Capacity,
		Accessibility: v.Accessibility,
		Contact: domain.Contact{
			Name:  v.ContactName,
			Phone: v.ContactPhone,
			Email: v.ContactEmail,
		},
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
