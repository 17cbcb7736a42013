package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/pkg/geo"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

const DefaultNearbyRadiusKm = 50.0

type VenueRepository interface {
	Create(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	FindByID(ctx context.Context, id string) (domain.Venue, error)
	FindAll(ctx context.Context, filter domain.VenueFilter) ([]domain.Venue, error)
	FindWithCoordinates(ctx context.Context) ([]domain.Venue, error)
	Update(ctx context.Context, venue domain.Venue) (domain.Venue, error)
	Delete(ctx context.Context, id string) error
}

type VenueService struct {
	repo VenueRepository
}

func NewVenueService(repo VenueRepository) *VenueService {
	return &VenueService{
		repo: repo,
	}
}

func venueNotFound(id string) error {
	return notFoundf("Venue with ID %s not found", id)
}

func (s *VenueService) Create(ctx context.Context, actor domain.Actor, venue domain.Venue) (domain.Venue, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindVenue}, policy.ActionCreate); err != nil {
		return domain.Venue{}, err
	}

	created, err := s.repo.Create(ctx, venue)
	if err != nil {
		return domain.Venue{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *VenueService) Get(ctx context.Context, id string) (domain.Venue, error) {
	venue, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Venue{}, translate("s.repo.FindByID", err, on(repository.ErrVenueNotFound, venueNotFound(id)))
	}

	return venue, nil
}

func (s *VenueService) List(ctx context.Context, filter domain.VenueFilter) ([]domain.Venue, error) {
	venues, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return venues, nil
}

// FindNearby returns the venues within radiusKm of (lat, lon), closest
// first. Venues without coordinates are skipped.
func (s *VenueService) FindNearby(ctx context.Context, lat, lon, radiusKm float64) ([]domain.NearbyVenue, error) {
	if radiusKm <= 0 {
		radiusKm = DefaultNearbyRadiusKm
	}

	venues, err := s.repo.FindWithCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindWithCoordinates -> %w", err)
	}

	nearby := make([]domain.NearbyVenue, 0)
	for _, v := range venues {
		if v.Latitude == nil || v.Longitude == nil {
			continue
		}
		d := geo.DistanceKm(lat, lon, *v.Latitude, *v.Longitude)
		if d <= radiusKm {
			nearby = append(nearby, domain.NearbyVenue{Venue: v, DistanceKm: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	return nearby, nil
}

func (s *VenueService) Update(ctx context.Context, actor domain.Actor, id string, apply func(*domain.Venue)) (domain.Venue, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindVenue}, policy.ActionUpdate); err != nil {
		return domain.Venue{}, err
	}

	venue, err := s.Get(ctx, id)
	if err != nil {
		return domain.Venue{}, err
	}

	apply(&venue)
	venue.ID = id

	updated, err := s.repo.Update(ctx, venue)
	if err != nil {
		return domain.Venue{}, translate("s.repo.Update", err, on(repository.ErrVenueNotFound, venueNotFound(id)))
	}

	return updated, nil
}

func (s *VenueService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(actor, policy.Resource{Kind: policy.KindVenue}, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err, on(repository.ErrVenueNotFound, venueNotFound(id)))
	}

	return nil
}
