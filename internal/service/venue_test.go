package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
)

type memVenues struct {
	venueTable
}

func (m memVenues) Create(_ context.Context, venue domain.Venue) (domain.Venue, error) {
	venue.ID = "venue-new"
	m.venueTable[venue.ID] = venue
	return venue, nil
}

func (m memVenues) FindAll(_ context.Context, _ domain.VenueFilter) ([]domain.Venue, error) {
	venues := make([]domain.Venue, 0, len(m.venueTable))
	for _, v := range m.venueTable {
		venues = append(venues, v)
	}
	return venues, nil
}

func (m memVenues) FindWithCoordinates(ctx context.Context) ([]domain.Venue, error) {
	return m.FindAll(ctx, domain.VenueFilter{})
}

func (m memVenues) Update(_ context.Context, venue domain.Venue) (domain.Venue, error) {
	m.venueTable[venue.ID] = venue
	return venue, nil
}

func (m memVenues) Delete(_ context.Context, id string) error {
	delete(m.venueTable, id)
	return nil
}

func coords(lat, lon float64) (*float64, *float64) {
	return &lat, &lon
}

func TestVenueService_FindNearby(t *testing.T) {
	paris := domain.Venue{ID: "paris", Name: "Paris"}
	paris.Latitude, paris.Longitude = coords(48.8566, 2.3522)
	versailles := domain.Venue{ID: "versailles", Name: "Versailles"}
	versailles.Latitude, versailles.Longitude = coords(48.8049, 2.1204)
	lyon := domain.Venue{ID: "lyon", Name: "Lyon"}
	lyon.Latitude, lyon.Longitude = coords(45.7640, 4.8357)

	svc := NewVenueService(memVenues{venueTable{
		"paris":      paris,
		"versailles": versailles,
		"lyon":       lyon,
		"nowhere":    {ID: "nowhere"},
	}})

	nearby, err := svc.FindNearby(context.Background(), 48.85, 2.35, 0)
	require.NoError(t, err)
	require.Len(t, nearby, 2)
	assert.Equal(t, "paris", nearby[0].ID)
	assert.Equal(t, "versailles", nearby[1].ID)
	assert.InDelta(t, 17.8, nearby[1].DistanceKm, 1.5)

	nearby, err = svc.FindNearby(context.Background(), 48.85, 2.35, 500)
	require.NoError(t, err)
	require.Len(t, nearby, 3)
	assert.Equal(t, "lyon", nearby[2].ID)

	nearby, err = svc.FindNearby(context.Background(), 0, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, nearby)
}

func TestVenueService_Authorization(t *testing.T) {
	svc := NewVenueService(memVenues{venueTable{"v1": {ID: "v1", Name: "Hall"}}})

	_, err := svc.Create(context.Background(), alice, domain.Venue{Name: "Garage"})
	assert.ErrorIs(t, err, Forbidden("You do not have permission to create this venue"))

	created, err := svc.Create(context.Background(), organizer, domain.Venue{Name: "Garage"})
	require.NoError(t, err)
	assert.Equal(t, "Garage", created.Name)

	updated, err := svc.Update(context.Background(), organizer, "v1", func(v *domain.Venue) { v.Name = "Big Hall" })
	require.NoError(t, err)
	assert.Equal(t, "Big Hall", updated.Name)

	_, err = svc.Update(context.Background(), organizer, "missing", func(*domain.Venue) {})
	assert.ErrorIs(t, err, NotFound("Venue with ID missing not found"))

	assert.Error(t, svc.Delete(context.Background(), bob, "v1"))
	require.NoError(t, svc.Delete(context.Background(), admin, "v1"))
}
