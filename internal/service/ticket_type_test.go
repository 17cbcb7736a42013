package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository"
)

type salesGuard struct {
	*memTicketTypes
}

func (g salesGuard) Delete(ctx context.Context, id string) error {
	if tt, ok := g.types[id]; ok && tt.QuantitySold > 0 {
		return repository.ErrTicketTypeHasSales
	}
	return g.memTicketTypes.Delete(ctx, id)
}

func newTicketTypeService() *TicketTypeService {
	ended := testNow.Add(-time.Hour)
	repo := salesGuard{&memTicketTypes{types: map[string]domain.TicketType{
		"vip":    {ID: "vip", EventID: "event-1", Price: decimal.NewFromInt(120), QuantityTotal: 10, QuantitySold: 4},
		"closed": {ID: "closed", EventID: "event-1", QuantityTotal: 10, SalesEnd: &ended},
		"fresh":  {ID: "fresh", EventID: "event-1", QuantityTotal: 5},
	}}}
	events := eventTable{
		"event-1":    {ID: "event-1", OrganizerID: "org-1"},
		"team-event": {ID: "team-event", OrganizerID: "team-1"},
	}
	svc := NewTicketTypeService(repo, events, teams())
	svc.now = fixedClock
	return svc
}

func TestTicketTypeService_Create(t *testing.T) {
	svc := newTicketTypeService()

	_, err := svc.Create(context.Background(), domain.Actor{UserID: "org-2", Role: domain.RoleOrganizer}, domain.TicketType{EventID: "event-1"})
	assert.ErrorIs(t, err, Forbidden("You do not have permission to create this ticket type"))

	_, err = svc.Create(context.Background(), organizer, domain.TicketType{EventID: "missing"})
	assert.ErrorIs(t, err, NotFound("Event with ID missing not found"))

	tt, err := svc.Create(context.Background(), organizer, domain.TicketType{EventID: "event-1", Title: "Early", QuantitySold: 7})
	require.NoError(t, err)
	assert.Equal(t, "USD", tt.Currency)
	assert.Equal(t, domain.TicketKindGeneral, tt.Kind)
	assert.Zero(t, tt.QuantitySold)
}

func TestTicketTypeService_OrganizationEvent(t *testing.T) {
	svc := newTicketTypeService()

	tt, err := svc.Create(context.Background(), teamAdmin, domain.TicketType{EventID: "team-event", Title: "Member"})
	require.NoError(t, err)
	assert.Equal(t, "team-event", tt.EventID)

	_, err = svc.Create(context.Background(), organizer, domain.TicketType{EventID: "team-event"})
	assert.ErrorIs(t, err, Forbidden("You do not have permission to create this ticket type"))

	_, err = svc.Create(context.Background(), teamMember, domain.TicketType{EventID: "team-event"})
	assert.ErrorIs(t, err, Forbidden("You do not have permission to create this ticket type"))
}

func TestTicketTypeService_Availability(t *testing.T) {
	svc := newTicketTypeService()

	n, err := svc.AvailableQuantity(context.Background(), "vip")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	onSale, err := svc.IsAvailable(context.Background(), "vip")
	require.NoError(t, err)
	assert.True(t, onSale)

	onSale, err = svc.IsAvailable(context.Background(), "closed")
	require.NoError(t, err)
	assert.False(t, onSale)

	_, err = svc.AvailableQuantity(context.Background(), "missing")
	assert.ErrorIs(t, err, NotFound("Ticket type with ID missing not found"))
}

func TestTicketTypeService_Delete(t *testing.T) {
	svc := newTicketTypeService()

	assert.ErrorIs(t, svc.Delete(context.Background(), organizer, "vip"), errTicketTypeHasSales)
	assert.Error(t, svc.Delete(context.Background(), alice, "fresh"))
	require.NoError(t, svc.Delete(context.Background(), admin, "fresh"))

	_, err := svc.Get(context.Background(), "fresh")
	assert.ErrorIs(t, err, NotFound("Ticket type with ID fresh not found"))
}
