package service

import (
	"context"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
)

// Notifier queues best-effort notification emails.
type Notifier interface {
	Enqueue(email notify.Email) bool
}

// Sender delivers an email right away and reports failures.
type Sender interface {
	Send(ctx context.Context, email notify.Email) error
}

type clock func() time.Time

type VenueFinder interface {
	FindByID(ctx context.Context, id string) (domain.Venue, error)
}

// eventLocation is the "venue, city" line shown in emails.
func eventLocation(ctx context.Context, venues VenueFinder, event domain.Event) string {
	if event.VenueID == nil {
		return "See event details"
	}

	venue, err := venues.FindByID(ctx, *event.VenueID)
	if err != nil {
		return "See event details"
	}

	return venue.Name + ", " + venue.City
}
