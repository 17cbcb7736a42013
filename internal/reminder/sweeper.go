// Package reminder emails ticket holders ahead of the events they attend.
package reminder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ormeet/ormeet-api/internal/config"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/metrics"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/repository"
)

type EventRepository interface {
	FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
}

type VenueRepository interface {
	FindByID(ctx context.Context, id string) (domain.Venue, error)
}

type DeliveryRepository interface {
	FindRecipients(ctx context.Context, eventID string) ([]domain.ReminderRecipient, error)
	WasSent(ctx context.Context, eventID, email string, leadHours int) (bool, error)
	RecordDelivery(ctx context.Context, d domain.ReminderDelivery) (domain.ReminderDelivery, error)
}

type Sender interface {
	Send(ctx context.Context, email notify.Email) error
}

type Result struct {
	Sent    int
	Skipped int
	Failed  int
}

type Sweeper struct {
	events      EventRepository
	venues      VenueRepository
	deliveries  DeliveryRepository
	sender      Sender
	locker      Locker
	interval    time.Duration
	leadHours   []int
	window      time.Duration
	frontendURL string
	now         func() time.Time
}

func NewSweeper(
	conf *config.RemindersConfig,
	frontendURL string,
	events EventRepository,
	venues VenueRepository,
	deliveries DeliveryRepository,
	sender Sender,
	locker Locker,
) *Sweeper {
	return &Sweeper{
		events:      events,
		venues:      venues,
		deliveries:  deliveries,
		sender:      sender,
		locker:      locker,
		interval:    conf.Interval,
		leadHours:   conf.LeadHours,
		window:      conf.Window,
		frontendURL: frontendURL,
		now:         time.Now,
	}
}

// Run sweeps once right away and then on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.Sweep(ctx); err != nil && !errors.Is(err, context.Canceled) {
			zap.L().Error("reminder sweep failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Sweep sends the reminders due now. It is a no-op when another sweep holds
// the lock.
func (s *Sweeper) Sweep(ctx context.Context) (Result, error) {
	var res Result

	unlock, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		return res, fmt.Errorf("s.locker.TryLock -> %w", err)
	}
	if !ok {
		zap.L().Info("reminder sweep already running, skipping")
		return res, nil
	}
	defer unlock()

	now := s.now()
	for _, lead := range s.leadHours {
		target := now.Add(time.Duration(lead) * time.Hour)

		events, err := s.events.FindPublishedStartingBetween(ctx, target.Add(-s.window), target.Add(s.window))
		if err != nil {
			return res, fmt.Errorf("s.events.FindPublishedStartingBetween -> %w", err)
		}

		for _, event := range events {
			if err := s.remindEvent(ctx, event, lead, &res); err != nil {
				return res, err
			}
		}
	}

	zap.L().Info("reminder sweep finished",
		zap.Int("sent", res.Sent),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)

	return res, nil
}

func (s *Sweeper) remindEvent(ctx context.Context, event domain.Event, lead int, res *Result) error {
	recipients, err := s.deliveries.FindRecipients(ctx, event.ID)
	if err != nil {
		return fmt.Errorf("s.deliveries.FindRecipients -> %w", err)
	}

	location := s.location(ctx, event)
	leadLabel := strconv.Itoa(lead)
	seen := make(map[string]bool, len(recipients))

	for _, rc := range recipients {
		if seen[rc.Email] {
			continue
		}
		seen[rc.Email] = true

		sent, err := s.deliveries.WasSent(ctx, event.ID, rc.Email, lead)
		if err != nil {
			return fmt.Errorf("s.deliveries.WasSent -> %w", err)
		}
		if sent {
			res.Skipped++
			continue
		}

		name := rc.Name
		if name == "" {
			name = "Attendee"
		}

		email := notify.EventReminder(rc.Email, notify.ReminderData{
			AttendeeName:    name,
			EventTitle:      event.Title,
			EventDate:       notify.FormatEventDate(event.StartAt, event.Timezone),
			EventLocation:   location,
			TicketCode:      rc.TicketCode,
			TicketType:      rc.TicketType,
			HoursUntilEvent: lead,
			EventURL:        s.frontendURL + "/events/" + event.ID,
		})
		if err := s.sender.Send(ctx, email); err != nil {
			res.Failed++
			metrics.Reminders.WithLabelValues(leadLabel, "failed").Inc()
			zap.L().Error("failed to send event reminder",
				zap.String("event_id", event.ID),
				zap.String("email", rc.Email),
				zap.Int("lead_hours", lead),
				zap.Error(err),
			)
			continue
		}

		_, err = s.deliveries.RecordDelivery(ctx, domain.ReminderDelivery{
			EventID:   event.ID,
			TicketID:  rc.TicketID,
			Email:     rc.Email,
			LeadHours: lead,
			SentAt:    s.now(),
		})
		if err != nil && !errors.Is(err, repository.ErrReminderAlreadySent) {
			return fmt.Errorf("s.deliveries.RecordDelivery -> %w", err)
		}

		res.Sent++
		metrics.Reminders.WithLabelValues(leadLabel, "sent").Inc()
	}

	return nil
}

func (s *Sweeper) location(ctx context.Context, event domain.Event) string {
	if event.VenueID == nil {
		return "See event details"
	}

	venue, err := s.venues.FindByID(ctx, *event.VenueID)
	if err != nil {
		zap.L().Warn("failed to load venue for reminder", zap.String("venue_id", *event.VenueID), zap.Error(err))
		return "See event details"
	}

	return venue.Name + ", " + venue.City
}
