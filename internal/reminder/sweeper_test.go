package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/config"
	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
)

var now = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type fakeEvents struct {
	events []domain.Event
}

func (f *fakeEvents) FindPublishedStartingBetween(_ context.Context, from, to time.Time) ([]domain.Event, error) {
	var found []domain.Event
	for _, e := range f.events {
		if !e.StartAt.Before(from) && !e.StartAt.After(to) {
			found = append(found, e)
		}
	}
	return found, nil
}

type fakeVenues struct{}

func (fakeVenues) FindByID(_ context.Context, id string) (domain.Venue, error) {
	return domain.Venue{ID: id, Name: "Hall", Address: domain.Address{City: "Paris"}}, nil
}

type fakeDeliveries struct {
	recipients map[string][]domain.ReminderRecipient
	recorded   []domain.ReminderDelivery
}

func (f *fakeDeliveries) FindRecipients(_ context.Context, eventID string) ([]domain.ReminderRecipient, error) {
	return f.recipients[eventID], nil
}

func (f *fakeDeliveries) WasSent(_ context.Context, eventID, email string, leadHours int) (bool, error) {
	for _, d := range f.recorded {
		if d.EventID == eventID && d.Email == email && d.LeadHours == leadHours {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDeliveries) RecordDelivery(_ context.Context, d domain.ReminderDelivery) (domain.ReminderDelivery, error) {
	f.recorded = append(f.recorded, d)
	return d, nil
}

type fakeSender struct {
	mu     sync.Mutex
	sent   []notify.Email
	failTo string
}

func (f *fakeSender) Send(_ context.Context, e notify.Email) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if e.To == f.failTo {
		return errors.New("smtp down")
	}
	f.sent = append(f.sent, e)
	return nil
}

func newTestSweeper(events []domain.Event, deliveries *fakeDeliveries, sender *fakeSender) *Sweeper {
	s := NewSweeper(
		&config.RemindersConfig{Interval: time.Hour, LeadHours: []int{24, 1}, Window: 30 * time.Minute},
		"http://localhost:3000",
		&fakeEvents{events: events},
		fakeVenues{},
		deliveries,
		sender,
		&LocalLocker{},
	)
	s.now = func() time.Time { return now }

	return s
}

func TestSweeper_Sweep(t *testing.T) {
	venueID := "venue-1"
	events := []domain.Event{
		{ID: "tomorrow", Title: "Concert", StartAt: now.Add(24*time.Hour + 10*time.Minute), VenueID: &venueID},
		{ID: "soon", Title: "Talk", StartAt: now.Add(50 * time.Minute)},
		{ID: "later", Title: "Festival", StartAt: now.Add(72 * time.Hour)},
	}
	deliveries := &fakeDeliveries{recipients: map[string][]domain.ReminderRecipient{
		"tomorrow": {
			{TicketID: "t1", TicketCode: "AAA", Email: "jane@example.com", Name: "Jane"},
			{TicketID: "t2", TicketCode: "BBB", Email: "jane@example.com", Name: "Jane"},
			{TicketID: "t3", TicketCode: "CCC", Email: "bob@example.com"},
		},
		"soon":  {{TicketID: "t4", Email: "jane@example.com", Name: "Jane"}},
		"later": {{TicketID: "t5", Email: "jane@example.com", Name: "Jane"}},
	}}
	sender := &fakeSender{}
	s := newTestSweeper(events, deliveries, sender)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 3}, res)

	require.Len(t, sender.sent, 3)
	assert.Equal(t, "Reminder: Concert starts in 1 day(s)", sender.sent[0].Subject)
	data := sender.sent[0].Data.(notify.ReminderData)
	assert.Equal(t, "Hall, Paris", data.EventLocation)
	assert.Equal(t, "AAA", data.TicketCode)
	assert.Equal(t, "http://localhost:3000/events/tomorrow", data.EventURL)

	bob := sender.sent[1].Data.(notify.ReminderData)
	assert.Equal(t, "Attendee", bob.AttendeeName)

	talk := sender.sent[2].Data.(notify.ReminderData)
	assert.Equal(t, "See event details", talk.EventLocation)
	assert.Equal(t, 1, talk.HoursUntilEvent)

	res, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 3}, res)
	assert.Len(t, sender.sent, 3)
}

func TestSweeper_FailedSendIsRetried(t *testing.T) {
	events := []domain.Event{{ID: "e1", Title: "Concert", StartAt: now.Add(time.Hour)}}
	deliveries := &fakeDeliveries{recipients: map[string][]domain.ReminderRecipient{
		"e1": {
			{TicketID: "t1", Email: "jane@example.com", Name: "Jane"},
			{TicketID: "t2", Email: "bob@example.com", Name: "Bob"},
		},
	}}
	sender := &fakeSender{failTo: "jane@example.com"}
	s := newTestSweeper(events, deliveries, sender)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1, Failed: 1}, res)
	require.Len(t, deliveries.recorded, 1)
	assert.Equal(t, "bob@example.com", deliveries.recorded[0].Email)

	sender.failTo = ""
	res, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{Sent: 1, Skipped: 1}, res)
}

func TestSweeper_SkipsWhenLocked(t *testing.T) {
	sender := &fakeSender{}
	s := newTestSweeper([]domain.Event{{ID: "e1", StartAt: now.Add(time.Hour)}}, &fakeDeliveries{
		recipients: map[string][]domain.ReminderRecipient{"e1": {{Email: "a@b.c"}}},
	}, sender)

	unlock, ok, err := s.locker.TryLock(context.Background())
	require.NoError(t, err)
	require.True(t, ok)

	res, err := s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Result{}, res)
	assert.Empty(t, sender.sent)

	unlock()
	res, err = s.Sweep(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sent)
}

func TestRedisLocker(t *testing.T) {
	client, mock := redismock.NewClientMock()
	l := NewRedisLocker(client, "reminders:lock", 10*time.Minute)
	l.newToken = func() string { return "token-1" }

	mock.ExpectSetNX("reminders:lock", "token-1", 10*time.Minute).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"reminders:lock"}, "token-1").SetVal(int64(1))

	unlock, ok, err := l.TryLock(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	unlock()

	mock.ExpectSetNX("reminders:lock", "token-1", 10*time.Minute).SetVal(false)
	_, ok, err = l.TryLock(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	mock.ExpectSetNX("reminders:lock", "token-1", 10*time.Minute).SetErr(errors.New("connection refused"))
	_, _, err = l.TryLock(context.Background())
	assert.ErrorContains(t, err, "connection refused")

	assert.NoError(t, mock.ExpectationsWereMet())
}
