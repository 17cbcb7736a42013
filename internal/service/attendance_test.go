package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/repository"
)

// memAttendance marks the ticket used on check-in the way the database
// transaction does.
type memAttendance struct {
	records map[string]domain.Attendance
	tickets *memTickets
}

func (m *memAttendance) CheckIn(_ context.Context, a domain.Attendance) (domain.Attendance, error) {
	t := m.tickets.tickets[a.TicketID]
	if t.Status != domain.TicketActive {
		return domain.Attendance{}, repository.ErrTicketNotActive
	}
	t.Status = domain.TicketUsed
	m.tickets.tickets[a.TicketID] = t

	a.ID = fmt.Sprintf("att-%d", len(m.records)+1)
	m.records[a.ID] = a
	return a, nil
}

func (m *memAttendance) FindByID(_ context.Context, id string) (domain.Attendance, error) {
	a, ok := m.records[id]
	if !ok {
		return domain.Attendance{}, repository.ErrAttendanceNotFound
	}
	return a, nil
}

func (m *memAttendance) FindByTicketAndEvent(_ context.Context, ticketID, eventID string) (domain.Attendance, error) {
	for _, a := range m.records {
		if a.TicketID == ticketID && a.EventID == eventID {
			return a, nil
		}
	}
	return domain.Attendance{}, repository.ErrAttendanceNotFound
}

func (m *memAttendance) FindAll(_ context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	var found []domain.Attendance
	for _, a := range m.records {
		if (filter.EventID == "" || a.EventID == filter.EventID) && (filter.TicketID == "" || a.TicketID == filter.TicketID) {
			found = append(found, a)
		}
	}
	return found, nil
}

func (m *memAttendance) CountByEvent(_ context.Context, eventID string) (int64, error) {
	var n int64
	for _, a := range m.records {
		if a.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *memAttendance) Update(_ context.Context, a domain.Attendance) (domain.Attendance, error) {
	m.records[a.ID] = a
	return a, nil
}

func (m *memAttendance) Delete(_ context.Context, id string) error {
	if _, ok := m.records[id]; !ok {
		return repository.ErrAttendanceNotFound
	}
	delete(m.records, id)
	return nil
}

type attendanceFixture struct {
	svc     *AttendanceService
	tickets *memTickets
	mail    *outbox
}

func newAttendanceFixture() attendanceFixture {
	section, row := "A", "3"
	tickets := newMemTickets(
		domain.Ticket{ID: "t1", EventID: "event-1", TicketTypeID: "tt-general", OwnerID: "alice", Code: "CODE1", Status: domain.TicketActive,
			Seat: domain.Seat{Section: &section, Row: &row}},
		domain.Ticket{ID: "t2", EventID: "event-2", OwnerID: "alice", Status: domain.TicketActive},
		domain.Ticket{ID: "t3", EventID: "event-1", OwnerID: "alice", Status: domain.TicketCancelled},
	)
	f := attendanceFixture{tickets: tickets, mail: &outbox{}}

	repo := &memAttendance{records: map[string]domain.Attendance{}, tickets: tickets}
	ticketTypes := &memTicketTypes{types: map[string]domain.TicketType{"tt-general": {ID: "tt-general", Title: "General"}}}
	events := eventTable{"event-1": {ID: "event-1", Title: "Concert", StartAt: testNow.Add(time.Hour)}}
	users := userTable{"alice": {ID: "alice", Email: "alice@example.com", Name: "Alice"}}

	f.svc = NewAttendanceService(repo, tickets, ticketTypes, events, venueTable{}, users, f.mail)
	f.svc.now = fixedClock

	return f
}

func TestAttendanceService_CheckIn(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	a, err := f.svc.CheckIn(ctx, organizer, CheckInInput{TicketID: "t1", EventID: "event-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.CheckInQR, a.Method)
	require.NotNil(t, a.CheckedInBy)
	assert.Equal(t, "org-1", *a.CheckedInBy)
	assert.Equal(t, domain.TicketUsed, f.tickets.tickets["t1"].Status)

	require.Len(t, f.mail.emails, 1)
	data := f.mail.emails[0].Data.(notify.CheckInData)
	assert.Equal(t, "Alice", data.AttendeeName)
	assert.Equal(t, "Concert", data.EventTitle)
	assert.Equal(t, "General", data.TicketType)
	assert.Equal(t, "Section A, Row 3", data.SeatInfo)
	assert.Equal(t, "QR", data.Method)
	assert.Equal(t, "See event details", data.EventLocation)

	_, err = f.svc.CheckIn(ctx, organizer, CheckInInput{TicketID: "t1", EventID: "event-1"})
	assert.ErrorIs(t, err, errAlreadyCheckedIn)
	assert.EqualError(t, err, "Ticket already checked in for this event")

	n, err := f.svc.CountByEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestAttendanceService_CheckInRejections(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		in    CheckInInput
		want  error
	}{
		{name: "plain user", actor: alice, in: CheckInInput{TicketID: "t1", EventID: "event-1"}, want: Forbidden("You do not have permission to create this attendance")},
		{name: "unknown ticket", actor: organizer, in: CheckInInput{TicketID: "nope", EventID: "event-1"}, want: errCheckInTicketNotFound},
		{name: "cancelled ticket", actor: organizer, in: CheckInInput{TicketID: "t3", EventID: "event-1"}, want: errTicketNotActive},
		{name: "other event", actor: organizer, in: CheckInInput{TicketID: "t2", EventID: "event-1"}, want: errTicketWrongEvent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAttendanceFixture()

			_, err := f.svc.CheckIn(context.Background(), tt.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.mail.emails)
		})
	}
}

func TestAttendanceService_Stats(t *testing.T) {
	f := newAttendanceFixture()
	ctx := context.Background()

	_, err := f.svc.CheckIn(ctx, organizer, CheckInInput{TicketID: "t1", EventID: "event-1", Method: domain.CheckInManual})
	require.NoError(t, err)

	stats, err := f.svc.StatsByEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCheckIns)
	assert.Equal(t, 1, stats.ByMethod[domain.CheckInManual])
	require.NotNil(t, stats.AverageCheckInTime)
	assert.Equal(t, "12:00", *stats.AverageCheckInTime)
}
