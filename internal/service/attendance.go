package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/metrics"
	"github.com/ormeet/ormeet-api/internal/notify"
	"github.com/ormeet/ormeet-api/internal/policy"
	"github.com/ormeet/ormeet-api/internal/repository"
)

var (
	errCheckInTicketNotFound = NotFound("Ticket not found")
	errTicketNotActive       = BadRequest("Ticket is not active for check-in")
	errAlreadyCheckedIn      = BadRequest("Ticket already checked in for this event")
	errTicketWrongEvent      = BadRequest("Ticket is not valid for this event")
	errAttendanceNotFound    = NotFound("Attendance record not found")
)

type AttendanceRepository interface {
	CheckIn(ctx context.Context, a domain.Attendance) (domain.Attendance, error)
	FindByID(ctx context.Context, id string) (domain.Attendance, error)
	FindByTicketAndEvent(ctx context.Context, ticketID, eventID string) (domain.Attendance, error)
	FindAll(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	Update(ctx context.Context, a domain.Attendance) (domain.Attendance, error)
	Delete(ctx context.Context, id string) error
}

type TicketFinder interface {
	FindByID(ctx context.Context, id string) (domain.Ticket, error)
}

type AttendanceService struct {
	repo        AttendanceRepository
	tickets     TicketFinder
	ticketTypes TicketTypeRepository
	events      EventFinder
	venues      VenueFinder
	users       UserRepository
	notifier    Notifier
	now         clock
}

func NewAttendanceService(
	repo AttendanceRepository,
	tickets TicketFinder,
	ticketTypes TicketTypeRepository,
	events EventFinder,
	venues VenueFinder,
	users UserRepository,
	notifier Notifier,
) *AttendanceService {
	return &AttendanceService{
		repo:        repo,
		tickets:     tickets,
		ticketTypes: ticketTypes,
		events:      events,
		venues:      venues,
		users:       users,
		notifier:    notifier,
		now:         time.Now,
	}
}

type CheckInInput struct {
	TicketID string
	EventID  string
	Method   domain.CheckInMethod
	Metadata map[string]any
}

// CheckIn records the attendance and marks the ticket used atomically.
func (s *AttendanceService) CheckIn(ctx context.Context, actor domain.Actor, in CheckInInput) (domain.Attendance, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindAttendance}, policy.ActionCreate); err != nil {
		return domain.Attendance{}, err
	}

	ticket, err := s.tickets.FindByID(ctx, in.TicketID)
	if err != nil {
		return domain.Attendance{}, translate("s.tickets.FindByID", err, on(repository.ErrTicketNotFound, errCheckInTicketNotFound))
	}

	// A repeated check-in reports the duplicate, not the used ticket.
	_, err = s.repo.FindByTicketAndEvent(ctx, in.TicketID, in.EventID)
	if err == nil {
		return domain.Attendance{}, errAlreadyCheckedIn
	}
	if !errors.Is(err, repository.ErrAttendanceNotFound) {
		return domain.Attendance{}, fmt.Errorf("s.repo.FindByTicketAndEvent -> %w", err)
	}

	if !ticket.Status.CanTransitionTo(domain.TicketUsed) {
		return domain.Attendance{}, errTicketNotActive
	}
	if ticket.EventID != in.EventID {
		return domain.Attendance{}, errTicketWrongEvent
	}

	method := in.Method
	if method == "" {
		method = domain.CheckInQR
	}
	checkedInBy := actor.UserID

	attendance, err := s.repo.CheckIn(ctx, domain.Attendance{
		TicketID:    in.TicketID,
		EventID:     in.EventID,
		CheckedInBy: &checkedInBy,
		CheckedInAt: s.now(),
		Method:      method,
		Metadata:    in.Metadata,
	})
	if err != nil {
		return domain.Attendance{}, translate("s.repo.CheckIn", err,
			on(repository.ErrAlreadyCheckedIn, errAlreadyCheckedIn),
			on(repository.ErrTicketNotActive, errTicketNotActive))
	}
	metrics.CheckIns.WithLabelValues(string(method)).Inc()

	s.sendCheckIn(ctx, ticket, attendance)

	return attendance, nil
}

func (s *AttendanceService) sendCheckIn(ctx context.Context, ticket domain.Ticket, a domain.Attendance) {
	owner, err := s.users.FindByID(ctx, ticket.OwnerID)
	if err != nil {
		return
	}

	data := notify.CheckInData{
		AttendeeName: owner.Name,
		TicketCode:   ticket.Code,
		CheckInTime:  a.CheckedInAt.Format("03:04 PM"),
		Method:       strings.ToUpper(string(a.Method)),
		SeatInfo:     seatInfo(ticket.Seat),
	}
	if data.AttendeeName == "" {
		data.AttendeeName = "Attendee"
	}
	if event, err := s.events.FindByID(ctx, a.EventID); err == nil {
		data.EventTitle = event.Title
		data.EventDate = notify.FormatEventDate(event.StartAt, event.Timezone)
		data.EventLocation = eventLocation(ctx, s.venues, event)
	}
	if tt, err := s.ticketTypes.FindByID(ctx, ticket.TicketTypeID); err == nil {
		data.TicketType = tt.Title
	}

	s.notifier.Enqueue(notify.CheckInConfirmation(owner.Email, data))
}

func seatInfo(seat domain.Seat) string {
	var parts []string
	if seat.Section != nil {
		parts = append(parts, "Section "+*seat.Section)
	}
	if seat.Row != nil {
		parts = append(parts, "Row "+*seat.Row)
	}
	if seat.Number != nil {
		parts = append(parts, "Seat "+*seat.Number)
	}

	return strings.Join(parts, ", ")
}

func (s *AttendanceService) Get(ctx context.Context, id string) (domain.Attendance, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Attendance{}, translate("s.repo.FindByID", err, on(repository.ErrAttendanceNotFound, errAttendanceNotFound))
	}

	return a, nil
}

func (s *AttendanceService) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	records, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindAll -> %w", err)
	}

	return records, nil
}

func (s *AttendanceService) ListByEvent(ctx context.Context, eventID string) ([]domain.Attendance, error) {
	return s.List(ctx, domain.AttendanceFilter{EventID: eventID})
}

func (s *AttendanceService) ListByTicket(ctx context.Context, ticketID string) ([]domain.Attendance, error) {
	return s.List(ctx, domain.AttendanceFilter{TicketID: ticketID})
}

func (s *AttendanceService) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	n, err := s.repo.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.CountByEvent -> %w", err)
	}

	return n, nil
}

func (s *AttendanceService) StatsByEvent(ctx context.Context, eventID string) (domain.AttendanceStats, error) {
	records, err := s.ListByEvent(ctx, eventID)
	if err != nil {
		return domain.AttendanceStats{}, err
	}

	return domain.ComputeAttendanceStats(eventID, records), nil
}

// Update changes the method and metadata of a record; the check-in time and
// ticket are fixed.
func (s *AttendanceService) Update(ctx context.Context, actor domain.Actor, id string, method domain.CheckInMethod, metadata map[string]any) (domain.Attendance, error) {
	if err := authorize(actor, policy.Resource{Kind: policy.KindAttendance}, policy.ActionUpdate); err != nil {
		return domain.Attendance{}, err
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		return domain.Attendance{}, err
	}
	if method != "" {
		a.Method = method
	}
	if metadata != nil {
		a.Metadata = metadata
	}

	updated, err := s.repo.Update(ctx, a)
	if err != nil {
		return domain.Attendance{}, translate("s.repo.Update", err, on(repository.ErrAttendanceNotFound, errAttendanceNotFound))
	}

	return updated, nil
}

// Delete removes the record. The ticket stays used.
func (s *AttendanceService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := authorize(actor, policy.Resource{Kind: policy.KindAttendance}, policy.ActionDelete); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translate("s.repo.Delete", err, on(repository.ErrAttendanceNotFound, errAttendanceNotFound))
	}

	return nil
}
