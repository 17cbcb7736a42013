package repository

import (
	"context"
	"fmt"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrAttendanceNotFound = dao.ErrAttendanceNotFound
	ErrAlreadyCheckedIn   = dao.ErrAlreadyCheckedIn
	ErrTicketNotActive    = dao.ErrTicketNotActive
)

type AttendanceDAO interface {
	CheckIn(ctx context.Context, a dao.Attendance) (dao.Attendance, error)
	FindByID(ctx context.Context, id string) (dao.Attendance, error)
	FindByTicketAndEvent(ctx context.Context, ticketID, eventID string) (dao.Attendance, error)
	FindAll(ctx context.Context, filter dao.AttendanceFilter) ([]dao.Attendance, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
	Update(ctx context.Context, a dao.Attendance) (dao.Attendance, error)
	Delete(ctx context.Context, id string) error
}

type AttendanceRepository struct {
	dao AttendanceDAO
}

func NewAttendanceRepository(dao AttendanceDAO) *AttendanceRepository {
	return &AttendanceRepository{
		dao: dao,
	}
}

// CheckIn stores the attendance and marks the ticket used atomically.
func (r *AttendanceRepository) CheckIn(ctx context.Context, a domain.Attendance) (domain.Attendance, error) {
	created, err := r.dao.CheckIn(ctx, r.domainToDao(a))
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.CheckIn -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *AttendanceRepository) FindByID(ctx context.Context, id string) (domain.Attendance, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendanceRepository) FindByTicketAndEvent(ctx context.Context, ticketID, eventID string) (domain.Attendance, error) {
	found, err := r.dao.FindByTicketAndEvent(ctx, ticketID, eventID)
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.FindByTicketAndEvent -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *AttendanceRepository) FindAll(ctx context.Context, filter domain.AttendanceFilter) ([]domain.Attendance, error) {
	found, err := r.dao.FindAll(ctx, dao.AttendanceFilter{
		EventID:  filter.EventID,
		TicketID: filter.TicketID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	records := make([]domain.Attendance, len(found))
	for i := range found {
		records[i] = r.daoToDomain(found[i])
	}

	return records, nil
}

func (r *AttendanceRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	count, err := r.dao.CountByEvent(ctx, eventID)
	if err != nil {
		return 0, fmt.Errorf("r.dao.CountByEvent -> %w", err)
	}

	return count, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, a domain.Attendance) (domain.Attendance, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(a))
	if err != nil {
		return domain.Attendance{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *AttendanceRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *AttendanceRepository) domainToDao(a domain.Attendance) dao.Attendance {
	return dao.Attendance{
		Model:       dao.Model{ID: a.ID, CreatedAt: a.CreatedAt},
		TicketID:    a.TicketID,
		EventID:     a.EventID,
		CheckedInBy: a.CheckedInBy,
		CheckedInAt: a.CheckedInAt,
		Method:      string(a.Method),
		Metadata:    datatypes.JSONMap(a.Metadata),
	}
}

func (r *AttendanceRepository) daoToDomain(a dao.Attendance) domain.Attendance {
	return domain.Attendance{
		ID:          a.ID,
		TicketID:    a.TicketID,
		EventID:     a.EventID,
		CheckedInBy: a.CheckedInBy,
		CheckedInAt: a.CheckedInAt,
		Method:      domain.CheckInMethod(a.Method),
		Metadata:    a.Metadata,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}
