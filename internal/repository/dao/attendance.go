package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrAttendanceNotFound = errors.New("attendance not found")
	ErrAlreadyCheckedIn   = errors.New("ticket already checked in")
	ErrTicketNotActive    = errors.New("ticket is not active")
)

type Attendance struct {
	Model

	TicketID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_ticket_event"`
	EventID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_attendance_ticket_event;index"`
	CheckedInBy *string   `gorm:"type:uuid"`
	CheckedInAt time.Time `gorm:"not null"`
	Method      string    `gorm:"type:varchar(16);not null;default:qr"`
	Metadata    datatypes.JSONMap
}

func (Attendance) TableName() string {
	return "attendance"
}

type AttendanceFilter struct {
	EventID  string
	TicketID string
}

type AttendanceDAO struct {
	db *gorm.DB
}

func NewAttendanceDAO(db *gorm.DB) *AttendanceDAO {
	return &AttendanceDAO{
		db: db,
	}
}

// CheckIn records the attendance and marks the ticket used in one
// transaction. A concurrent check-in of the same ticket loses on the unique
// index or on the conditional ticket update.
func (d *AttendanceDAO) CheckIn(ctx context.Context, a Attendance) (Attendance, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&a).Error; err != nil {
			if constraint, ok := uniqueViolation(err); ok && constraint == "idx_attendance_ticket_event" {
				return ErrAlreadyCheckedIn
			}
			return err
		}

		result := tx.Model(&Ticket{}).
			Where("id = ? AND status = ?", a.TicketID, "active").
			Update("status", "used")
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTicketNotActive
		}

		return nil
	})
	if err != nil {
		return Attendance{}, err
	}

	return a, nil
}

func (d *AttendanceDAO) FindByID(ctx context.Context, id string) (Attendance, error) {
	var a Attendance

	result := d.db.WithContext(ctx).First(&a, "id = ?", id)
	if result.Error != nil {
		return Attendance{}, notFound(result.Error, ErrAttendanceNotFound)
	}

	return a, nil
}

func (d *AttendanceDAO) FindByTicketAndEvent(ctx context.Context, ticketID, eventID string) (Attendance, error) {
	var a Attendance

	result := d.db.WithContext(ctx).First(&a, "ticket_id = ? AND event_id = ?", ticketID, eventID)
	if result.Error != nil {
		return Attendance{}, notFound(result.Error, ErrAttendanceNotFound)
	}

	return a, nil
}

func (d *AttendanceDAO) FindAll(ctx context.Context, filter AttendanceFilter) ([]Attendance, error) {
	var records []Attendance

	query := d.db.WithContext(ctx).Order("checked_in_at DESC")
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.TicketID != "" {
		query = query.Where("ticket_id = ?", filter.TicketID)
	}

	if err := query.Find(&records).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return records, nil
}

func (d *AttendanceDAO) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	var count int64

	if err := d.db.WithContext(ctx).Model(&Attendance{}).Where("event_id = ?", eventID).Count(&count).Error; err != nil {
		if invalidUUID(err) {
			return 0, nil
		}
		return 0, err
	}

	return count, nil
}

func (d *AttendanceDAO) Update(ctx context.Context, a Attendance) (Attendance, error) {
	result := d.db.WithContext(ctx).Model(&a).Select("Method", "Metadata").Updates(&a)
	if result.Error != nil {
		return Attendance{}, notFound(result.Error, ErrAttendanceNotFound)
	}
	if result.RowsAffected == 0 {
		return Attendance{}, ErrAttendanceNotFound
	}

	return d.FindByID(ctx, a.ID)
}

// Delete removes the record only; the ticket stays used.
func (d *AttendanceDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Attendance{}, "id = ?", id)
	if result.Error != nil {
		return notFound(result.Error, ErrAttendanceNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrAttendanceNotFound
	}

	return nil
}
