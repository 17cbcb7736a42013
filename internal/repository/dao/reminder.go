package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrReminderAlreadySent = errors.New("reminder already sent")

type ReminderDelivery struct {
	Model

	EventID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_reminder_deliveries_once"`
	TicketID  string    `gorm:"type:uuid;not null"`
	Email     string    `gorm:"not null;uniqueIndex:idx_reminder_deliveries_once"`
	LeadHours int       `gorm:"not null;uniqueIndex:idx_reminder_deliveries_once"`
	SentAt    time.Time `gorm:"not null"`
}

// ReminderRecipient is a row of the active ticket holders query.
type ReminderRecipient struct {
	TicketID   string
	TicketCode string
	TicketType string
	OwnerID    string
	Email      string
	Name       string
}

type ReminderDAO struct {
	db *gorm.DB
}

func NewReminderDAO(db *gorm.DB) *ReminderDAO {
	return &ReminderDAO{
		db: db,
	}
}

// FindRecipients lists the owners of active tickets for eventID, oldest
// ticket first.
func (d *ReminderDAO) FindRecipients(ctx context.Context, eventID string) ([]ReminderRecipient, error) {
	var recipients []ReminderRecipient

	err := d.db.WithContext(ctx).
		Table("tickets").
		Select("tickets.id AS ticket_id, tickets.code AS ticket_code, ticket_types.title AS ticket_type, tickets.owner_id, users.email, users.name").
		Joins("JOIN users ON users.id = tickets.owner_id").
		Joins("JOIN ticket_types ON ticket_types.id = tickets.ticket_type_id").
		Where("tickets.event_id = ? AND tickets.status = ?", eventID, "active").
		Order("tickets.issued_at ASC").
		Scan(&recipients).Error
	if err != nil {
		return nil, err
	}

	return recipients, nil
}

func (d *ReminderDAO) Exists(ctx context.Context, eventID, email string, leadHours int) (bool, error) {
	var count int64

	err := d.db.WithContext(ctx).Model(&ReminderDelivery{}).
		Where("event_id = ? AND email = ? AND lead_hours = ?", eventID, email, leadHours).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *ReminderDAO) Insert(ctx context.Context, delivery ReminderDelivery) (ReminderDelivery, error) {
	if err := d.db.WithContext(ctx).Create(&delivery).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_reminder_deliveries_once" {
			return ReminderDelivery{}, ErrReminderAlreadySent
		}
		return ReminderDelivery{}, err
	}

	return delivery, nil
}
