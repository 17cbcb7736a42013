package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTicketNotFound    = errors.New("ticket not found")
	ErrTicketCodeExists  = errors.New("ticket code already exists")
	ErrTicketWrongStatus = errors.New("ticket is not in the expected status")
)

type Ticket struct {
	Model

	TicketTypeID string `gorm:"type:uuid;not null;index"`
	EventID      string `gorm:"type:uuid;not null;index"`
	OrderID      string `gorm:"type:uuid;not null;index"`
	OwnerID      string `gorm:"type:uuid;not null;index"`
	Code         string `gorm:"not null;uniqueIndex:idx_tickets_code"`
	SeatSection  *string
	SeatRow      *string
	SeatNumber   *string
	Status       string    `gorm:"type:varchar(16);not null;default:active;index"`
	IssuedAt     time.Time `gorm:"not null"`
}

type TicketFilter struct {
	OwnerID string
	OrderID string
	EventID string
	Status  string
}

type TicketDAO struct {
	db *gorm.DB
}

func NewTicketDAO(db *gorm.DB) *TicketDAO {
	return &TicketDAO{
		db: db,
	}
}

func (d *TicketDAO) Insert(ctx context.Context, ticket Ticket) (Ticket, error) {
	if err := d.db.WithContext(ctx).Create(&ticket).Error; err != nil {
		return Ticket{}, mapTicketInsertErr(err)
	}

	return ticket, nil
}

func mapTicketInsertErr(err error) error {
	if constraint, ok := uniqueViolation(err); ok && constraint == "idx_tickets_code" {
		return ErrTicketCodeExists
	}

	return err
}

func (d *TicketDAO) FindByID(ctx context.Context, id string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, "id = ?", id)
	if result.Error != nil {
		return Ticket{}, notFound(result.Error, ErrTicketNotFound)
	}

	return ticket, nil
}

func (d *TicketDAO) FindByCode(ctx context.Context, code string) (Ticket, error) {
	var ticket Ticket

	result := d.db.WithContext(ctx).First(&ticket, "code = ?", code)
	if result.Error != nil {
		return Ticket{}, notFound(result.Error, ErrTicketNotFound)
	}

	return ticket, nil
}

func (d *TicketDAO) FindAll(ctx context.Context, filter TicketFilter) ([]Ticket, error) {
	var tickets []Ticket

	query := d.db.WithContext(ctx).Order("issued_at DESC")
	if filter.OwnerID != "" {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.OrderID != "" {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if err := query.Find(&tickets).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return tickets, nil
}

func (d *TicketDAO) UpdateSeat(ctx context.Context, id string, section, row, number *string) (Ticket, error) {
	result := d.db.WithContext(ctx).Model(&Ticket{}).Where("id = ?", id).Updates(map[string]any{
		"seat_section": section,
		"seat_row":     row,
		"seat_number":  number,
	})
	if result.Error != nil {
		return Ticket{}, notFound(result.Error, ErrTicketNotFound)
	}
	if result.RowsAffected == 0 {
		return Ticket{}, ErrTicketNotFound
	}

	return d.FindByID(ctx, id)
}

// Transition moves the ticket from one status to another. It fails with
// ErrTicketWrongStatus when the ticket is no longer in from.
func (d *TicketDAO) Transition(ctx context.Context, id, from, to string) (Ticket, error) {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return Ticket{}, notFound(result.Error, ErrTicketNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return Ticket{}, err
		}
		return Ticket{}, ErrTicketWrongStatus
	}

	return d.FindByID(ctx, id)
}

// Transfer changes the owner of an active ticket.
func (d *TicketDAO) Transfer(ctx context.Context, id, newOwnerID string) (Ticket, error) {
	result := d.db.WithContext(ctx).Model(&Ticket{}).
		Where("id = ? AND status = ?", id, "active").
		Update("owner_id", newOwnerID)
	if result.Error != nil {
		return Ticket{}, notFound(result.Error, ErrTicketNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return Ticket{}, err
		}
		return Ticket{}, ErrTicketWrongStatus
	}

	return d.FindByID(ctx, id)
}

// Delete removes a ticket that has not been used.
func (d *TicketDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Ticket{}, "id = ? AND status <> ?", id, "used")
	if result.Error != nil {
		return notFound(result.Error, ErrTicketNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return err
		}
		return ErrTicketWrongStatus
	}

	return nil
}
