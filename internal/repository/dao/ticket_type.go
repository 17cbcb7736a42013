package dao

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrTicketTypeSoldOut  = errors.New("not enough tickets available")
	ErrTicketTypeHasSales = errors.New("ticket type has sold tickets")
)

type TicketType struct {
	Model

	EventID       string `gorm:"type:uuid;not null;index"`
	Title         string `gorm:"not null"`
	Description   string
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Currency      string          `gorm:"type:varchar(3);not null;default:USD"`
	QuantityTotal int             `gorm:"not null"`
	QuantitySold  int             `gorm:"not null;default:0;check:chk_ticket_types_sold,quantity_sold <= quantity_total"`
	SalesStart    *time.Time
	SalesEnd      *time.Time
	IsFree        bool   `gorm:"not null;default:false"`
	Kind          string `gorm:"column:type;type:varchar(16);not null;default:general"`
	Metadata      datatypes.JSONMap
}

type TicketTypeDAO struct {
	db *gorm.DB
}

func NewTicketTypeDAO(db *gorm.DB) *TicketTypeDAO {
	return &TicketTypeDAO{
		db: db,
	}
}

func (d *TicketTypeDAO) Insert(ctx context.Context, tt TicketType) (TicketType, error) {
	if err := d.db.WithContext(ctx).Create(&tt).Error; err != nil {
		return TicketType{}, err
	}

	return tt, nil
}

func (d *TicketTypeDAO) FindByID(ctx context.Context, id string) (TicketType, error) {
	var tt TicketType

	result := d.db.WithContext(ctx).First(&tt, "id = ?", id)
	if result.Error != nil {
		return TicketType{}, notFound(result.Error, ErrTicketTypeNotFound)
	}

	return tt, nil
}

func (d *TicketTypeDAO) FindByIDs(ctx context.Context, ids []string) ([]TicketType, error) {
	var tts []TicketType

	if err := d.db.WithContext(ctx).Where("id IN ?", ids).Find(&tts).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return tts, nil
}

func (d *TicketTypeDAO) FindAll(ctx context.Context, eventID string) ([]TicketType, error) {
	var tts []TicketType

	query := d.db.WithContext(ctx).Order("price ASC")
	if eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	if err := query.Find(&tts).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return tts, nil
}

func (d *TicketTypeDAO) Update(ctx context.Context, tt TicketType) (TicketType, error) {
	result := d.db.WithContext(ctx).Model(&tt).
		Select("*").
		Omit("ID", "CreatedAt", "EventID", "QuantitySold").
		Updates(&tt)
	if result.Error != nil {
		if checkViolation(result.Error) {
			return TicketType{}, ErrTicketTypeSoldOut
		}
		return TicketType{}, notFound(result.Error, ErrTicketTypeNotFound)
	}
	if result.RowsAffected == 0 {
		return TicketType{}, ErrTicketTypeNotFound
	}

	return d.FindByID(ctx, tt.ID)
}

// Delete refuses to remove a ticket type that already has tickets.
func (d *TicketTypeDAO) Delete(ctx context.Context, id string) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tt TicketType
		if err := tx.First(&tt, "id = ?", id).Error; err != nil {
			return notFound(err, ErrTicketTypeNotFound)
		}

		var issued int64
		if err := tx.Model(&Ticket{}).Where("ticket_type_id = ?", id).Count(&issued).Error; err != nil {
			return err
		}
		if tt.QuantitySold > 0 || issued > 0 {
			return ErrTicketTypeHasSales
		}

		return tx.Delete(&TicketType{}, "id = ?", id).Error
	})
}

// reserveSeats increments quantity_sold by n unless that would oversell.
func reserveSeats(tx *gorm.DB, ticketTypeID string, n int) error {
	result := tx.Model(&TicketType{}).
		Where("id = ? AND quantity_sold + ? <= quantity_total", ticketTypeID, n).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", n))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketTypeSoldOut
	}

	return nil
}
