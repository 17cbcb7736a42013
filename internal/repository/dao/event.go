package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrEventAlreadyPublished = errors.New("event already published")
)

type Session struct {
	Title   string    `json:"title"`
	StartAt time.Time `json:"startAt"`
	EndAt   time.Time `json:"endAt"`
}

type Event struct {
	Model

	Title            string `gorm:"not null"`
	ShortDescription string
	LongDescription  string  `gorm:"type:text"`
	OrganizerID      string  `gorm:"type:uuid;not null;index"`
	VenueID          *string `gorm:"type:uuid;index"`
	Status           string  `gorm:"type:varchar(16);not null;default:draft;index"`
	Category         string  `gorm:"index"`
	Tags             datatypes.JSONType[[]string]
	Images           datatypes.JSONType[[]string]
	StartAt          time.Time `gorm:"not null;index"`
	EndAt            time.Time `gorm:"not null"`
	Timezone         string    `gorm:"not null;default:UTC"`
	Sessions         datatypes.JSONType[[]Session]
	Capacity         *int
	AgeLimit         *int
	AllowReentry     bool `gorm:"not null;default:false"`
	RefundsAllowed   bool `gorm:"not null;default:false"`
	PublishedAt      *time.Time
	Views            int `gorm:"not null;default:0"`
	Favorites        int `gorm:"not null;default:0"`
}

type EventFilter struct {
	Status      string
	Category    string
	OrganizerID string
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) FindByID(ctx context.Context, id string) (Event, error) {
	var event Event

	result := d.db.WithContext(ctx).First(&event, "id = ?", id)
	if result.Error != nil {
		return Event{}, notFound(result.Error, ErrEventNotFound)
	}

	return event, nil
}

func (d *EventDAO) FindAll(ctx context.Context, filter EventFilter) ([]Event, error) {
	var events []Event

	query := d.db.WithContext(ctx).Order("start_at ASC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.OrganizerID != "" {
		query = query.Where("organizer_id = ?", filter.OrganizerID)
	}

	if err := query.Find(&events).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return events, nil
}

// FindPublishedStartingBetween returns published events with from <= start_at <= to.
func (d *EventDAO) FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]Event, error) {
	var events []Event

	err := d.db.WithContext(ctx).
		Where("status = ? AND start_at BETWEEN ? AND ?", "published", from, to).
		Order("start_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (d *EventDAO) Update(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Model(&event).
		Select("*").
		Omit("ID", "CreatedAt", "Status", "PublishedAt", "Views", "Favorites").
		Updates(&event)
	if result.Error != nil {
		return Event{}, notFound(result.Error, ErrEventNotFound)
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, event.ID)
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
	if result.Error != nil {
		return notFound(result.Error, ErrEventNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Publish flips a not yet published event to published.
func (d *EventDAO) Publish(ctx context.Context, id string, at time.Time) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{}).
		Where("id = ? AND status <> ?", id, "published").
		Updates(map[string]any{"status": "published", "published_at": at})
	if result.Error != nil {
		return Event{}, notFound(result.Error, ErrEventNotFound)
	}
	if result.RowsAffected == 0 {
		if _, err := d.FindByID(ctx, id); err != nil {
			return Event{}, err
		}
		return Event{}, ErrEventAlreadyPublished
	}

	return d.FindByID(ctx, id)
}

func (d *EventDAO) SetStatus(ctx context.Context, id, status string) (Event, error) {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return Event{}, notFound(result.Error, ErrEventNotFound)
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}

// Increment adds one to a counter column (views or favorites).
func (d *EventDAO) Increment(ctx context.Context, id, column string) (Event, error) {
	if column != "views" && column != "favorites" {
		return Event{}, errors.New("unknown counter " + column)
	}

	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + 1"))
	if result.Error != nil {
		return Event{}, notFound(result.Error, ErrEventNotFound)
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	return d.FindByID(ctx, id)
}
