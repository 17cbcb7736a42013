package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

var (
	ErrEventNotFound         = dao.ErrEventNotFound
	ErrEventAlreadyPublished = dao.ErrEventAlreadyPublished
)

type EventDAO interface {
	Insert(ctx context.Context, event dao.Event) (dao.Event, error)
	FindByID(ctx context.Context, id string) (dao.Event, error)
	FindAll(ctx context.Context, filter dao.EventFilter) ([]dao.Event, error)
	FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]dao.Event, error)
	Update(ctx context.Context, event dao.Event) (dao.Event, error)
	Delete(ctx context.Context, id string) error
	Publish(ctx context.Context, id string, at time.Time) (dao.Event, error)
	SetStatus(ctx context.Context, id, status string) (dao.Event, error)
	Increment(ctx context.Context, id, column string) (dao.Event, error)
}

type EventRepository struct {
	dao EventDAO
}

func NewEventRepository(dao EventDAO) *EventRepository {
	return &EventRepository{
		dao: dao,
	}
}

func (r *EventRepository) Create(ctx context.Context, event domain.Event) (domain.Event, error) {
	created, err := r.dao.Insert(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return r.daoToDomain(created), nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (domain.Event, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return r.daoToDomain(found), nil
}

func (r *EventRepository) FindAll(ctx context.Context, filter domain.EventFilter) ([]domain.Event, error) {
	found, err := r.dao.FindAll(ctx, dao.EventFilter{
		Status:      string(filter.Status),
		Category:    filter.Category,
		OrganizerID: filter.OrganizerID,
	})
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindAll -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) FindPublishedStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	found, err := r.dao.FindPublishedStartingBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindPublishedStartingBetween -> %w", err)
	}

	return r.daosToDomain(found), nil
}

func (r *EventRepository) Update(ctx context.Context, event domain.Event) (domain.Event, error) {
	updated, err := r.dao.Update(ctx, r.domainToDao(event))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Update -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	if err := r.dao.Delete(ctx, id); err != nil {
		return fmt.Errorf("r.dao.Delete -> %w", err)
	}

	return nil
}

func (r *EventRepository) Publish(ctx context.Context, id string, at time.Time) (domain.Event, error) {
	published, err := r.dao.Publish(ctx, id, at)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Publish -> %w", err)
	}

	return r.daoToDomain(published), nil
}

func (r *EventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus) (domain.Event, error) {
	updated, err := r.dao.SetStatus(ctx, id, string(status))
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.SetStatus -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) IncrementViews(ctx context.Context, id string) (domain.Event, error) {
	updated, err := r.dao.Increment(ctx, id, "views")
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Increment -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) IncrementFavorites(ctx context.Context, id string) (domain.Event, error) {
	updated, err := r.dao.Increment(ctx, id, "favorites")
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.dao.Increment -> %w", err)
	}

	return r.daoToDomain(updated), nil
}

func (r *EventRepository) daosToDomain(events []dao.Event) []domain.Event {
	result := make([]domain.Event, len(events))
	for i := range events {
		result[i] = r.daoToDomain(events[i])
	}

	return result
}

func (r *EventRepository) domainToDao(e domain.Event) dao.Event {
	sessions := make([]dao.Session, len(e.Sessions))
	for i, s := range e.Sessions {
		sessions[i] = dao.Session{Title: s.Title, StartAt: s.StartAt, EndAt: s.EndAt}
	}

	return dao.Event{
		Model:            dao.Model{ID: e.ID, CreatedAt: e.CreatedAt},
		Title:            e.Title,
		ShortDescription: e.ShortDescription,
		LongDescription:  e.LongDescription,
		OrganizerID:      e.OrganizerID,
		VenueID:          e.VenueID,
		Status:           string(e.Status),
		Category:         e.Category,
		Tags:             datatypes.NewJSONType(e.Tags),
		Images:           datatypes.NewJSONType(e.Images),
		StartAt:          e.StartAt,
		EndAt:            e.EndAt,
		Timezone:         e.Timezone,
		Sessions:         datatypes.NewJSONType(sessions),
		Capacity:         e.Capacity,
		AgeLimit:         e.AgeLimit,
		AllowReentry:     e.AllowReentry,
		RefundsAllowed:   e.RefundsAllowed,
		PublishedAt:      e.PublishedAt,
		Views:            e.Views,
		Favorites:        e.Favorites,
	}
}

func (r *EventRepository) daoToDomain(e dao.Event) domain.Event {
	stored := e.Sessions.Data()
	sessions := make([]domain.Session, len(stored))
	for i, s := range stored {
		sessions[i] = domain.Session{Title: s.Title, StartAt: s.StartAt, EndAt: s.EndAt}
	}

	return domain.Event{
		ID:               e.ID,
		Title:            e.Title,
		ShortDescription: e.ShortDescription,
		LongDescription:  e.LongDescription,
		OrganizerID:      e.OrganizerID,
		VenueID:          e.VenueID,
		Status:           domain.EventStatus(e.Status),
		Category:         e.Category,
		Tags:             e.Tags.Data(),
		Images:           e.Images.Data(),
		StartAt:          e.StartAt,
		EndAt:            e.EndAt,
		Timezone:         e.Timezone,
		Sessions:         sessions,
		Capacity:         e.Capacity,
		AgeLimit:         e.AgeLimit,
		AllowReentry:     e.AllowReentry,
		RefundsAllowed:   e.RefundsAllowed,
		PublishedAt:      e.PublishedAt,
		Views:            e.Views,
		Favorites:        e.Favorites,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}
