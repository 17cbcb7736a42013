package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrReviewExists   = errors.New("review already exists")
)

type Review struct {
	Model

	EventID  string `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_event_user"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_reviews_event_user;index"`
	Rating   int    `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5"`
	Title    string
	Comment  string `gorm:"type:text"`
	Approved bool   `gorm:"not null;default:false"`
}

type ReviewFilter struct {
	EventID  string
	UserID   string
	Approved *bool
}

type ReviewDAO struct {
	db *gorm.DB
}

func NewReviewDAO(db *gorm.DB) *ReviewDAO {
	return &ReviewDAO{
		db: db,
	}
}

func (d *ReviewDAO) Insert(ctx context.Context, r Review) (Review, error) {
	if err := d.db.WithContext(ctx).Create(&r).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "idx_reviews_event_user" {
			return Review{}, ErrReviewExists
		}
		return Review{}, err
	}

	return r, nil
}

func (d *ReviewDAO) FindByID(ctx context.Context, id string) (Review, error) {
	var r Review

	result := d.db.WithContext(ctx).First(&r, "id = ?", id)
	if result.Error != nil {
		return Review{}, notFound(result.Error, ErrReviewNotFound)
	}

	return r, nil
}

func (d *ReviewDAO) FindByEventAndUser(ctx context.Context, eventID, userID string) (Review, error) {
	var r Review

	result := d.db.WithContext(ctx).First(&r, "event_id = ? AND user_id = ?", eventID, userID)
	if result.Error != nil {
		return Review{}, notFound(result.Error, ErrReviewNotFound)
	}

	return r, nil
}

func (d *ReviewDAO) FindAll(ctx context.Context, filter ReviewFilter) ([]Review, error) {
	var reviews []Review

	query := d.db.WithContext(ctx).Order("created_at DESC")
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Approved != nil {
		query = query.Where("approved = ?", *filter.Approved)
	}

	if err := query.Find(&reviews).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return reviews, nil
}

// AverageRating is the mean rating of approved reviews, 0 when there are none.
func (d *ReviewDAO) AverageRating(ctx context.Context, eventID string) (float64, error) {
	var row struct {
		Avg *float64
	}

	err := d.db.WithContext(ctx).Model(&Review{}).
		Select("AVG(rating)::float8 AS avg").
		Where("event_id = ? AND approved = ?", eventID, true).
		Scan(&row).Error
	if err != nil {
		if invalidUUID(err) {
			return 0, nil
		}
		return 0, err
	}
	if row.Avg == nil {
		return 0, nil
	}

	return *row.Avg, nil
}

func (d *ReviewDAO) Update(ctx context.Context, r Review) (Review, error) {
	result := d.db.WithContext(ctx).Model(&r).Select("Rating", "Title", "Comment").Updates(&r)
	if result.Error != nil {
		return Review{}, notFound(result.Error, ErrReviewNotFound)
	}
	if result.RowsAffected == 0 {
		return Review{}, ErrReviewNotFound
	}

	return d.FindByID(ctx, r.ID)
}

func (d *ReviewDAO) SetApproved(ctx context.Context, id string, approved bool) (Review, error) {
	result := d.db.WithContext(ctx).Model(&Review{}).Where("id = ?", id).Update("approved", approved)
	if result.Error != nil {
		return Review{}, notFound(result.Error, ErrReviewNotFound)
	}
	if result.RowsAffected == 0 {
		return Review{}, ErrReviewNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *ReviewDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Review{}, "id = ?", id)
	if result.Error != nil {
		return notFound(result.Error, ErrReviewNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrReviewNotFound
	}

	return nil
}
