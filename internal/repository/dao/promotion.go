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
	ErrPromotionNotFound   = errors.New("promotion not found")
	ErrPromotionCodeExists = errors.New("promotion code already exists")
	ErrPromotionExhausted  = errors.New("promotion has reached maximum uses")
)

type Promotion struct {
	Model

	Code                   string          `gorm:"not null;unique"`
	EventID                *string         `gorm:"type:uuid;index"`
	Kind                   string          `gorm:"column:type;type:varchar(16);not null"`
	Value                  decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Description            string
	ValidFrom              time.Time `gorm:"not null"`
	ValidUntil             time.Time `gorm:"not null"`
	MaxUses                *int
	UsedCount              int  `gorm:"not null;default:0"`
	IsActive               bool `gorm:"not null;default:true"`
	AppliesToTicketTypeIDs datatypes.JSONType[[]string]
}

type PromotionFilter struct {
	EventID  string
	IsActive *bool
}

type PromotionDAO struct {
	db *gorm.DB
}

func NewPromotionDAO(db *gorm.DB) *PromotionDAO {
	return &PromotionDAO{
		db: db,
	}
}

func (d *PromotionDAO) Insert(ctx context.Context, p Promotion) (Promotion, error) {
	if err := d.db.WithContext(ctx).Create(&p).Error; err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == "uni_promotions_code" {
			return Promotion{}, ErrPromotionCodeExists
		}
		return Promotion{}, err
	}

	return p, nil
}

func (d *PromotionDAO) FindByID(ctx context.Context, id string) (Promotion, error) {
	var p Promotion

	result := d.db.WithContext(ctx).First(&p, "id = ?", id)
	if result.Error != nil {
		return Promotion{}, notFound(result.Error, ErrPromotionNotFound)
	}

	return p, nil
}

func (d *PromotionDAO) FindByCode(ctx context.Context, code string) (Promotion, error) {
	var p Promotion

	result := d.db.WithContext(ctx).First(&p, "code = ?", code)
	if result.Error != nil {
		return Promotion{}, notFound(result.Error, ErrPromotionNotFound)
	}

	return p, nil
}

func (d *PromotionDAO) FindAll(ctx context.Context, filter PromotionFilter) ([]Promotion, error) {
	var promotions []Promotion

	query := d.db.WithContext(ctx).Order("created_at DESC")
	if filter.EventID != "" {
		query = query.Where("event_id = ?", filter.EventID)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}

	if err := query.Find(&promotions).Error; err != nil {
		if invalidUUID(err) {
			return nil, nil
		}
		return nil, err
	}

	return promotions, nil
}

func (d *PromotionDAO) Update(ctx context.Context, p Promotion) (Promotion, error) {
	result := d.db.WithContext(ctx).Model(&p).
		Select("*").
		Omit("ID", "CreatedAt", "Code", "UsedCount").
		Updates(&p)
	if result.Error != nil {
		return Promotion{}, notFound(result.Error, ErrPromotionNotFound)
	}
	if result.RowsAffected == 0 {
		return Promotion{}, ErrPromotionNotFound
	}

	return d.FindByID(ctx, p.ID)
}

func (d *PromotionDAO) Deactivate(ctx context.Context, id string) (Promotion, error) {
	result := d.db.WithContext(ctx).Model(&Promotion{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return Promotion{}, notFound(result.Error, ErrPromotionNotFound)
	}
	if result.RowsAffected == 0 {
		return Promotion{}, ErrPromotionNotFound
	}

	return d.FindByID(ctx, id)
}

func (d *PromotionDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&Promotion{}, "id = ?", id)
	if result.Error != nil {
		return notFound(result.Error, ErrPromotionNotFound)
	}
	if result.RowsAffected == 0 {
		return ErrPromotionNotFound
	}

	return nil
}

func (d *PromotionDAO) IncrementUsage(ctx context.Context, id string) (Promotion, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return consumePromotion(tx, id)
	})
	if err != nil {
		return Promotion{}, err
	}

	return d.FindByID(ctx, id)
}

// consumePromotion takes one use of the promotion. The promotion is
// deactivated by the use that reaches max_uses; no use past the cap is taken.
func consumePromotion(tx *gorm.DB, id string) error {
	result := tx.Model(&Promotion{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", id).
		Updates(map[string]any{
			"used_count": gorm.Expr("used_count + 1"),
			"is_active":  gorm.Expr("CASE WHEN max_uses IS NOT NULL AND used_count + 1 >= max_uses THEN false ELSE is_active END"),
		})
	if result.Error != nil {
		return notFound(result.Error, ErrPromotionNotFound)
	}
	if result.RowsAffected == 0 {
		var p Promotion
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return notFound(err, ErrPromotionNotFound)
		}
		return ErrPromotionExhausted
	}

	return nil
}
