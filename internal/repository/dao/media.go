package dao

import (
	"context"

	"gorm.io/gorm"
)

type Media struct {
	Model

	OwnerType string  `gorm:"type:varchar(32);not null;index:idx_media_owner"`
	OwnerID   *string `gorm:"type:uuid;index:idx_media_owner"`
	URL       string  `gorm:"not null"`
	MimeType  string  `gorm:"not null"`
	Width     int
	Height    int
}

func (Media) TableName() string {
	return "media"
}

type MediaDAO struct {
	db *gorm.DB
}

func NewMediaDAO(db *gorm.DB) *MediaDAO {
	return &MediaDAO{
		db: db,
	}
}

func (d *MediaDAO) Insert(ctx context.Context, m Media) (Media, error) {
	if err := d.db.WithContext(ctx).Create(&m).Error; err != nil {
		return Media{}, err
	}

	return m, nil
}
