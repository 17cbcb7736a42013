package repository

import (
	"context"
	"fmt"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/repository/dao"
)

type MediaDAO interface {
	Insert(ctx context.Context, m dao.Media) (dao.Media, error)
}

type MediaRepository struct {
	dao MediaDAO
}

func NewMediaRepository(dao MediaDAO) *MediaRepository {
	return &MediaRepository{
		dao: dao,
	}
}

func (r *MediaRepository) Create(ctx context.Context, m domain.Media) (domain.Media, error) {
	created, err := r.dao.Insert(ctx, dao.Media{
		OwnerType: m.OwnerType,
		OwnerID:   m.OwnerID,
		URL:       m.URL,
		MimeType:  m.MimeType,
		Width:     m.Width,
		Height:    m.Height,
	})
	if err != nil {
		return domain.Media{}, fmt.Errorf("r.dao.Insert -> %w", err)
	}

	return domain.Media{
		ID:        created.ID,
		OwnerType: created.OwnerType,
		OwnerID:   created.OwnerID,
		URL:       created.URL,
		MimeType:  created.MimeType,
		Width:     created.Width,
		Height:    created.Height,
		CreatedAt: created.CreatedAt,
	}, nil
}
