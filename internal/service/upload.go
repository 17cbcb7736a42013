package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/storage"
)

// MaxUploadFiles is the most images accepted by one batch upload.
const MaxUploadFiles = 10

var (
	errNoFile       = BadRequest("No file provided")
	errNotImage     = BadRequest("Only image files are allowed")
	errFileTooLarge = BadRequest("File exceeds the maximum upload size")
	errTooManyFiles = BadRequest(fmt.Sprintf("You can upload at most %d files", MaxUploadFiles))
)

type ImageStore interface {
	SaveImage(ctx context.Context, r io.Reader) (storage.Image, error)
}

type MediaRepository interface {
	Create(ctx context.Context, m domain.Media) (domain.Media, error)
}

type UploadService struct {
	store ImageStore
	media MediaRepository
}

func NewUploadService(store ImageStore, media MediaRepository) *UploadService {
	return &UploadService{
		store: store,
		media: media,
	}
}

// Opener yields the content of one uploaded file.
type Opener func() (io.ReadCloser, error)

func (s *UploadService) UploadImage(ctx context.Context, ownerType string, ownerID *string, open Opener) (domain.Media, error) {
	if open == nil {
		return domain.Media{}, errNoFile
	}

	f, err := open()
	if err != nil {
		return domain.Media{}, fmt.Errorf("open -> %w", err)
	}
	defer f.Close()

	img, err := s.store.SaveImage(ctx, f)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNoFile):
			return domain.Media{}, errNoFile
		case errors.Is(err, storage.ErrUnsupportedType):
			return domain.Media{}, errNotImage
		case errors.Is(err, storage.ErrTooLarge):
			return domain.Media{}, errFileTooLarge
		}
		return domain.Media{}, fmt.Errorf("s.store.SaveImage -> %w", err)
	}

	m, err := s.media.Create(ctx, domain.Media{
		OwnerType: ownerType,
		OwnerID:   ownerID,
		URL:       img.URL,
		MimeType:  img.MimeType,
		Width:     img.Width,
		Height:    img.Height,
	})
	if err != nil {
		return domain.Media{}, fmt.Errorf("s.media.Create -> %w", err)
	}

	return m, nil
}

func (s *UploadService) UploadImages(ctx context.Context, ownerType string, ownerID *string, files []Opener) ([]domain.Media, error) {
	if len(files) == 0 {
		return nil, errNoFile
	}
	if len(files) > MaxUploadFiles {
		return nil, errTooManyFiles
	}

	uploaded := make([]domain.Media, 0, len(files))
	for _, open := range files {
		m, err := s.UploadImage(ctx, ownerType, ownerID, open)
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, m)
	}

	return uploaded, nil
}
