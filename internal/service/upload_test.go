package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ormeet/ormeet-api/internal/domain"
	"github.com/ormeet/ormeet-api/internal/storage"
)

type fakeImageStore struct {
	saved int
}

func (f *fakeImageStore) SaveImage(_ context.Context, r io.Reader) (storage.Image, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return storage.Image{}, err
	}

	switch string(body) {
	case "":
		return storage.Image{}, storage.ErrNoFile
	case "text":
		return storage.Image{}, storage.ErrUnsupportedType
	case "huge":
		return storage.Image{}, storage.ErrTooLarge
	}
	f.saved++
	return storage.Image{URL: "/media/" + string(body) + ".png", MimeType: "image/png", Width: 4, Height: 3}, nil
}

type memMedia struct {
	rows []domain.Media
}

func (m *memMedia) Create(_ context.Context, media domain.Media) (domain.Media, error) {
	media.ID = "media-" + media.URL
	m.rows = append(m.rows, media)
	return media, nil
}

func fileWith(content string) Opener {
	return func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(content)), nil
	}
}

func TestUploadService_UploadImage(t *testing.T) {
	store, media := &fakeImageStore{}, &memMedia{}
	svc := NewUploadService(store, media)
	eventID := "event-1"

	m, err := svc.UploadImage(context.Background(), "event", &eventID, fileWith("poster"))
	require.NoError(t, err)
	assert.Equal(t, "/media/poster.png", m.URL)
	assert.Equal(t, "event", m.OwnerType)
	assert.Equal(t, &eventID, m.OwnerID)
	assert.Equal(t, 4, m.Width)

	tests := []struct {
		name string
		open Opener
		want error
	}{
		{name: "no file", open: nil, want: errNoFile},
		{name: "empty", open: fileWith(""), want: errNoFile},
		{name: "not an image", open: fileWith("text"), want: errNotImage},
		{name: "too large", open: fileWith("huge"), want: errFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(context.Background(), "general", nil, tt.open)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err = svc.UploadImage(context.Background(), "general", nil, func() (io.ReadCloser, error) {
		return nil, errors.New("disk gone")
	})
	assert.ErrorContains(t, err, "disk gone")

	assert.Len(t, media.rows, 1)
}

func TestUploadService_UploadImages(t *testing.T) {
	store, media := &fakeImageStore{}, &memMedia{}
	svc := NewUploadService(store, media)

	uploaded, err := svc.UploadImages(context.Background(), "venue", nil, []Opener{fileWith("a"), fileWith("b")})
	require.NoError(t, err)
	assert.Len(t, uploaded, 2)

	_, err = svc.UploadImages(context.Background(), "venue", nil, nil)
	assert.ErrorIs(t, err, errNoFile)

	tooMany := make([]Opener, MaxUploadFiles+1)
	for i := range tooMany {
		tooMany[i] = fileWith("x")
	}
	_, err = svc.UploadImages(context.Background(), "venue", nil, tooMany)
	assert.ErrorIs(t, err, errTooManyFiles)
	assert.Equal(t, 2, store.saved)
}
