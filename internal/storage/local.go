package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // registers the webp decoder used by imaging.Decode

	"github.com/ormeet/ormeet-api/internal/config"
)

var (
	ErrNoFile          = errors.New("No file provided")
	ErrUnsupportedType = errors.New("Only image files are allowed")
	ErrTooLarge        = errors.New("File exceeds the maximum upload size")
)

type output struct {
	format imaging.Format
	ext    string
	mime   string
}

// Accepted types and how they are stored. WebP is re-encoded as PNG since
// imaging has no WebP encoder.
var outputs = map[string]output{
	"image/jpeg": {imaging.JPEG, ".jpg", "image/jpeg"},
	"image/png":  {imaging.PNG, ".png", "image/png"},
	"image/gif":  {imaging.GIF, ".gif", "image/gif"},
	"image/webp": {imaging.PNG, ".png", "image/png"},
}

type Image struct {
	URL      string
	MimeType string
	Width    int
	Height   int
}

// Local stores images on the local disk. Files are served by the HTTP
// server under PublicURL.
type Local struct {
	dir       string
	publicURL string
	maxBytes  int64
	maxWidth  int
	maxHeight int
}

func NewLocal(conf *config.StorageConfig) (*Local, error) {
	if err := os.MkdirAll(conf.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("os.MkdirAll -> %w", err)
	}

	return &Local{
		dir:       conf.Dir,
		publicURL: strings.TrimRight(conf.PublicURL, "/"),
		maxBytes:  conf.MaxBytes,
		maxWidth:  conf.MaxWidth,
		maxHeight: conf.MaxHeight,
	}, nil
}

// SaveImage sniffs, downsizes to fit the configured bounds and stores r.
func (l *Local) SaveImage(ctx context.Context, r io.Reader) (Image, error) {
	data, err := io.ReadAll(io.LimitReader(r, l.maxBytes+1))
	if err != nil {
		return Image{}, fmt.Errorf("io.ReadAll -> %w", err)
	}
	if len(data) == 0 {
		return Image{}, ErrNoFile
	}
	if int64(len(data)) > l.maxBytes {
		return Image{}, ErrTooLarge
	}

	detected := mimetype.Detect(data)
	out, ok := outputs[detected.String()]
	if !ok {
		return Image{}, ErrUnsupportedType
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return Image{}, ErrUnsupportedType
	}

	bounds := img.Bounds()
	if bounds.Dx() > l.maxWidth || bounds.Dy() > l.maxHeight {
		img = imaging.Fit(img, l.maxWidth, l.maxHeight, imaging.Lanczos)
	}

	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	name := uuid.NewString() + out.ext
	f, err := os.Create(filepath.Join(l.dir, name))
	if err != nil {
		return Image{}, fmt.Errorf("os.Create -> %w", err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, out.format, imaging.JPEGQuality(85)); err != nil {
		return Image{}, fmt.Errorf("imaging.Encode -> %w", err)
	}

	return Image{
		URL:      l.publicURL + "/" + name,
		MimeType: out.mime,
		Width:    img.Bounds().Dx(),
		Height:   img.Bounds().Dy(),
	}, nil
}

func (l *Local) Dir() string {
	return l.dir
}
