package editor

import (
	"context"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"portfolio/internal/apperr"
	"portfolio/internal/storage"
)

const DefaultMaxUploadBytes = 5 << 20

// File is an image selected for upload.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type Uploader struct {
	Store    storage.ObjectStore
	MaxBytes int64
	Now      func() time.Time
}

func NewUploader(store storage.ObjectStore, maxBytes int64) *Uploader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}
	return &Uploader{Store: store, MaxBytes: maxBytes, Now: time.Now}
}

// Validate checks size and type without touching storage. Both the declared
// type and the sniffed content must be images.
func (u *Uploader) Validate(f File) (string, error) {
	size := int64(len(f.Data))
	if size == 0 {
		return "", apperr.Validation("file is empty")
	}
	if size > u.MaxBytes {
		return "", apperr.Validation("image is %s; the limit is %s", humanize.IBytes(uint64(size)), humanize.IBytes(uint64(u.MaxBytes)))
	}
	declared := strings.TrimSpace(f.ContentType)
	if declared == "" {
		declared = storage.GuessContentType(f.Name, "")
	}
	if !strings.HasPrefix(strings.ToLower(declared), "image/") {
		return "", apperr.Validation("only image files are allowed (got %s)", declared)
	}
	sniffed := mimetype.Detect(f.Data)
	if !strings.HasPrefix(sniffed.String(), "image/") {
		return "", apperr.Validation("file content is not an image (detected %s)", sniffed.String())
	}
	return sniffed.String(), nil
}

// Upload stores f under <entity>/<unix-millis>-<name> and returns its public URL.
func (u *Uploader) Upload(ctx context.Context, entity string, f File) (string, error) {
	contentType, err := u.Validate(f)
	if err != nil {
		return "", err
	}
	objectPath := storage.UploadPath(entity, f.Name, u.Now())
	if err := u.Store.PutBytes(ctx, objectPath, f.Data, contentType); err != nil {
		return "", apperr.Store("upload image", err)
	}
	return u.Store.PublicURL(objectPath), nil
}

// attach uploads f and hands the URL to set only on success.
func attach(ctx context.Context, u *Uploader, entity string, f File, set func(string)) (string, error) {
	url, err := u.Upload(ctx, entity, f)
	if err != nil {
		return "", err
	}
	set(url)
	return url, nil
}
