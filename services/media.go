package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

const photoTransformation = "c_fill,w_800,h_600/q_auto,f_auto"

type Asset struct {
	URL       string    `json:"url"`
	PublicID  string    `json:"public_id"`
	Format    string    `json:"format"`
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Bytes     int       `json:"bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type UploadOptions struct {
	PublicID       string
	Transformation string
}

// MediaStore hosts uploaded images.
type MediaStore interface {
	Upload(ctx context.Context, file io.Reader, folder string, opts UploadOptions) (*Asset, error)
	Destroy(ctx context.Context, publicID string) (bool, error)
	List(ctx context.Context, folder string, max int) ([]Asset, error)
}

// NoopMediaStore is used when no media host is configured. Uploads fail,
// deletes succeed trivially.
type NoopMediaStore struct{}

func (NoopMediaStore) Upload(context.Context, io.Reader, string, UploadOptions) (*Asset, error) {
	return nil, ErrMediaUnavailable
}

func (NoopMediaStore) Destroy(context.Context, string) (bool, error) { return false, nil }

func (NoopMediaStore) List(context.Context, string, int) ([]Asset, error) { return []Asset{}, nil }

// photoPublicID builds "<prefix>_<name_with_underscores>_<unix>".
func photoPublicID(prefix, name string, now time.Time) string {
	slug := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	return fmt.Sprintf("%s_%s_%d", prefix, slug, now.Unix())
}
