package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore keeps catalog photos on Cloudinary.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(cloudName, apiKey, apiSecret string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryStore{cld: cld}, nil
}

func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder string, opts UploadOptions) (*Asset, error) {
	params := uploader.UploadParams{
		Folder:         folder,
		PublicID:       opts.PublicID,
		Overwrite:      api.Bool(true),
		Transformation: opts.Transformation,
	}
	resp, err := s.cld.Upload.Upload(ctx, file, params)
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	return &Asset{
		URL:       resp.SecureURL,
		PublicID:  resp.PublicID,
		Format:    resp.Format,
		Width:     resp.Width,
		Height:    resp.Height,
		Bytes:     resp.Bytes,
		CreatedAt: resp.CreatedAt,
	}, nil
}

func (s *CloudinaryStore) Destroy(ctx context.Context, publicID string) (bool, error) {
	if publicID == "" {
		return false, nil
	}
	resp, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return false, fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return false, errors.New(resp.Error.Message)
	}
	return resp.Result == "ok", nil
}

func (s *CloudinaryStore) List(ctx context.Context, folder string, max int) ([]Asset, error) {
	if max <= 0 {
		max = 100
	}
	resp, err := s.cld.Admin.Assets(ctx, admin.AssetsParams{
		Prefix:       folder,
		MaxResults:   max,
		DeliveryType: "upload",
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary list: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, errors.New(resp.Error.Message)
	}

	assets := make([]Asset, 0, len(resp.Assets))
	for _, a := range resp.Assets {
		assets = append(assets, Asset{
			URL:       a.SecureURL,
			PublicID:  a.PublicID,
			Format:    a.Format,
			Width:     a.Width,
			Height:    a.Height,
			Bytes:     a.Bytes,
			CreatedAt: a.CreatedAt,
		})
	}
	return assets, nil
}
