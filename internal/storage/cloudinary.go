package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStorage stores objects in a Cloudinary media library folder.
// The stored reference is the Cloudinary public ID.
type CloudinaryStorage struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryStorage creates a CloudinaryStorage from account credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret, folder string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &CloudinaryStorage{
		cld:    cld,
		folder: folder,
	}, nil
}

func (s *CloudinaryStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	// Cloudinary derives the format itself, so the extension is dropped
	// from the public ID.
	publicID := strings.TrimSuffix(key, path.Ext(key))

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:       s.folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}

	return result.PublicID, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, ref string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     ref,
		ResourceType: "image",
	})
	return err
}

func (s *CloudinaryStorage) URL(ctx context.Context, ref string) (string, error) {
	img, err := s.cld.Image(ref)
	if err != nil {
		return "", err
	}
	return img.String()
}
