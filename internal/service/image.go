package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/picstash/picstash-go/internal/model"
	"github.com/picstash/picstash-go/internal/repository"
	"github.com/picstash/picstash-go/internal/storage"
)

var (
	ErrFileMissing     = errors.New("image file is required")
	ErrFileTooLarge    = errors.New("image file too large, size should not exceed 10 MiB")
	ErrUnsupportedType = errors.New("unsupported file extension, allowed types: jpg, jpeg, png, gif, webp")
	ErrImageNotFound   = errors.New("image not found")
)

// MaxUploadSize caps the accepted image file size.
const MaxUploadSize = 10 << 20 // 10 MiB

var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// ImageStore is the persistence contract the image service depends on.
type ImageStore interface {
	Create(ctx context.Context, img *model.Image) error
	GetByID(ctx context.Context, userID, imageID int64) (*model.Image, error)
	ListByUser(ctx context.Context, userID int64) ([]model.Image, error)
	Delete(ctx context.Context, userID, imageID int64) error
}

// ImageService handles image upload, listing, retrieval, and deletion,
// always scoped to the authenticated owner.
type ImageService struct {
	images  ImageStore
	users   UserStore
	objects storage.ObjectStorage
}

// NewImageService creates a new ImageService.
func NewImageService(images ImageStore, users UserStore, objects storage.ObjectStorage) *ImageService {
	return &ImageService{
		images:  images,
		users:   users,
		objects: objects,
	}
}

// Upload validates and stores a new image for the given user. Bytes are
// written to object storage first; if the record insert then fails, the
// stored bytes are removed so no orphan is left behind.
func (s *ImageService) Upload(ctx context.Context, userID int64, file io.Reader, size int64, filename, title, description string) (model.ImageResponse, error) {
	if file == nil || filename == "" {
		return model.ImageResponse{}, ErrFileMissing
	}
	if size > MaxUploadSize {
		return model.ImageResponse{}, ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if !allowedExtensions[ext] {
		return model.ImageResponse{}, ErrUnsupportedType
	}

	contentType := mime.TypeByExtension("." + ext)
	key := storageKey(userID, filename)

	ref, err := s.objects.Save(ctx, key, file, size, contentType)
	if err != nil {
		return model.ImageResponse{}, err
	}

	img := &model.Image{
		UserID:       userID,
		StorageKey:   ref,
		OriginalName: filename,
		ContentType:  contentType,
		SizeBytes:    size,
		Title:        title,
		Description:  description,
	}

	if err := s.images.Create(ctx, img); err != nil {
		if delErr := s.objects.Delete(ctx, ref); delErr != nil {
			slog.Warn("failed to remove stored bytes after insert failure", "ref", ref, "error", delErr)
		}
		return model.ImageResponse{}, err
	}

	return s.toResponse(ctx, img)
}

// List returns all images owned by the user, most recently uploaded first.
func (s *ImageService) List(ctx context.Context, userID int64) ([]model.ImageResponse, error) {
	images, err := s.images.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owner := userToResponse(user)

	result := make([]model.ImageResponse, 0, len(images))
	for i := range images {
		resp, err := s.buildResponse(ctx, &images[i], owner)
		if err != nil {
			return nil, err
		}
		result = append(result, resp)
	}

	return result, nil
}

// Get retrieves a single image owned by the user. Images owned by someone
// else yield the same ErrImageNotFound as images that do not exist.
func (s *ImageService) Get(ctx context.Context, userID, imageID int64) (model.ImageResponse, error) {
	img, err := s.images.GetByID(ctx, userID, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return model.ImageResponse{}, ErrImageNotFound
		}
		return model.ImageResponse{}, err
	}

	return s.toResponse(ctx, img)
}

// Delete removes an image record and its stored bytes. The bytes go first:
// if object deletion fails the record stays put and the error propagates,
// so the two halves never silently diverge.
func (s *ImageService) Delete(ctx context.Context, userID, imageID int64) error {
	img, err := s.images.GetByID(ctx, userID, imageID)
	if err != nil {
		if errors.Is(err, repository.ErrImageNotFound) {
			return ErrImageNotFound
		}
		return err
	}

	if err := s.objects.Delete(ctx, img.StorageKey); err != nil {
		return fmt.Errorf("deleting stored bytes: %w", err)
	}

	err = s.images.Delete(ctx, userID, imageID)
	if errors.Is(err, repository.ErrImageNotFound) {
		// Row vanished between the read and the delete; the outcome the
		// caller asked for holds either way.
		return nil
	}
	return err
}

func (s *ImageService) toResponse(ctx context.Context, img *model.Image) (model.ImageResponse, error) {
	user, err := s.users.GetByID(ctx, img.UserID)
	if err != nil {
		return model.ImageResponse{}, err
	}
	return s.buildResponse(ctx, img, userToResponse(user))
}

func (s *ImageService) buildResponse(ctx context.Context, img *model.Image, owner model.UserResponse) (model.ImageResponse, error) {
	url, err := s.objects.URL(ctx, img.StorageKey)
	if err != nil {
		return model.ImageResponse{}, err
	}

	return model.ImageResponse{
		ID:          img.ID,
		User:        owner,
		Image:       img.StorageKey,
		ImageURL:    url,
		Title:       img.Title,
		Description: img.Description,
		UploadedAt:  img.UploadedAt,
		UpdatedAt:   img.UpdatedAt,
	}, nil
}

// storageKey builds a collision-resistant object key scoped under the
// owner: images/{userID}/{uuid}_{originalFilename}.
func storageKey(userID int64, filename string) string {
	return fmt.Sprintf("images/%d/%s_%s", userID, uuid.New(), path.Base(filename))
}
