package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"github.com/picstash/picstash-go/internal/model"
	"github.com/picstash/picstash-go/internal/repository"
)

// memUserStore is an in-memory UserStore enforcing the same uniqueness
// rules as the MySQL repository.
type memUserStore struct {
	nextID int64
	users  []*model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{nextID: 1}
}

func (s *memUserStore) Create(ctx context.Context, user *model.User) error {
	for _, u := range s.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
		if u.Username == user.Username {
			return repository.ErrDuplicateUsername
		}
	}

	user.ID = s.nextID
	s.nextID++
	user.IsActive = true
	user.DateJoined = time.Now().UTC()
	user.UpdatedAt = user.DateJoined

	clone := *user
	s.users = append(s.users, &clone)
	return nil
}

func (s *memUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	for _, u := range s.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (s *memUserStore) deactivate(id int64) {
	for _, u := range s.users {
		if u.ID == id {
			u.IsActive = false
		}
	}
}

// memImageStore is an in-memory ImageStore with the repository's
// owner-scoped lookups and newest-first ordering.
type memImageStore struct {
	nextID int64
	images []*model.Image
}

func newMemImageStore() *memImageStore {
	return &memImageStore{nextID: 1}
}

func (s *memImageStore) Create(ctx context.Context, img *model.Image) error {
	img.ID = s.nextID
	s.nextID++
	img.UploadedAt = time.Now().UTC()
	img.UpdatedAt = img.UploadedAt

	clone := *img
	s.images = append(s.images, &clone)
	return nil
}

func (s *memImageStore) GetByID(ctx context.Context, userID, imageID int64) (*model.Image, error) {
	for _, img := range s.images {
		if img.ID == imageID && img.UserID == userID {
			clone := *img
			return &clone, nil
		}
	}
	return nil, repository.ErrImageNotFound
}

func (s *memImageStore) ListByUser(ctx context.Context, userID int64) ([]model.Image, error) {
	var result []model.Image
	for i := len(s.images) - 1; i >= 0; i-- {
		if s.images[i].UserID == userID {
			result = append(result, *s.images[i])
		}
	}
	return result, nil
}

func (s *memImageStore) Delete(ctx context.Context, userID, imageID int64) error {
	for i, img := range s.images {
		if img.ID == imageID && img.UserID == userID {
			s.images = append(s.images[:i], s.images[i+1:]...)
			return nil
		}
	}
	return repository.ErrImageNotFound
}

func (s *memImageStore) count() int {
	return len(s.images)
}

// memObjectStorage is an in-memory ObjectStorage. failDelete simulates a
// backend outage on delete.
type memObjectStorage struct {
	objects    map[string][]byte
	failDelete bool
}

var errStorageDown = errors.New("object storage unavailable")

func newMemObjectStorage() *memObjectStorage {
	return &memObjectStorage{objects: make(map[string][]byte)}
}

func (s *memObjectStorage) Save(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	s.objects[key] = buf.Bytes()
	return key, nil
}

func (s *memObjectStorage) Delete(ctx context.Context, ref string) error {
	if s.failDelete {
		return errStorageDown
	}
	if _, ok := s.objects[ref]; !ok {
		return errStorageDown
	}
	delete(s.objects, ref)
	return nil
}

func (s *memObjectStorage) URL(ctx context.Context, ref string) (string, error) {
	return "https://objects.test/" + ref, nil
}
