package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/picstash/picstash-go/internal/model"
)

type imageTestEnv struct {
	svc     *ImageService
	images  *memImageStore
	objects *memObjectStorage
	userA   int64
	userB   int64
}

func newImageTestEnv(t *testing.T) *imageTestEnv {
	t.Helper()

	users := newMemUserStore()
	auth := newTestAuthService(users)

	a, err := auth.Register(context.Background(), validSignup())
	if err != nil {
		t.Fatalf("Register(a) unexpected error: %v", err)
	}
	b, err := auth.Register(context.Background(), model.SignupRequest{
		Email:     "b@x.com",
		Username:  "b",
		Password:  "P2",
		Password2: "P2",
	})
	if err != nil {
		t.Fatalf("Register(b) unexpected error: %v", err)
	}

	images := newMemImageStore()
	objects := newMemObjectStorage()

	return &imageTestEnv{
		svc:     NewImageService(images, users, objects),
		images:  images,
		objects: objects,
		userA:   a.User.ID,
		userB:   b.User.ID,
	}
}

func (e *imageTestEnv) upload(t *testing.T, userID int64, filename, title string) model.ImageResponse {
	t.Helper()

	data := []byte("fake image bytes")
	resp, err := e.svc.Upload(context.Background(), userID, bytes.NewReader(data), int64(len(data)), filename, title, "")
	if err != nil {
		t.Fatalf("Upload(%q) unexpected error: %v", filename, err)
	}
	return resp
}

func TestUpload_Success(t *testing.T) {
	env := newImageTestEnv(t)

	resp := env.upload(t, env.userA, "cat.JPG", "t")

	if resp.Title != "t" {
		t.Errorf("Title = %q, want %q", resp.Title, "t")
	}
	if resp.User.ID != env.userA {
		t.Errorf("owner = %d, want %d", resp.User.ID, env.userA)
	}
	if !strings.HasPrefix(resp.Image, "images/1/") {
		t.Errorf("storage key %q not scoped under owner namespace", resp.Image)
	}
	if !strings.HasSuffix(resp.Image, "_cat.JPG") {
		t.Errorf("storage key %q does not keep the original filename", resp.Image)
	}
	if resp.ImageURL == "" {
		t.Error("expected a non-empty image_url")
	}
	if _, ok := env.objects.objects[resp.Image]; !ok {
		t.Error("bytes not stored under the returned key")
	}
}

func TestUpload_FileTooLarge(t *testing.T) {
	env := newImageTestEnv(t)

	_, err := env.svc.Upload(context.Background(), env.userA, bytes.NewReader(nil), MaxUploadSize+1, "big.png", "", "")
	if err != ErrFileTooLarge {
		t.Errorf("expected ErrFileTooLarge, got %v", err)
	}
	if env.images.count() != 0 {
		t.Error("image row created despite oversized file")
	}
	if len(env.objects.objects) != 0 {
		t.Error("bytes stored despite oversized file")
	}
}

func TestUpload_UnsupportedType(t *testing.T) {
	env := newImageTestEnv(t)

	for _, name := range []string{"doc.pdf", "script.sh", "noext", "archive.tar.gz"} {
		_, err := env.svc.Upload(context.Background(), env.userA, bytes.NewReader([]byte("x")), 1, name, "", "")
		if err != ErrUnsupportedType {
			t.Errorf("Upload(%q): expected ErrUnsupportedType, got %v", name, err)
		}
	}
	if env.images.count() != 0 {
		t.Error("image row created despite unsupported type")
	}
}

func TestUpload_MissingFile(t *testing.T) {
	env := newImageTestEnv(t)

	if _, err := env.svc.Upload(context.Background(), env.userA, nil, 0, "", "", ""); err != ErrFileMissing {
		t.Errorf("expected ErrFileMissing, got %v", err)
	}
}

func TestUpload_InsertFailureRemovesBytes(t *testing.T) {
	env := newImageTestEnv(t)

	failing := &failingImageStore{}
	svc := NewImageService(failing, newMemUserStore(), env.objects)

	data := []byte("bytes")
	_, err := svc.Upload(context.Background(), 1, bytes.NewReader(data), int64(len(data)), "a.png", "", "")
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(env.objects.objects) != 0 {
		t.Error("stored bytes not cleaned up after insert failure")
	}
}

func TestList_OwnerScopedAndOrdered(t *testing.T) {
	env := newImageTestEnv(t)

	first := env.upload(t, env.userA, "first.png", "")
	second := env.upload(t, env.userA, "second.png", "")
	env.upload(t, env.userB, "other.png", "")

	list, err := env.svc.List(context.Background(), env.userA)
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}

	if len(list) != 2 {
		t.Fatalf("List() returned %d images, want 2", len(list))
	}
	if list[0].ID != second.ID || list[1].ID != first.ID {
		t.Errorf("List() order = [%d %d], want most recent first [%d %d]",
			list[0].ID, list[1].ID, second.ID, first.ID)
	}
	for _, img := range list {
		if img.User.ID != env.userA {
			t.Errorf("foreign image %d leaked into list", img.ID)
		}
	}
}

func TestGet_UniformNotFound(t *testing.T) {
	env := newImageTestEnv(t)

	owned := env.upload(t, env.userA, "mine.png", "")

	_, errForeign := env.svc.Get(context.Background(), env.userB, owned.ID)
	_, errAbsent := env.svc.Get(context.Background(), env.userB, 9999)

	if errForeign != ErrImageNotFound {
		t.Errorf("foreign image: expected ErrImageNotFound, got %v", errForeign)
	}
	if errAbsent != ErrImageNotFound {
		t.Errorf("absent image: expected ErrImageNotFound, got %v", errAbsent)
	}
	if errForeign != errAbsent {
		t.Error("foreign and absent images must be indistinguishable")
	}
}

func TestDelete_RemovesRecordAndBytes(t *testing.T) {
	env := newImageTestEnv(t)

	img := env.upload(t, env.userA, "gone.png", "")

	if err := env.svc.Delete(context.Background(), env.userA, img.ID); err != nil {
		t.Fatalf("Delete() unexpected error: %v", err)
	}

	if _, err := env.svc.Get(context.Background(), env.userA, img.ID); err != ErrImageNotFound {
		t.Errorf("record still retrievable after delete, err = %v", err)
	}
	if _, ok := env.objects.objects[img.Image]; ok {
		t.Error("stored bytes survive delete")
	}
}

func TestDelete_Idempotent(t *testing.T) {
	env := newImageTestEnv(t)

	img := env.upload(t, env.userA, "twice.png", "")

	if err := env.svc.Delete(context.Background(), env.userA, img.ID); err != nil {
		t.Fatalf("first Delete() unexpected error: %v", err)
	}
	if err := env.svc.Delete(context.Background(), env.userA, img.ID); err != ErrImageNotFound {
		t.Errorf("second Delete(): expected ErrImageNotFound, got %v", err)
	}
}

func TestDelete_ForeignImageNotFound(t *testing.T) {
	env := newImageTestEnv(t)

	img := env.upload(t, env.userA, "mine.png", "")

	if err := env.svc.Delete(context.Background(), env.userB, img.ID); err != ErrImageNotFound {
		t.Errorf("expected ErrImageNotFound for foreign delete, got %v", err)
	}
	if _, err := env.svc.Get(context.Background(), env.userA, img.ID); err != nil {
		t.Errorf("owner lost image after foreign delete attempt: %v", err)
	}
}

func TestDelete_ByteFailureKeepsRecord(t *testing.T) {
	env := newImageTestEnv(t)

	img := env.upload(t, env.userA, "stuck.png", "")
	env.objects.failDelete = true

	if err := env.svc.Delete(context.Background(), env.userA, img.ID); err == nil {
		t.Fatal("expected error when byte deletion fails")
	}
	if _, err := env.svc.Get(context.Background(), env.userA, img.ID); err != nil {
		t.Errorf("record removed although bytes were not: %v", err)
	}
}

// failingImageStore rejects every write.
type failingImageStore struct {
	memImageStore
}

func (s *failingImageStore) Create(ctx context.Context, img *model.Image) error {
	return errStorageDown
}
