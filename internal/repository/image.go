package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/picstash/picstash-go/internal/model"
)

var ErrImageNotFound = errors.New("image not found")

const imageColumns = `id, user_id, storage_key, original_name, content_type, size_bytes,
	title, description, uploaded_at, updated_at`

// ImageRepository handles image record persistence operations.
// Every read and delete is scoped to the owning user, so a row owned by
// someone else is indistinguishable from a row that does not exist.
type ImageRepository struct {
	db *sql.DB
}

// NewImageRepository creates a new ImageRepository.
func NewImageRepository(db *sql.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Create inserts a new image record and sets the generated ID and timestamps.
func (r *ImageRepository) Create(ctx context.Context, img *model.Image) error {
	query := `INSERT INTO images (user_id, storage_key, original_name, content_type, size_bytes, title, description)
		VALUES (?, ?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		img.UserID, img.StorageKey, img.OriginalName, img.ContentType,
		img.SizeBytes, img.Title, img.Description,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	img.ID = id

	// Read back the DB-generated timestamps.
	row := r.db.QueryRowContext(ctx, `SELECT uploaded_at, updated_at FROM images WHERE id = ?`, id)
	return row.Scan(&img.UploadedAt, &img.UpdatedAt)
}

// GetByID retrieves an image owned by the given user.
func (r *ImageRepository) GetByID(ctx context.Context, userID, imageID int64) (*model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE id = ? AND user_id = ?`

	img := &model.Image{}
	err := r.db.QueryRowContext(ctx, query, imageID, userID).Scan(
		&img.ID, &img.UserID, &img.StorageKey, &img.OriginalName, &img.ContentType,
		&img.SizeBytes, &img.Title, &img.Description, &img.UploadedAt, &img.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}

	return img, nil
}

// ListByUser retrieves all images owned by a user, most recently uploaded first.
func (r *ImageRepository) ListByUser(ctx context.Context, userID int64) ([]model.Image, error) {
	query := `SELECT ` + imageColumns + ` FROM images WHERE user_id = ? ORDER BY uploaded_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []model.Image
	for rows.Next() {
		var img model.Image
		if err := rows.Scan(
			&img.ID, &img.UserID, &img.StorageKey, &img.OriginalName, &img.ContentType,
			&img.SizeBytes, &img.Title, &img.Description, &img.UploadedAt, &img.UpdatedAt,
		); err != nil {
			return nil, err
		}
		images = append(images, img)
	}

	return images, rows.Err()
}

// Delete removes an image record owned by the given user.
func (r *ImageRepository) Delete(ctx context.Context, userID, imageID int64) error {
	query := `DELETE FROM images WHERE id = ? AND user_id = ?`

	result, err := r.db.ExecContext(ctx, query, imageID, userID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrImageNotFound
	}

	return nil
}
