package model

import "time"

// Image represents an uploaded image record in the database.
// The bytes themselves live in object storage under StorageKey.
type Image struct {
	ID           int64
	UserID       int64
	StorageKey   string
	OriginalName string
	ContentType  string
	SizeBytes    int64
	Title        string
	Description  string
	UploadedAt   time.Time
	UpdatedAt    time.Time
}

// ImageResponse represents an image in API responses, including its owner
// and a resolvable URL for the stored bytes.
type ImageResponse struct {
	ID          int64        `json:"id"`
	User        UserResponse `json:"user"`
	Image       string       `json:"image"`
	ImageURL    string       `json:"image_url"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	UploadedAt  time.Time    `json:"uploaded_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
