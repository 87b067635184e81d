package model

import "time"

// User represents a user account in the database.
type User struct {
	ID           int64
	Email        string
	Username     string
	PasswordHash string
	IsActive     bool
	DateJoined   time.Time
	UpdatedAt    time.Time
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents an access-token refresh request.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// TokenPair bundles a short-lived access token and a longer-lived refresh token.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AccessTokenResponse carries a freshly minted access token.
type AccessTokenResponse struct {
	Access string `json:"access"`
}

// UserResponse represents user data safe for API responses (no sensitive fields).
type UserResponse struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	DateJoined time.Time `json:"date_joined"`
}

// SignupResponse represents a successful registration: the created user plus tokens.
type SignupResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}
