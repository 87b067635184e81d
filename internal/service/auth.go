package service

import (
	"context"
	"errors"
	"time"

	"github.com/picstash/picstash-go/internal/crypto"
	"github.com/picstash/picstash-go/internal/model"
	"github.com/picstash/picstash-go/internal/repository"
)

var (
	ErrPasswordMismatch   = errors.New("password fields didn't match")
	ErrEmailRequired      = errors.New("email is required")
	ErrUsernameRequired   = errors.New("username is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore is the persistence contract the auth service depends on.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
}

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	users         UserStore
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, secret string, accessExpiry, refreshExpiry time.Duration) *AuthService {
	return &AuthService{
		users:         users,
		jwtSecret:     secret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// Register creates a new user account and returns it with a token pair.
// Validation runs in full before anything is written, so a failed signup
// leaves no partial state behind.
func (s *AuthService) Register(ctx context.Context, req model.SignupRequest) (model.SignupResponse, error) {
	if req.Password != req.Password2 {
		return model.SignupResponse{}, ErrPasswordMismatch
	}
	if req.Email == "" {
		return model.SignupResponse{}, ErrEmailRequired
	}
	if req.Username == "" {
		return model.SignupResponse{}, ErrUsernameRequired
	}
	if req.Password == "" {
		return model.SignupResponse{}, ErrPasswordRequired
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.SignupResponse{}, err
	}

	user := &model.User{
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateEmail):
			return model.SignupResponse{}, ErrEmailTaken
		case errors.Is(err, repository.ErrDuplicateUsername):
			return model.SignupResponse{}, ErrUsernameTaken
		}
		return model.SignupResponse{}, err
	}

	tokens, err := s.tokenPair(user.ID)
	if err != nil {
		return model.SignupResponse{}, err
	}

	return model.SignupResponse{
		User:   userToResponse(user),
		Tokens: tokens,
	}, nil
}

// Login authenticates a user and returns a token pair. Unknown email,
// wrong password, and deactivated accounts all produce the same
// ErrInvalidCredentials so responses never reveal which one it was.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.TokenPair, error) {
	if req.Email == "" {
		return model.TokenPair{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.TokenPair{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.TokenPair{}, ErrInvalidCredentials
		}
		return model.TokenPair{}, err
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.TokenPair{}, err
	}
	if !match || !user.IsActive {
		return model.TokenPair{}, ErrInvalidCredentials
	}

	return s.tokenPair(user.ID)
}

// Refresh validates a refresh token and mints a new access token for the
// same identity.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.AccessTokenResponse, error) {
	claims, err := crypto.ValidateToken(refreshToken, s.jwtSecret, crypto.TokenTypeRefresh)
	if err != nil {
		return model.AccessTokenResponse{}, err
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AccessTokenResponse{}, crypto.ErrInvalidToken
		}
		return model.AccessTokenResponse{}, err
	}
	if !user.IsActive {
		return model.AccessTokenResponse{}, crypto.ErrInvalidToken
	}

	access, err := crypto.GenerateToken(user.ID, crypto.TokenTypeAccess, s.jwtSecret, s.accessExpiry)
	if err != nil {
		return model.AccessTokenResponse{}, err
	}

	return model.AccessTokenResponse{Access: access}, nil
}

func (s *AuthService) tokenPair(userID int64) (model.TokenPair, error) {
	access, refresh, err := crypto.GenerateTokenPair(userID, s.jwtSecret, s.accessExpiry, s.refreshExpiry)
	if err != nil {
		return model.TokenPair{}, err
	}
	return model.TokenPair{Access: access, Refresh: refresh}, nil
}

func userToResponse(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		Username:   user.Username,
		DateJoined: user.DateJoined,
	}
}
