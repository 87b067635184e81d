package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/picstash/picstash-go/internal/crypto"
	"github.com/picstash/picstash-go/internal/model"
	"github.com/picstash/picstash-go/internal/service"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{service: svc}
}

// HandleSignup handles POST /api/auth/signup/ requests.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, "invalid request body"))
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordMismatch):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindPasswordMismatch, err.Error()))
		case errors.Is(err, service.ErrEmailRequired),
			errors.Is(err, service.ErrUsernameRequired),
			errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, err.Error()))
		case errors.Is(err, service.ErrEmailTaken):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindDuplicateEmail, err.Error()))
		case errors.Is(err, service.ErrUsernameTaken):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindDuplicateUsername, err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleLogin handles POST /api/auth/login/ requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, "invalid request body"))
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailRequired), errors.Is(err, service.ErrPasswordRequired):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, err.Error()))
		case errors.Is(err, service.ErrInvalidCredentials):
			writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidCredentials, err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleRefresh handles POST /api/auth/refresh/ requests.
func (h *AuthHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB

	var req model.RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, "invalid request body"))
		return
	}
	if req.Refresh == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, "refresh token is required"))
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.Refresh)
	if err != nil {
		switch {
		case errors.Is(err, crypto.ErrTokenExpired):
			writeJSON(w, http.StatusUnauthorized, errorResponse(kindTokenExpired, err.Error()))
		case errors.Is(err, crypto.ErrInvalidToken):
			writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidToken, err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
