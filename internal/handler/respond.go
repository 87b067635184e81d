package handler

import (
	"encoding/json"
	"net/http"
)

// Error kinds surfaced to clients alongside the human-readable message.
const (
	kindValidation         = "validation_error"
	kindPasswordMismatch   = "password_mismatch"
	kindDuplicateEmail     = "duplicate_email"
	kindDuplicateUsername  = "duplicate_username"
	kindInvalidCredentials = "invalid_credentials"
	kindInvalidToken       = "invalid_token"
	kindTokenExpired       = "token_expired"
	kindNotFound           = "not_found"
	kindMissingFile        = "missing_file"
	kindFileTooLarge       = "file_too_large"
	kindUnsupportedType    = "unsupported_type"
	kindServerError        = "server_error"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(kind, msg string) map[string]string {
	return map[string]string{"error": kind, "message": msg}
}
