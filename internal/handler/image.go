package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/picstash/picstash-go/internal/middleware"
	"github.com/picstash/picstash-go/internal/service"
)

// uploadBodyLimit leaves headroom above the file cap for the multipart
// framing and the metadata fields.
const uploadBodyLimit = service.MaxUploadSize + 1<<20

// ImageHandler handles HTTP requests for image operations.
type ImageHandler struct {
	service *service.ImageService
}

// NewImageHandler creates a new ImageHandler.
func NewImageHandler(svc *service.ImageService) *ImageHandler {
	return &ImageHandler{service: svc}
}

// HandleUpload handles POST /api/images/upload/ requests (multipart form
// with an "image" part plus optional title and description fields).
func (h *ImageHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidToken, "unauthorized"))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, uploadBodyLimit)
	if err := r.ParseMultipartForm(service.MaxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeJSON(w, http.StatusBadRequest, errorResponse(kindFileTooLarge, service.ErrFileTooLarge.Error()))
			return
		}
		writeJSON(w, http.StatusBadRequest, errorResponse(kindValidation, "invalid multipart form"))
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse(kindMissingFile, service.ErrFileMissing.Error()))
		return
	}
	defer file.Close()

	resp, err := h.service.Upload(r.Context(), userID, file, header.Size, header.Filename,
		r.FormValue("title"), r.FormValue("description"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileMissing):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindMissingFile, err.Error()))
		case errors.Is(err, service.ErrFileTooLarge):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindFileTooLarge, err.Error()))
		case errors.Is(err, service.ErrUnsupportedType):
			writeJSON(w, http.StatusBadRequest, errorResponse(kindUnsupportedType, err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleList handles GET /api/images/ requests.
func (h *ImageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidToken, "unauthorized"))
		return
	}

	resp, err := h.service.List(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleGet handles GET /api/images/{id}/ requests.
func (h *ImageHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidToken, "unauthorized"))
		return
	}

	imageID, err := imageIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse(kindNotFound, service.ErrImageNotFound.Error()))
		return
	}

	resp, err := h.service.Get(r.Context(), userID, imageID)
	if err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(kindNotFound, err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/images/{id}/delete/ requests.
func (h *ImageHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse(kindInvalidToken, "unauthorized"))
		return
	}

	imageID, err := imageIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusNotFound, errorResponse(kindNotFound, service.ErrImageNotFound.Error()))
		return
	}

	if err := h.service.Delete(r.Context(), userID, imageID); err != nil {
		if errors.Is(err, service.ErrImageNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(kindNotFound, err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse(kindServerError, "internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func imageIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
