package http

import (
	"encoding/json"
	"net/http"

	"storefront-be/internal/media"

	"github.com/go-chi/chi/v5"
)

type MediaHandler struct {
	media media.Service
}

func NewMediaHandler(m media.Service) *MediaHandler {
	return &MediaHandler{media: m}
}

type AuthorizeUploadDTO struct {
	Filename string `json:"filename"`
}

type CompleteUploadResponse struct {
	URL string `json:"url"`
}

func (h *MediaHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var dto AuthorizeUploadDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cred, err := h.media.Authorize(r.Context(), dto.Filename)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cred)
}

func (h *MediaHandler) Complete(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	url, err := h.media.Complete(r.Context(), token)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, CompleteUploadResponse{URL: url})
}
