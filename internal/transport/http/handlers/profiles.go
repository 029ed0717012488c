package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/pribylovaa/profiles-service/internal/errors"
	"github.com/pribylovaa/profiles-service/internal/service"
)

// ListUsers — GET /api/users: JSON-массив всех профилей.
func (h *Handlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.svc.Profiles(r.Context())
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profiles)
}

// GetUser — GET /api/users/{id}: один профиль или 404.
func (h *Handlers) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		apierrors.WriteError(w, r, service.ErrInvalidArgument)
		return
	}

	profile, err := h.svc.ProfileByID(r.Context(), id)
	if err != nil {
		apierrors.WriteError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// DBInfo — GET /api/db_info: тип и статус привязанного бэкенда.
func (h *Handlers) DBInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.DatabaseInfo())
}
