package settings

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/priceslice/priceslice/internal/platform/httpx"
)

// Handler wires HTTP endpoints for stored preferences.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers settings routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleCreate)
	r.Get("/{profileID}", h.handleGet)
	r.Put("/{profileID}", h.handlePut)
}

type profileResponse struct {
	ProfileID   string      `json:"profileId"`
	Preferences Preferences `json:"preferences"`
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	profileID := NewProfileID()
	prefs, err := h.service.Put(r.Context(), profileID, Defaults())
	if err != nil {
		h.respondError(w, err, profileID)
		return
	}
	httpx.JSON(w, http.StatusCreated, profileResponse{ProfileID: profileID, Preferences: prefs})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	prefs, err := h.service.Get(r.Context(), profileID)
	if err != nil {
		h.respondError(w, err, profileID)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{ProfileID: profileID, Preferences: prefs})
}

func (h *Handler) handlePut(w http.ResponseWriter, r *http.Request) {
	profileID := chi.URLParam(r, "profileID")
	var prefs Preferences
	if err := httpx.DecodeJSON(r, &prefs); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed preferences body")
		return
	}
	saved, err := h.service.Put(r.Context(), profileID, prefs)
	if err != nil {
		h.respondError(w, err, profileID)
		return
	}
	httpx.JSON(w, http.StatusOK, profileResponse{ProfileID: profileID, Preferences: saved})
}

func (h *Handler) respondError(w http.ResponseWriter, err error, profileID string) {
	if errors.Is(err, ErrInvalid) {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	h.logger.Error("settings store", slog.Any("error", err), slog.String("profile", profileID))
	httpx.RespondError(w, err)
}
