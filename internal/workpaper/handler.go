package workpaper

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/platform/httpx"
	"github.com/finpapers/finpapers/internal/shared"
)

// Handler wires the HTTP layer for workpaper registry endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers workpaper endpoints.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/workpapers", h.HandleList)
	r.Post("/workpapers", h.HandleCreate)
	r.Get("/workpapers/{workpaperID}", h.HandleGet)
	r.Post("/workpapers/{workpaperID}/status", h.HandleTransition)
}

type workpaperPayload struct {
	ID          uuid.UUID  `json:"id"`
	ClientName  string     `json:"client_name"`
	FiscalYear  int        `json:"fiscal_year"`
	Status      string     `json:"status"`
	FinalisedAt *time.Time `json:"finalised_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func toPayload(wp Workpaper) workpaperPayload {
	return workpaperPayload{
		ID:          wp.ID,
		ClientName:  wp.ClientName,
		FiscalYear:  wp.FiscalYear,
		Status:      wp.Status,
		FinalisedAt: wp.FinalisedAt,
		CreatedAt:   wp.CreatedAt,
		UpdatedAt:   wp.UpdatedAt,
	}
}

type listResponse struct {
	Workpapers []workpaperPayload `json:"workpapers"`
	Pagination shared.Pagination  `json:"pagination"`
}

// HandleList returns workpapers, optionally filtered by status.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	filters := ListFilters{
		Status:  q.Get("status"),
		Page:    page,
		PerPage: perPage,
	}
	papers, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list workpapers", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]workpaperPayload, 0, len(papers))
	for _, wp := range papers {
		payload = append(payload, toPayload(wp))
	}
	httpx.JSON(w, http.StatusOK, listResponse{Workpapers: payload, Pagination: pagination})
}

// HandleCreate opens a new workpaper.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	wp, err := h.service.Create(r.Context(), in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, toPayload(wp))
}

// HandleGet fetches a single workpaper.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid workpaper id")
		return
	}
	wp, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(wp))
}

// HandleTransition changes workpaper status.
func (h *Handler) HandleTransition(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid workpaper id")
		return
	}
	var in TransitionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	wp, err := h.service.Transition(r.Context(), id, in)
	if err != nil {
		if errors.Is(err, ErrNotBalanced) {
			httpx.Problem(w, http.StatusConflict, "Not Balanced", err.Error())
			return
		}
		h.logger.Warn("workpaper transition", slog.String("workpaper", id.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, toPayload(wp))
}
