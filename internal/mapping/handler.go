package mapping

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/platform/httpx"
	"github.com/finpapers/finpapers/internal/shared"
)

// Handler wires the HTTP layer for mapping maintenance endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers mapping endpoints under a workpaper scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/workpapers/{workpaperID}/mappings", h.HandleList)
	r.Put("/workpapers/{workpaperID}/mappings", h.HandleUpsert)
	r.Delete("/workpapers/{workpaperID}/mappings/{mappingID}", h.HandleDelete)
}

type mappingPayload struct {
	ID           uuid.UUID `json:"id"`
	AccountCode  string    `json:"account_code"`
	AccountName  string    `json:"account_name"`
	Section      string    `json:"section"`
	Subsection   string    `json:"subsection"`
	Item         string    `json:"item"`
	Balance      float64   `json:"balance"`
	PriorBalance float64   `json:"prior_balance"`
}

type listResponse struct {
	Mappings   []mappingPayload  `json:"mappings"`
	Pagination shared.Pagination `json:"pagination"`
}

// HandleList returns mapped rows for a workpaper.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	workpaperID, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid workpaper id")
		return
	}
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	filters := ListFilters{
		WorkpaperID: workpaperID,
		Section:     q.Get("section"),
		Page:        page,
		PerPage:     perPage,
	}
	mappings, pagination, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list mappings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	payload := make([]mappingPayload, 0, len(mappings))
	for _, m := range mappings {
		payload = append(payload, mappingPayload{
			ID:           m.ID,
			AccountCode:  m.AccountCode,
			AccountName:  m.AccountName,
			Section:      m.Section,
			Subsection:   m.Subsection,
			Item:         m.Item,
			Balance:      m.Balance,
			PriorBalance: m.PriorBalance,
		})
	}
	httpx.JSON(w, http.StatusOK, listResponse{Mappings: payload, Pagination: pagination})
}

type upsertRequest struct {
	Rows []UpsertInput `json:"rows"`
}

// HandleUpsert creates or replaces mapping rows for a workpaper.
func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	workpaperID, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid workpaper id")
		return
	}
	var req upsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.service.Upsert(r.Context(), workpaperID, req.Rows); err != nil {
		h.logger.Warn("upsert mappings", slog.String("workpaper", workpaperID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete removes one mapping row.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	workpaperID, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid workpaper id")
		return
	}
	mappingID, err := uuid.Parse(chi.URLParam(r, "mappingID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid mapping id")
		return
	}
	if err := h.service.Delete(r.Context(), workpaperID, mappingID); err != nil {
		httpx.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
