package http

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/google/uuid"

	"github.com/finpapers/finpapers/internal/platform/httpx"
	"github.com/finpapers/finpapers/internal/statement"
)

// StatementBuilder is the statement service surface the handlers consume.
type StatementBuilder interface {
	Build(ctx context.Context, filters statement.Filters) (statement.StatementPack, []string, error)
}

// Handler wires the HTTP layer for derived statement endpoints.
type Handler struct {
	logger    *slog.Logger
	service   StatementBuilder
	rateLimit func(http.Handler) http.Handler
}

// NewHandler constructs the handler instance. CSV exports share one rate
// limiter keyed by client address.
func NewHandler(logger *slog.Logger, service StatementBuilder) *Handler {
	limiter := httprate.Limit(10, time.Minute, httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			return "ip:" + r.RemoteAddr, nil
		}
		return "ip:" + host, nil
	}))
	return &Handler{
		logger:    logger,
		service:   service,
		rateLimit: limiter,
	}
}

// MountRoutes registers statement endpoints under a workpaper scope.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/workpapers/{workpaperID}/statements/balance-sheet", h.HandleBalanceSheet)
	r.Get("/workpapers/{workpaperID}/statements/income-statement", h.HandleIncomeStatement)
	r.Group(func(r chi.Router) {
		r.Use(h.rateLimit)
		r.Get("/workpapers/{workpaperID}/statements/balance-sheet/export.csv", h.HandleBalanceSheetCSV)
		r.Get("/workpapers/{workpaperID}/statements/income-statement/export.csv", h.HandleIncomeStatementCSV)
	})
}

// HandleBalanceSheet returns the derived balance sheet as JSON.
func (h *Handler) HandleBalanceSheet(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	cacheKey := buildCacheKey("bs", filters.WorkpaperID, filters.IncludeZeroItems, filters.Unclassified)
	if cached, ok := viewModelCache.Get(cacheKey); ok {
		if vm, ok := cached.(BalanceSheetVM); ok {
			recordCacheHit("bs")
			httpx.JSON(w, http.StatusOK, cloneBalanceSheetVM(vm))
			return
		}
	}
	result, err, _ := singleflightBuild(r.Context(), cacheKey, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		recordCacheMiss("bs")
		defer func(start time.Time) {
			observeVMBuildDuration("bs", time.Since(start))
		}(start)
		pack, warnings, err := h.service.Build(ctx, filters)
		if err != nil {
			return nil, err
		}
		vm := NewBalanceSheetVM(filters, pack.BalanceSheet, warnings)
		viewModelCache.Set(cacheKey, cloneBalanceSheetVM(vm))
		return vm, nil
	})
	if err != nil {
		h.logger.Error("build balance sheet", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	vm, ok := result.(BalanceSheetVM)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected view model type")
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

// HandleIncomeStatement returns the derived income statement as JSON.
func (h *Handler) HandleIncomeStatement(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	cacheKey := buildCacheKey("is", filters.WorkpaperID, filters.IncludeZeroItems, filters.Unclassified)
	if cached, ok := viewModelCache.Get(cacheKey); ok {
		if vm, ok := cached.(IncomeStatementVM); ok {
			recordCacheHit("is")
			httpx.JSON(w, http.StatusOK, cloneIncomeStatementVM(vm))
			return
		}
	}
	result, err, _ := singleflightBuild(r.Context(), cacheKey, func(ctx context.Context) (interface{}, error) {
		start := time.Now()
		recordCacheMiss("is")
		defer func(start time.Time) {
			observeVMBuildDuration("is", time.Since(start))
		}(start)
		pack, warnings, err := h.service.Build(ctx, filters)
		if err != nil {
			return nil, err
		}
		vm := NewIncomeStatementVM(filters, pack.IncomeStatement, warnings)
		viewModelCache.Set(cacheKey, cloneIncomeStatementVM(vm))
		return vm, nil
	})
	if err != nil {
		h.logger.Error("build income statement", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	vm, ok := result.(IncomeStatementVM)
	if !ok {
		httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "unexpected view model type")
		return
	}
	httpx.JSON(w, http.StatusOK, vm)
}

// HandleBalanceSheetCSV streams the balance sheet as CSV.
func (h *Handler) HandleBalanceSheetCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	pack, warnings, err := h.service.Build(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	vm := NewBalanceSheetVM(filters, pack.BalanceSheet, warnings)
	if len(vm.Warnings) > 0 {
		w.Header().Set("X-Statement-Warning", strings.Join(vm.Warnings, "; "))
	}
	filename := fmt.Sprintf("balance-sheet-%s.csv", filters.WorkpaperID)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := writeBalanceSheetCSV(w, vm); err != nil {
		h.logger.Error("stream balance sheet csv", slog.Any("error", err))
	}
}

// HandleIncomeStatementCSV streams the income statement as CSV.
func (h *Handler) HandleIncomeStatementCSV(w http.ResponseWriter, r *http.Request) {
	filters, err := h.parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	pack, warnings, err := h.service.Build(r.Context(), filters)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	vm := NewIncomeStatementVM(filters, pack.IncomeStatement, warnings)
	if len(vm.Warnings) > 0 {
		w.Header().Set("X-Statement-Warning", strings.Join(vm.Warnings, "; "))
	}
	filename := fmt.Sprintf("income-statement-%s.csv", filters.WorkpaperID)
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	if err := writeIncomeStatementCSV(w, vm); err != nil {
		h.logger.Error("stream income statement csv", slog.Any("error", err))
	}
}

func (h *Handler) parseFilters(r *http.Request) (statement.Filters, error) {
	workpaperID, err := uuid.Parse(chi.URLParam(r, "workpaperID"))
	if err != nil {
		return statement.Filters{}, fmt.Errorf("invalid workpaper id")
	}
	q := r.URL.Query()
	includeZero := false
	switch strings.ToLower(strings.TrimSpace(q.Get("zero_items"))) {
	case "", "off", "false", "0":
	case "on", "true", "1":
		includeZero = true
	default:
		return statement.Filters{}, fmt.Errorf("invalid zero_items value")
	}
	policy := statement.UnclassifiedQuarantine
	switch strings.ToUpper(strings.TrimSpace(q.Get("unclassified"))) {
	case "", string(statement.UnclassifiedQuarantine):
	case string(statement.UnclassifiedReject):
		policy = statement.UnclassifiedReject
	default:
		return statement.Filters{}, fmt.Errorf("invalid unclassified policy")
	}
	return statement.Filters{
		WorkpaperID:      workpaperID,
		IncludeZeroItems: includeZero,
		Unclassified:     policy,
	}, nil
}
