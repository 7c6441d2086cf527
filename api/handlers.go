/*
handlers.go - HTTP API handlers for the finance tracker

PURPOSE:
  Exposes records, settings, the financial summary and loan analysis via REST
  API. Handles HTTP request/response, JSON serialization, and delegates to
  the planner and engine.

ENDPOINTS:
  Records (same shape for assets, accounts, incomes, expenses, loans):
    GET    /api/{kind}                 List records in insertion order
    POST   /api/{kind}                 Create record (ID generated if empty)
    GET    /api/{kind}/{id}            Get record
    PUT    /api/{kind}/{id}            Replace record
    DELETE /api/{kind}/{id}            Delete record

  Loans:
    GET    /api/loans/{id}/schedule    Amortization schedule
    GET    /api/loans/{id}/prepayment?amount=  Prepayment impact

  Planning:
    GET    /api/settings               Projection assumptions
    PUT    /api/settings               Replace assumptions
    GET    /api/summary?years=         Dashboard summary + projection
    GET    /api/snapshots?limit=       Net worth history, newest first
    POST   /api/snapshots              Record net worth now

  Household:
    GET    /api/household              Export everything as YAML
    POST   /api/household?reset=true   Import a YAML/JSON household

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Record persistence
  - Planner: Store-backed calculations
  - Logger: Structured logging of failures

  Record CRUD is implemented once by the generic resource type and mounted
  per kind in server.go.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Duplicate ID
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - calculators.go: Stateless engine endpoints
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/finance-tracker/factory"
	"github.com/warp/finance-tracker/finance"
	"go.uber.org/zap"
)

// maxBodyBytes bounds request bodies, including household imports.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   finance.Store
	Planner *finance.Planner
	Logger  *zap.Logger

	// Track currently loaded scenario
	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler with the given store.
func NewHandler(store finance.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:   store,
		Planner: finance.NewPlanner(store),
		Logger:  logger,
	}
}

func (h *Handler) setCurrentScenario(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.currentScenario = id
}

func (h *Handler) getCurrentScenario() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.currentScenario
}

// =============================================================================
// GENERIC RECORD HANDLERS
// =============================================================================

// resource serves CRUD for one record kind.
type resource[T finance.Record, D recordDTO] struct {
	h       *Handler
	repo    finance.Repository[T]
	toDTO   func(T) D
	fromDTO func(id string, d D) T

	// add and update default to finance.Add / finance.Update.
	add    func(ctx context.Context, rec T) (T, error)
	update func(ctx context.Context, rec T) (T, error)
}

func newResource[T finance.Record, D recordDTO](
	h *Handler,
	repo finance.Repository[T],
	toDTO func(T) D,
	fromDTO func(string, D) T,
) *resource[T, D] {
	return &resource[T, D]{
		h:       h,
		repo:    repo,
		toDTO:   toDTO,
		fromDTO: fromDTO,
		add: func(ctx context.Context, rec T) (T, error) {
			return rec, finance.Add(ctx, repo, rec)
		},
		update: func(ctx context.Context, rec T) (T, error) {
			return rec, finance.Update(ctx, repo, rec)
		},
	}
}

func (res *resource[T, D]) mount(r chi.Router) {
	r.Get("/", res.list)
	r.Post("/", res.create)
	r.Get("/{id}", res.get)
	r.Put("/{id}", res.replace)
	r.Delete("/{id}", res.remove)
}

func (res *resource[T, D]) list(w http.ResponseWriter, r *http.Request) {
	records, err := res.repo.GetAll(r.Context())
	if err != nil {
		res.h.writeStoreError(w, r, err, "Failed to list records")
		return
	}

	dtos := make([]D, len(records))
	for i, rec := range records {
		dtos[i] = res.toDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

func (res *resource[T, D]) get(w http.ResponseWriter, r *http.Request) {
	rec, err := res.repo.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		res.h.writeStoreError(w, r, err, "Failed to get record")
		return
	}
	writeJSON(w, http.StatusOK, res.toDTO(rec))
}

func (res *resource[T, D]) create(w http.ResponseWriter, r *http.Request) {
	var dto D
	if !decodeJSON(w, r, &dto) {
		return
	}

	id := dto.recordID()
	if id == "" {
		id = finance.NewID()
	}
	saved, err := res.add(r.Context(), res.fromDTO(id, dto))
	if err != nil {
		res.h.writeStoreError(w, r, err, "Failed to create record")
		return
	}
	writeJSON(w, http.StatusCreated, res.toDTO(saved))
}

func (res *resource[T, D]) replace(w http.ResponseWriter, r *http.Request) {
	var dto D
	if !decodeJSON(w, r, &dto) {
		return
	}

	id := chi.URLParam(r, "id")
	if bodyID := dto.recordID(); bodyID != "" && bodyID != id {
		writeError(w, http.StatusBadRequest, "ID in body does not match URL", nil)
		return
	}
	saved, err := res.update(r.Context(), res.fromDTO(id, dto))
	if err != nil {
		res.h.writeStoreError(w, r, err, "Failed to update record")
		return
	}
	writeJSON(w, http.StatusOK, res.toDTO(saved))
}

func (res *resource[T, D]) remove(w http.ResponseWriter, r *http.Request) {
	if err := res.repo.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		res.h.writeStoreError(w, r, err, "Failed to delete record")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// LOAN ENDPOINTS
// =============================================================================

// GetLoanSchedule returns the amortization schedule of a stored loan.
// GET /api/loans/{id}/schedule
func (h *Handler) GetLoanSchedule(w http.ResponseWriter, r *http.Request) {
	sched, err := h.Planner.LoanSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to build schedule")
		return
	}

	loan := toLoanDTO(sched.Loan)
	dto := toScheduleDTO(sched.EMI, sched.Rows, sched.Totals)
	dto.Loan = &loan
	writeJSON(w, http.StatusOK, dto)
}

// GetLoanPrepayment analyzes a lump-sum prepayment against a stored loan.
// GET /api/loans/{id}/prepayment?amount=200000
func (h *Handler) GetLoanPrepayment(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("amount")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "amount is required", nil)
		return
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount", err)
		return
	}

	impact, err := h.Planner.LoanPrepayment(r.Context(), chi.URLParam(r, "id"), amount)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to analyze prepayment")
		return
	}
	writeJSON(w, http.StatusOK, toPrepaymentDTO(impact))
}

// =============================================================================
// SETTINGS & SUMMARY
// =============================================================================

// GetSettings returns the projection assumptions.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Store.Settings().Get(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to load settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// UpdateSettings replaces the projection assumptions.
// PUT /api/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var dto SettingsDTO
	if !decodeJSON(w, r, &dto) {
		return
	}

	s := fromSettingsDTO(dto)
	if err := h.Planner.SaveSettings(r.Context(), s); err != nil {
		h.writeStoreError(w, r, err, "Failed to save settings")
		return
	}
	writeJSON(w, http.StatusOK, toSettingsDTO(s))
}

// GetSummary returns totals, savings and the wealth projection.
// GET /api/summary?years=10
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	years, err := queryInt(r, "years", 0)
	if err != nil || years < 0 || years > finance.MaxProjectionYear {
		writeError(w, http.StatusBadRequest, "years must be between 0 and 100", err)
		return
	}

	s, err := h.Planner.Summary(r.Context(), years)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to build summary")
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(s))
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// ListSnapshots returns recorded net worth, newest first.
// GET /api/snapshots?limit=30
func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		writeError(w, http.StatusBadRequest, "Invalid limit", err)
		return
	}

	snaps, err := h.Store.Snapshots().List(r.Context(), limit)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to list snapshots")
		return
	}

	dtos := make([]SnapshotDTO, len(snaps))
	for i, s := range snaps {
		dtos[i] = toSnapshotDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSnapshot records the current net worth.
// POST /api/snapshots
func (h *Handler) CreateSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Planner.Snapshot(r.Context())
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to record snapshot")
		return
	}
	writeJSON(w, http.StatusCreated, toSnapshotDTO(snap))
}

// =============================================================================
// HOUSEHOLD IMPORT / EXPORT
// =============================================================================

// ExportHousehold returns every record and the settings as YAML.
// GET /api/household
func (h *Handler) ExportHousehold(w http.ResponseWriter, r *http.Request) {
	hh, err := factory.ExportHousehold(r.Context(), h.Planner)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to export household")
		return
	}
	data, err := hh.Marshal()
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to encode household")
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// ImportHousehold loads a YAML or JSON household. With reset=true the store
// is cleared first.
// POST /api/household?reset=true
func (h *Handler) ImportHousehold(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	hh, err := factory.ParseHousehold(data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid household", err)
		return
	}

	ctx := r.Context()
	if r.URL.Query().Get("reset") == "true" {
		if err := h.Store.Reset(ctx); err != nil {
			h.writeStoreError(w, r, err, "Failed to reset store")
			return
		}
		h.setCurrentScenario("")
	}
	if err := factory.LoadHousehold(ctx, h.Planner, hh); err != nil {
		h.writeStoreError(w, r, err, "Failed to import household")
		return
	}

	s, err := h.Planner.Summary(ctx, 0)
	if err != nil {
		h.writeStoreError(w, r, err, "Failed to build summary")
		return
	}
	writeJSON(w, http.StatusCreated, toSummaryDTO(s))
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps finance errors to HTTP status codes. Only unexpected
// failures are logged.
func (h *Handler) writeStoreError(w http.ResponseWriter, r *http.Request, err error, message string) {
	switch {
	case finance.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Validation failed", err)
	case finance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case finance.IsConflict(err):
		writeError(w, http.StatusConflict, "Duplicate ID", err)
	default:
		h.Logger.Error(message,
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

// decodeJSON reads a JSON body into v. On failure it writes a 400 and
// returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}

func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return v, nil
}
