/*
handlers.go - HTTP API handlers for the grain marketing reports

PURPOSE:
  Exposes the calculation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to the engine.

ENDPOINTS:
  Reports:
    GET  /api/crop-years/current             Current crop year
    GET  /api/crop-years/{year}/sales        Sold/Contracted/Open per crop
    GET  /api/crop-years/{year}/monthly      Monthly delivery trend
    GET  /api/crop-years/{year}/bins         Bins grouped by crop
    GET  /api/crop-years/{year}/sales/export    CSV or Excel download
    GET  /api/crop-years/{year}/monthly/export  CSV or Excel download

  Records:
    GET  /api/contracts                      List (status/fill/commodity filters)
    GET  /api/contracts/{number}             One contract
    GET  /api/contracts/{number}/settlements Rows reconciled against it
    GET  /api/settlements                    List (settlement_id filter)
    GET  /api/settlements/ids                Distinct settlement documents
    GET  /api/commodities                    Normalized commodity list

  Admin:
    POST /api/mappings/invalidate            Drop the alias cache

ERROR HANDLING:
  Errors are returned as JSON: 400 for bad input, 404 for missing
  records, 500 for storage failures. The engine itself degrades missing
  data to defaults and never errors on it.

SECURITY NOTE:
  No authentication. The server fronts a single farm's local database.

SEE ALSO:
  - dto.go: Response data structures
  - export.go: CSV/Excel writers
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/harvestline/bushel-engine/grain"
)

// =============================================================================
// HANDLER
// =============================================================================

// Store is everything the handlers need from storage: the engine snapshot
// plus the record-browsing queries.
type Store interface {
	grain.ReadStore
	grain.BinStore

	ContractByNumber(ctx context.Context, number string) (*grain.Contract, error)
	SettlementsByContract(ctx context.Context, contractNumber string) ([]grain.Settlement, error)
	SettlementRowsByID(ctx context.Context, settlementID string) ([]grain.Settlement, error)
	UniqueSettlementIDs(ctx context.Context) ([]string, error)
}

// Handler holds the API dependencies.
type Handler struct {
	store  Store
	engine *grain.Engine
	log    *logrus.Logger
}

func NewHandler(store Store, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		store:  store,
		engine: grain.NewEngine(store),
		log:    log,
	}
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// GetCurrentCropYear returns the crop year containing today.
func (h *Handler) GetCurrentCropYear(w http.ResponseWriter, r *http.Request) {
	year := grain.CurrentCropYear()
	start, end := year.Range()
	writeJSON(w, http.StatusOK, map[string]any{
		"crop_year": int(year),
		"start":     start.Format("2006-01-02"),
		"end":       end.Format("2006-01-02"),
	})
}

// GetCropYearSales returns the Sold/Contracted/Open report for a crop year.
// An optional open_price query parameter prices the open bushels.
func (h *Handler) GetCropYearSales(w http.ResponseWriter, r *http.Request) {
	year, ok := h.cropYearParam(w, r)
	if !ok {
		return
	}

	var openPrice *decimal.Decimal
	if raw := r.URL.Query().Get("open_price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid open_price")
			return
		}
		openPrice = &p
	}

	sales, err := h.engine.CropYearSales(r.Context(), year)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newSalesResponse(year, sales, openPrice))
}

// GetMonthlyDeliveries returns the monthly trend report for a crop year.
func (h *Handler) GetMonthlyDeliveries(w http.ResponseWriter, r *http.Request) {
	year, ok := h.cropYearParam(w, r)
	if !ok {
		return
	}
	monthly, err := h.engine.MonthlyDeliveries(r.Context(), year)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMonthlyResponse(year, monthly))
}

// GetBinsByCrop returns storage bins grouped by crop for a crop year.
func (h *Handler) GetBinsByCrop(w http.ResponseWriter, r *http.Request) {
	year, ok := h.cropYearParam(w, r)
	if !ok {
		return
	}
	grouped, err := grain.BinsByCrop(r.Context(), h.store, year)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	resp := BinsByCropResponse{CropYear: int(year), Crops: make(map[string][]BinDTO)}
	for crop, assignments := range grouped {
		for _, a := range assignments {
			resp.Crops[crop] = append(resp.Crops[crop], BinDTO{
				Location: a.Bin.Location,
				Bin:      a.Bin.Name,
				Capacity: a.Bin.Capacity,
				Bushels:  a.Storage.Bushels,
			})
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// RECORD HANDLERS
// =============================================================================

// ListContracts returns contracts, optionally filtered by status, fill
// status, or normalized commodity.
func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.store.Contracts(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	q := r.URL.Query()
	statusFilter := q.Get("status")
	fillFilter := q.Get("fill")
	commodityFilter := q.Get("commodity")

	var out []ContractDTO
	for _, c := range contracts {
		if statusFilter != "" && c.Status != grain.ParseContractStatus(statusFilter) {
			continue
		}
		if fillFilter != "" && c.Fill != grain.ParseFillStatus(fillFilter) {
			continue
		}
		if commodityFilter != "" &&
			h.engine.Normalizer.Commodity(r.Context(), c.Commodity) != commodityFilter {
			continue
		}
		out = append(out, newContractDTO(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	writeJSON(w, http.StatusOK, out)
}

// GetContract returns one contract by number.
func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	contract, err := h.store.ContractByNumber(r.Context(), number)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "contract not found")
		return
	}
	writeJSON(w, http.StatusOK, newContractDTO(*contract))
}

// GetContractSettlements returns every settlement row referencing a
// contract, plus the reconciler's remaining position.
func (h *Handler) GetContractSettlements(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	contract, err := h.store.ContractByNumber(r.Context(), number)
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if contract == nil {
		writeError(w, http.StatusNotFound, "contract not found")
		return
	}

	rows, err := h.store.SettlementsByContract(r.Context(), number)
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	index := grain.NewSettlementIndex(rows)
	remRevenue, remBushels := index.Remaining(*contract)

	dtos := make([]SettlementDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newSettlementDTO(row))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"contract":          newContractDTO(*contract),
		"settlements":       dtos,
		"remaining_bushels": remBushels,
		"remaining_revenue": remRevenue.StringFixed(2),
	})
}

// ListSettlements returns settlement rows, optionally one document's rows.
func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	var (
		rows []grain.Settlement
		err  error
	)
	if id := r.URL.Query().Get("settlement_id"); id != "" {
		rows, err = h.store.SettlementRowsByID(r.Context(), id)
	} else {
		rows, err = h.store.Settlements(r.Context())
	}
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	dtos := make([]SettlementDTO, 0, len(rows))
	for _, row := range rows {
		dtos = append(dtos, newSettlementDTO(row))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// ListSettlementIDs returns the distinct settlement document IDs.
func (h *Handler) ListSettlementIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.UniqueSettlementIDs(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, http.StatusOK, ids)
}

// ListCommodities returns the sorted normalized commodity names present in
// contracts, excluding the Unknown fallback.
func (h *Handler) ListCommodities(w http.ResponseWriter, r *http.Request) {
	contracts, err := h.store.Contracts(r.Context())
	if err != nil {
		h.serverError(w, r, err)
		return
	}

	seen := make(map[string]bool)
	for _, c := range contracts {
		if c.Commodity == "" {
			continue
		}
		name := h.engine.Normalizer.Commodity(r.Context(), c.Commodity)
		if name != grain.Unknown {
			seen[name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	writeJSON(w, http.StatusOK, names)
}

// InvalidateMappings drops the normalizer's alias cache so the next
// lookup reloads from the database.
func (h *Handler) InvalidateMappings(w http.ResponseWriter, r *http.Request) {
	h.engine.Normalizer.Invalidate()
	h.log.Info("commodity/vendor mapping cache invalidated")
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) cropYearParam(w http.ResponseWriter, r *http.Request) (grain.CropYear, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1900 || year > 2200 {
		writeError(w, http.StatusBadRequest, "invalid crop year")
		return 0, false
	}
	return grain.CropYear(year), true
}

func (h *Handler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	h.log.WithFields(logrus.Fields{
		"path":  r.URL.Path,
		"error": err,
	}).Error("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
