package handlers

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/export"
	"github.com/wonny/dragonboard/internal/leader"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/pkg/logger"
)

// Dashboard is the view provider behind the handlers
type Dashboard interface {
	Sectors(ctx context.Context) contracts.SectorBoard
	Leaders(ctx context.Context, ref time.Time) contracts.Leaderboard
	Mainline(ctx context.Context, sel contracts.Selection) contracts.MainlineView
	Global(sel contracts.Selection) (contracts.GlobalMapping, bool)
	Now() time.Time
	Location() *time.Location
}

// DashboardHandler serves the sector board, the leaderboard and the mapping.
// Empty views are a 200 with a no_data reason and a neutral message.
// ⭐ SSOT: 看板 API 处理器只在这个结构体
type DashboardHandler struct {
	svc    Dashboard
	logger *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc Dashboard, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		svc:    svc,
		logger: log,
	}
}

// LeadersResponse is the leaderboard plus its display message
type LeadersResponse struct {
	contracts.Leaderboard
	Message string `json:"message,omitempty"`
}

// MappingResponse is a mapping plus the display hint
type MappingResponse struct {
	contracts.GlobalMapping
	Hint string `json:"hint"`
}

// GetSectors returns the hot-sector board and the mapping of the selection
// GET /api/sectors?sector=半导体
func (h *DashboardHandler) GetSectors(w http.ResponseWriter, r *http.Request) {
	sel := contracts.Select(strings.TrimSpace(r.URL.Query().Get("sector")))
	respondJSON(w, http.StatusOK, h.svc.Mainline(r.Context(), sel))
}

// ExportSectorsCSV downloads the board as CSV
// GET /api/sectors.csv
func (h *DashboardHandler) ExportSectorsCSV(w http.ResponseWriter, r *http.Request) {
	board := h.svc.Sectors(r.Context())

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.SectorSheet(board)); err != nil {
		h.logger.WithError(err).Error("Failed to export sectors")
		respondError(w, http.StatusInternalServerError, "Failed to export sectors")
		return
	}

	attachment(w, "text/csv; charset=utf-8", export.SectorFilename(leader.FormatDate(h.svc.Now()), "csv"))
	w.Write(buf.Bytes())
}

// GetMapping returns the overseas tickers of one sector
// GET /api/mapping?sector=半导体
func (h *DashboardHandler) GetMapping(w http.ResponseWriter, r *http.Request) {
	sel := contracts.Select(strings.TrimSpace(r.URL.Query().Get("sector")))

	gm, ok := h.svc.Global(sel)
	if !ok {
		respondError(w, http.StatusBadRequest, "sector is required")
		return
	}
	respondJSON(w, http.StatusOK, MappingResponse{GlobalMapping: gm, Hint: mapping.Hint})
}

// GetLeaders returns the leaderboard walking back from date (default today)
// GET /api/leaders?date=20240509
func (h *DashboardHandler) GetLeaders(w http.ResponseWriter, r *http.Request) {
	board, ok := h.leaders(w, r)
	if !ok {
		return
	}

	resp := LeadersResponse{Leaderboard: board}
	if board.Empty() {
		resp.Message = contracts.LeaderNoDataMessage
	}
	respondJSON(w, http.StatusOK, resp)
}

// ExportLeadersCSV downloads the leaderboard as CSV
// GET /api/leaders.csv?date=20240509
func (h *DashboardHandler) ExportLeadersCSV(w http.ResponseWriter, r *http.Request) {
	board, ok := h.leaders(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, export.LeaderSheet(board)); err != nil {
		h.logger.WithError(err).Error("Failed to export leaders")
		respondError(w, http.StatusInternalServerError, "Failed to export leaders")
		return
	}

	attachment(w, "text/csv; charset=utf-8", export.LeaderFilename(board.TradeDate, "csv"))
	w.Write(buf.Bytes())
}

// ExportLeadersXLSX downloads the leaderboard as a workbook
// GET /api/leaders.xlsx?date=20240509
func (h *DashboardHandler) ExportLeadersXLSX(w http.ResponseWriter, r *http.Request) {
	board, ok := h.leaders(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, export.LeaderSheet(board)); err != nil {
		h.logger.WithError(err).Error("Failed to export leaders workbook")
		respondError(w, http.StatusInternalServerError, "Failed to export leaders")
		return
	}

	attachment(w, export.ContentTypeXLSX, export.LeaderFilename(board.TradeDate, "xlsx"))
	w.Write(buf.Bytes())
}

func (h *DashboardHandler) leaders(w http.ResponseWriter, r *http.Request) (contracts.Leaderboard, bool) {
	ref := h.svc.Now()
	if s := strings.TrimSpace(r.URL.Query().Get("date")); s != "" {
		d, err := leader.ParseDate(s, h.svc.Location())
		if err != nil {
			respondError(w, http.StatusBadRequest, "date must be YYYYMMDD")
			return contracts.Leaderboard{}, false
		}
		ref = d
	}
	return h.svc.Leaders(r.Context(), ref), true
}
