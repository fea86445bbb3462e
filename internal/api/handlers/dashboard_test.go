package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/export"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/pkg/logger"
)

var cst = time.FixedZone("CST", 8*60*60)

type fakeDashboard struct {
	board   contracts.SectorBoard
	leaders contracts.Leaderboard
	now     time.Time
	lastRef time.Time
	lastSel contracts.Selection
}

func (f *fakeDashboard) Sectors(context.Context) contracts.SectorBoard { return f.board }

func (f *fakeDashboard) Leaders(_ context.Context, ref time.Time) contracts.Leaderboard {
	f.lastRef = ref
	return f.leaders
}

func (f *fakeDashboard) Mainline(_ context.Context, sel contracts.Selection) contracts.MainlineView {
	f.lastSel = sel
	view := contracts.MainlineView{Board: f.board}
	if sel.Valid {
		name := sel.Sector
		gm, _ := f.Global(sel)
		view.Selected, view.Mapping = &name, &gm
	}
	return view
}

func (f *fakeDashboard) Global(sel contracts.Selection) (contracts.GlobalMapping, bool) {
	return mapping.Default().Resolve(sel)
}

func (f *fakeDashboard) Now() time.Time { return f.now }

func (f *fakeDashboard) Location() *time.Location { return cst }

func newHandler() (*DashboardHandler, *fakeDashboard) {
	fd := &fakeDashboard{
		now: time.Date(2024, 5, 13, 10, 0, 0, 0, cst),
		board: contracts.SectorBoard{Rows: []contracts.SectorRow{
			{Name: "半导体", ChangePercent: 2, Turnover: 2e9, TurnoverRate: 5, CaptureRate: 100, HeatScore: 100},
		}},
		leaders: contracts.Leaderboard{
			TradeDate: "20240510",
			Rows: []contracts.LimitUpRow{
				{Symbol: "600584", Name: "长电科技", ConsecutiveLimitDays: 3, LastLockTime: "09:25:00"},
			},
			MaxConsecutive: 3,
		},
	}
	return NewDashboardHandler(fd, logger.Nop()), fd
}

func TestGetSectors(t *testing.T) {
	h, fd := newHandler()
	rec := httptest.NewRecorder()

	h.GetSectors(rec, httptest.NewRequest(http.MethodGet, "/api/sectors?sector=%E5%8D%8A%E5%AF%BC%E4%BD%93", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, contracts.Select("半导体"), fd.lastSel)

	var view contracts.MainlineView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.NotNil(t, view.Mapping)
	assert.Equal(t, "NVDA", view.Mapping.Targets[0].Symbol)
}

func TestGetSectors_NoSelection(t *testing.T) {
	h, fd := newHandler()
	rec := httptest.NewRecorder()

	h.GetSectors(rec, httptest.NewRequest(http.MethodGet, "/api/sectors", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, fd.lastSel.Valid)
}

func TestExportSectorsCSV(t *testing.T) {
	h, _ := newHandler()
	rec := httptest.NewRecorder()

	h.ExportSectorsCSV(rec, httptest.NewRequest(http.MethodGet, "/api/sectors.csv", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "sector_board_20240513.csv")
	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, export.BOM))
	assert.Contains(t, body, "半导体,2,2000000000,5,100,100")
}

func TestGetMapping(t *testing.T) {
	h, _ := newHandler()

	rec := httptest.NewRecorder()
	h.GetMapping(rec, httptest.NewRequest(http.MethodGet, "/api/mapping?sector=UnknownSectorXYZ", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MappingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Fallback)
	require.Len(t, resp.Targets, 1)
	assert.Equal(t, "QQQ", resp.Targets[0].Symbol)
	assert.Equal(t, mapping.Hint, resp.Hint)

	rec = httptest.NewRecorder()
	h.GetMapping(rec, httptest.NewRequest(http.MethodGet, "/api/mapping", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetLeaders(t *testing.T) {
	h, fd := newHandler()
	rec := httptest.NewRecorder()

	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/leaders?date=20240510", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, cst), fd.lastRef)

	var resp LeadersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "20240510", resp.TradeDate)
	assert.Equal(t, 3, resp.MaxConsecutive)
	assert.Empty(t, resp.Message)
}

func TestGetLeaders_DefaultsToNow(t *testing.T) {
	h, fd := newHandler()
	rec := httptest.NewRecorder()

	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/leaders", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fd.now, fd.lastRef)
}

func TestGetLeaders_NoDataIsNeutral(t *testing.T) {
	h, fd := newHandler()
	fd.leaders = contracts.Leaderboard{
		Stamp: contracts.Stamp{NoData: contracts.NoDataExhausted},
		Rows:  []contracts.LimitUpRow{},
	}
	rec := httptest.NewRecorder()

	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/leaders", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp LeadersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, contracts.NoDataExhausted, resp.NoData)
	assert.Equal(t, contracts.LeaderNoDataMessage, resp.Message)
}

func TestGetLeaders_BadDate(t *testing.T) {
	h, _ := newHandler()
	rec := httptest.NewRecorder()

	h.GetLeaders(rec, httptest.NewRequest(http.MethodGet, "/api/leaders?date=2024-05-10", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportLeaders(t *testing.T) {
	h, _ := newHandler()

	rec := httptest.NewRecorder()
	h.ExportLeadersCSV(rec, httptest.NewRequest(http.MethodGet, "/api/leaders.csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "dragon_list_20240510.csv")
	assert.Contains(t, rec.Body.String(), "600584,长电科技,3")

	rec = httptest.NewRecorder()
	h.ExportLeadersXLSX(rec, httptest.NewRequest(http.MethodGet, "/api/leaders.xlsx", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, export.ContentTypeXLSX, rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "PK"), "xlsx is a zip container")
}
