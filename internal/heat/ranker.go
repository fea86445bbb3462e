// Package heat ranks industry sectors by trading intensity.
package heat

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/table"
	"github.com/wonny/dragonboard/pkg/logger"
)

// DefaultTopN is the number of sectors shown on the board
const DefaultTopN = 15

// SnapshotFetcher supplies the current per-sector trading snapshot
type SnapshotFetcher interface {
	FetchSectorSnapshot(ctx context.Context) (*table.Table, error)
}

// Ranker computes capture rate and heat score and keeps the hottest sectors
// ⭐ SSOT: 板块热度排序只在这里
type Ranker struct {
	topN   int
	filter ChangeFilter
	now    func() time.Time
	logger *logger.Logger
}

// NewRanker creates a ranker. topN <= 0 falls back to DefaultTopN.
func NewRanker(topN int, filter ChangeFilter, log *logger.Logger) *Ranker {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if filter == "" {
		filter = FilterPositive
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Ranker{
		topN:   topN,
		filter: filter,
		now:    time.Now,
		logger: log,
	}
}

// WithClock replaces the time source used for FetchedAt
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	r.now = now
	return r
}

// Filter returns the configured change filter
func (r *Ranker) Filter() ChangeFilter {
	return r.filter
}

// TopN returns the configured truncation size
func (r *Ranker) TopN() int {
	return r.topN
}

// Rank derives metrics for every row and returns at most TopN rows sorted by
// heat score, descending. Equal scores keep input order.
func (r *Ranker) Rank(snapshot *table.Table) []contracts.SectorRow {
	rows, _ := r.rank(snapshot)
	return rows
}

func (r *Ranker) rank(snapshot *table.Table) ([]contracts.SectorRow, table.Binding) {
	b := SnapshotSchema.Resolve(snapshot)
	if snapshot.Empty() {
		return []contracts.SectorRow{}, b
	}

	// 吸金率 uses the whole snapshot, before any filtering
	var total float64
	for _, rec := range snapshot.Records {
		if v, ok := b.Float(rec, FieldTurnover); ok {
			total += v
		}
	}

	filterable := b.Has(FieldChangePercent)
	rows := make([]contracts.SectorRow, 0, snapshot.Len())
	for _, rec := range snapshot.Records {
		name, _ := b.String(rec, FieldName)
		turnover, _ := b.Float(rec, FieldTurnover)
		rate, _ := b.Float(rec, FieldTurnoverRate)
		change, _ := b.Float(rec, FieldChangePercent)

		if r.filter == FilterPositive && filterable && change <= 0 {
			continue
		}

		rows = append(rows, contracts.SectorRow{
			Name:          name,
			ChangePercent: change,
			Turnover:      turnover,
			TurnoverRate:  rate,
			CaptureRate:   CaptureRate(turnover, total),
			HeatScore:     HeatScore(turnover, rate),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].HeatScore > rows[j].HeatScore
	})

	if len(rows) > r.topN {
		rows = rows[:r.topN]
	}
	return rows, b
}

// Board fetches a snapshot and ranks it. It never returns an error: fetch
// failures and empty results become a NoData reason on the board.
func (r *Ranker) Board(ctx context.Context, fetcher SnapshotFetcher) contracts.SectorBoard {
	board := contracts.SectorBoard{
		Stamp:  contracts.Stamp{FetchedAt: r.now()},
		Rows:   []contracts.SectorRow{},
		Filter: string(r.filter),
	}

	snapshot, err := fetcher.FetchSectorSnapshot(ctx)
	switch {
	case errors.Is(err, contracts.ErrNoData):
		board.NoData = contracts.NoDataEmptyUpstream
		return board
	case err != nil:
		r.logger.WithError(err).Warn("Sector snapshot fetch failed")
		board.NoData = contracts.NoDataUpstreamError
		board.Detail = err.Error()
		return board
	case snapshot.Empty():
		board.NoData = contracts.NoDataEmptyUpstream
		return board
	}

	rows, b := r.rank(snapshot)
	board.Rows = rows
	board.SnapshotSize = snapshot.Len()
	for _, f := range b.Missing(SnapshotSchema) {
		board.MissingFields = append(board.MissingFields, string(f))
	}

	if len(board.MissingFields) > 0 {
		r.logger.WithFields(map[string]interface{}{
			"missing": board.MissingFields,
			"columns": snapshot.Columns,
		}).Warn("Sector snapshot columns unresolved, metrics degraded")
	}

	if board.Empty() {
		board.NoData = contracts.NoDataEmptyUpstream
		board.Detail = "no sector passed the change filter"
		return board
	}

	r.logger.WithFields(map[string]interface{}{
		"snapshot": board.SnapshotSize,
		"ranked":   len(board.Rows),
		"top":      board.Rows[0].Name,
		"filter":   board.Filter,
	}).Info("Sector ranking completed")

	return board
}

// CaptureRate is turnover as a percentage of total, rounded to 2 decimals.
// A zero total yields 0.
func CaptureRate(turnover, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return round2(turnover / total * 100)
}

// HeatScore is turnover in 亿 (1e8) times turnover rate, rounded to 2 decimals
func HeatScore(turnover, turnoverRate float64) float64 {
	return round2(turnover / 1e8 * turnoverRate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
