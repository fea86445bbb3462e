// Package leader resolves the most recent limit-up pool and ranks its
// stocks by structural strength.
package leader

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/table"
	"github.com/wonny/dragonboard/pkg/logger"
)

// LimitUpFetcher supplies the limit-up pool for one trade date
type LimitUpFetcher interface {
	FetchLimitUpPool(ctx context.Context, date time.Time) (*table.Table, error)
}

// Resolver walks back over candidate dates until a non-empty pool is found
// ⭐ SSOT: 龙头身位排序只在这里
type Resolver struct {
	lookback int
	now      func() time.Time
	logger   *logger.Logger
}

// NewResolver creates a resolver. lookback <= 0 falls back to DefaultLookback.
func NewResolver(lookback int, log *logger.Logger) *Resolver {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Resolver{
		lookback: lookback,
		now:      time.Now,
		logger:   log,
	}
}

// WithClock replaces the time source used for FetchedAt
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Lookback returns the configured window size in calendar days
func (r *Resolver) Lookback() int {
	return r.lookback
}

// Resolve returns the ranked pool of the first candidate date (most recent
// first, weekends skipped) whose fetch succeeds with rows. Per-date fetch
// errors are recorded and swallowed; only exhaustion yields an empty board.
func (r *Resolver) Resolve(ctx context.Context, ref time.Time, fetcher LimitUpFetcher) contracts.Leaderboard {
	board := contracts.Leaderboard{
		Stamp: contracts.Stamp{FetchedAt: r.now()},
		Rows:  []contracts.LimitUpRow{},
	}

	fetched, failed := 0, 0
	for _, c := range Candidates(ref, r.lookback) {
		date := FormatDate(c.Date)
		if c.Weekend {
			board.Attempts = append(board.Attempts, contracts.Attempt{Date: date, Outcome: contracts.AttemptSkipped})
			continue
		}
		if ctx.Err() != nil {
			board.Detail = ctx.Err().Error()
			break
		}

		fetched++
		pool, err := fetcher.FetchLimitUpPool(ctx, c.Date)
		switch {
		case errors.Is(err, contracts.ErrNoData):
			board.Attempts = append(board.Attempts, contracts.Attempt{Date: date, Outcome: contracts.AttemptEmpty})
			continue
		case err != nil:
			failed++
			r.logger.WithFields(map[string]interface{}{
				"date":  date,
				"error": err.Error(),
			}).Warn("Limit-up pool fetch failed, trying previous day")
			board.Attempts = append(board.Attempts, contracts.Attempt{Date: date, Outcome: contracts.AttemptError, Error: err.Error()})
			continue
		case pool.Empty():
			board.Attempts = append(board.Attempts, contracts.Attempt{Date: date, Outcome: contracts.AttemptEmpty})
			continue
		}

		rows, keys := Rank(pool)
		board.Attempts = append(board.Attempts, contracts.Attempt{Date: date, Outcome: contracts.AttemptOK, Rows: len(rows)})
		board.TradeDate = date
		board.Rows = rows
		board.SortKeys = KeyNames(keys)
		board.MaxConsecutive = maxConsecutive(rows)

		r.logger.WithFields(map[string]interface{}{
			"trade_date":      date,
			"rows":            len(rows),
			"sort_keys":       board.SortKeys,
			"max_consecutive": board.MaxConsecutive,
		}).Info("Leaderboard resolved")
		return board
	}

	board.NoData = contracts.NoDataExhausted
	if fetched > 0 && failed == fetched {
		board.NoData = contracts.NoDataUpstreamError
	}
	if board.Detail == "" {
		board.Detail = fmt.Sprintf("no limit-up data within %d days of %s", r.lookback, FormatDate(ref))
	}
	return board
}

// Rank converts one pool into rows, derives 封板强度 and sorts by the
// composite key. It returns the keys that were applied.
func Rank(pool *table.Table) ([]contracts.LimitUpRow, []SortKey) {
	b := PoolSchema.Resolve(pool)
	rows := make([]contracts.LimitUpRow, 0, pool.Len())
	if pool.Empty() {
		return rows, KeysFor(b)
	}

	for _, rec := range pool.Records {
		row := contracts.LimitUpRow{}
		row.Symbol, _ = b.String(rec, FieldSymbol)
		row.Name, _ = b.String(rec, FieldName)
		row.Industry, _ = b.String(rec, FieldIndustry)
		if n, ok := b.Int(rec, FieldConsecutive); ok {
			row.ConsecutiveLimitDays = int(n)
		}
		row.ChangePercent, _ = b.Float(rec, FieldChangePercent)
		row.TurnoverRate, _ = b.Float(rec, FieldTurnoverRate)

		funds, fundsOK := b.Float(rec, FieldLockupFunds)
		turnover, turnoverOK := b.Float(rec, FieldTurnover)
		row.LockupFunds = funds
		row.Turnover = turnover
		if fundsOK && turnoverOK {
			row.LockupStrength = LockupStrength(funds, turnover)
		}

		if col, ok := b[FieldLastLockTime]; ok {
			row.LastLockTime = NormalizeClock(rec[col])
		}

		rows = append(rows, row)
	}

	keys := KeysFor(b)
	Sort(rows, keys)
	return rows, keys
}

// LockupStrength is lockupFunds / turnover × 100, rounded to 2 decimals.
// A zero turnover yields 0.
func LockupStrength(lockupFunds, turnover float64) float64 {
	if turnover == 0 {
		return 0
	}
	return math.Round(lockupFunds/turnover*100*100) / 100
}

// NormalizeClock renders a time-of-day as HH:MM:SS so that string order is
// chronological. Accepts "9:25:00", "092500", 92500 and 92500.0.
func NormalizeClock(v any) string {
	var s string
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		s = strings.TrimSpace(t)
	case int64:
		s = fmt.Sprintf("%06d", t)
	case int:
		s = fmt.Sprintf("%06d", t)
	case float64:
		s = fmt.Sprintf("%06d", int64(t))
	default:
		s = fmt.Sprint(t)
	}

	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		for i, p := range parts {
			if len(p) == 1 {
				parts[i] = "0" + p
			}
		}
		return strings.Join(parts, ":")
	}

	if len(s) > 0 && len(s) < 6 && isDigits(s) {
		s = strings.Repeat("0", 6-len(s)) + s
	}
	if len(s) == 6 && isDigits(s) {
		return s[0:2] + ":" + s[2:4] + ":" + s[4:6]
	}
	return s
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func maxConsecutive(rows []contracts.LimitUpRow) int {
	m := 0
	for _, r := range rows {
		if r.ConsecutiveLimitDays > m {
			m = r.ConsecutiveLimitDays
		}
	}
	return m
}
