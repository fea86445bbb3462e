package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/pkg/logger"
)

// Warmer is the part of the dashboard service the jobs exercise
type Warmer interface {
	Sectors(ctx context.Context) contracts.SectorBoard
	Leaders(ctx context.Context, ref time.Time) contracts.Leaderboard
	Now() time.Time
}

// WarmSectorsJob refreshes the sector board cache during trading hours
// ⭐ SSOT: 主线板块预热只在这个 Job
type WarmSectorsJob struct {
	svc    Warmer
	logger *logger.Logger
}

// NewWarmSectorsJob creates a new sector warming job
func NewWarmSectorsJob(svc Warmer, log *logger.Logger) *WarmSectorsJob {
	return &WarmSectorsJob{svc: svc, logger: log}
}

// Name returns the job name
func (j *WarmSectorsJob) Name() string {
	return "warm_sectors"
}

// Description returns the job description
func (j *WarmSectorsJob) Description() string {
	return "预热主线板块排行 (盘中每 5 分钟)"
}

// Schedule returns the cron schedule (every 5 minutes, 09:00-15:55 Mon-Fri)
func (j *WarmSectorsJob) Schedule() string {
	return "0 */5 9-15 * * MON-FRI"
}

// Run computes the board through the cache. An upstream error fails the
// run so it is retried; an empty market is not a failure.
func (j *WarmSectorsJob) Run(ctx context.Context) error {
	board := j.svc.Sectors(ctx)
	if board.NoData == contracts.NoDataUpstreamError {
		return fmt.Errorf("sector board upstream error: %s", board.Detail)
	}

	j.logger.WithFields(map[string]interface{}{
		"rows":    len(board.Rows),
		"no_data": string(board.NoData),
	}).Debug("Sector board warmed")
	return nil
}

// WarmLeadersJob resolves the leaderboard after the close
// ⭐ SSOT: 龙头榜预热只在这个 Job
type WarmLeadersJob struct {
	svc    Warmer
	logger *logger.Logger
}

// NewWarmLeadersJob creates a new leaderboard warming job
func NewWarmLeadersJob(svc Warmer, log *logger.Logger) *WarmLeadersJob {
	return &WarmLeadersJob{svc: svc, logger: log}
}

// Name returns the job name
func (j *WarmLeadersJob) Name() string {
	return "warm_leaders"
}

// Description returns the job description
func (j *WarmLeadersJob) Description() string {
	return "预热龙头强度榜 (收盘后)"
}

// Schedule returns the cron schedule (15:05 Mon-Fri)
func (j *WarmLeadersJob) Schedule() string {
	return "0 5 15 * * MON-FRI"
}

// Run resolves today's leaderboard through the cache
func (j *WarmLeadersJob) Run(ctx context.Context) error {
	board := j.svc.Leaders(ctx, j.svc.Now())
	if board.NoData == contracts.NoDataUpstreamError {
		return fmt.Errorf("leaderboard upstream error: %s", board.Detail)
	}

	j.logger.WithFields(map[string]interface{}{
		"trade_date": board.TradeDate,
		"rows":       len(board.Rows),
		"no_data":    string(board.NoData),
	}).Info("Leaderboard warmed")
	return nil
}
