// Package dashboard composes the sector board, the leaderboard and the
// global mapping behind the result cache.
package dashboard

import (
	"context"
	"time"

	"github.com/wonny/dragonboard/internal/cache"
	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/heat"
	"github.com/wonny/dragonboard/internal/leader"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/pkg/config"
	"github.com/wonny/dragonboard/pkg/logger"
)

// Cache namespaces
const (
	NamespaceSectors = "sector_board"
	NamespaceLeaders = "leaderboard"
)

// View names used for no-data accounting
const (
	ViewSectors = "sectors"
	ViewLeaders = "leaders"
)

// NoDataObserver is told about every view computed without rows
type NoDataObserver interface {
	NoDataResult(view, reason string)
}

// Service is the single entry point used by the API, CLI and scheduler
// ⭐ SSOT: 看板视图组合只在这里
type Service struct {
	ranker   *heat.Ranker
	resolver *leader.Resolver
	mapper   *mapping.Mapper
	sectors  heat.SnapshotFetcher
	pools    leader.LimitUpFetcher
	cache    *cache.Cache
	ttl      config.CacheConfig
	clock    cache.Clock
	loc      *time.Location
	observer NoDataObserver
	logger   *logger.Logger
}

// NewService wires the engines from configuration
func NewService(
	cfg *config.Config,
	sectors heat.SnapshotFetcher,
	pools leader.LimitUpFetcher,
	mapper *mapping.Mapper,
	c *cache.Cache,
	log *logger.Logger,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	filter, err := heat.ParseChangeFilter(cfg.Ranking.ChangeFilter)
	if err != nil {
		log.WithError(err).Warn("Invalid change filter, using positive")
		filter = heat.FilterPositive
	}

	s := &Service{
		ranker:   heat.NewRanker(cfg.Ranking.TopN, filter, log.WithComponent("heat")),
		resolver: leader.NewResolver(cfg.Ranking.LookbackDays, log.WithComponent("leader")),
		mapper:   mapper,
		sectors:  sectors,
		pools:    pools,
		cache:    c,
		ttl:      cfg.Cache,
		loc:      cfg.Location(),
		logger:   log.WithComponent("dashboard"),
	}
	return s.WithClock(cache.SystemClock{})
}

// WithClock replaces the time source of the service and its engines
func (s *Service) WithClock(clock cache.Clock) *Service {
	s.clock = clock
	s.ranker.WithClock(clock.Now)
	s.resolver.WithClock(clock.Now)
	return s
}

// WithObserver attaches a no-data observer (metrics)
func (s *Service) WithObserver(o NoDataObserver) *Service {
	s.observer = o
	return s
}

// Now returns the current time in the market timezone
func (s *Service) Now() time.Time {
	return s.clock.Now().In(s.loc)
}

// Location returns the market timezone
func (s *Service) Location() *time.Location {
	return s.loc
}

// Mapper returns the sector mapping table
func (s *Service) Mapper() *mapping.Mapper {
	return s.mapper
}

func (s *Service) noData(view string, reason contracts.NoDataReason) {
	if s.observer != nil {
		s.observer.NoDataResult(view, string(reason))
	}
}

// Sectors returns the ranked hot-sector board. Populated boards are cached
// for the snapshot TTL; empty boards are recomputed on the next call.
func (s *Service) Sectors(ctx context.Context) contracts.SectorBoard {
	key := cache.NewKey(NamespaceSectors, s.ranker.Filter(), s.ranker.TopN())

	return cache.GetOrCompute(ctx, s.cache, key, func(ctx context.Context) (contracts.SectorBoard, time.Duration) {
		board := s.ranker.Board(ctx, s.sectors)
		if board.Empty() {
			s.noData(ViewSectors, board.NoData)
			return board, 0
		}
		return board, s.ttl.SnapshotTTL
	})
}

// Leaders returns the leaderboard resolved from ref's calendar day. A board
// requested for a day before today is cached for the slow TTL; a request for
// today uses the snapshot TTL even when it fell back to an earlier session,
// so today's pool shows up once it is published.
func (s *Service) Leaders(ctx context.Context, ref time.Time) contracts.Leaderboard {
	ref = ref.In(s.loc)
	refDate := leader.FormatDate(ref)
	key := cache.NewKey(NamespaceLeaders, refDate, s.resolver.Lookback())

	return cache.GetOrCompute(ctx, s.cache, key, func(ctx context.Context) (contracts.Leaderboard, time.Duration) {
		board := s.resolver.Resolve(ctx, ref, s.pools)
		if board.Empty() {
			s.noData(ViewLeaders, board.NoData)
			return board, 0
		}
		// YYYYMMDD compares in calendar order
		if refDate < leader.FormatDate(s.Now()) {
			return board, s.ttl.SlowTTL
		}
		return board, s.ttl.SnapshotTTL
	})
}

// Global maps an explicit selection; ok is false when nothing is selected
func (s *Service) Global(sel contracts.Selection) (contracts.GlobalMapping, bool) {
	return s.mapper.Resolve(sel)
}

// Mainline returns the sector board together with the selection it drives.
// Without an explicit selection the top-ranked sector is selected; an
// empty board without a selection carries no mapping.
func (s *Service) Mainline(ctx context.Context, sel contracts.Selection) contracts.MainlineView {
	view := contracts.MainlineView{Board: s.Sectors(ctx)}

	if !sel.Valid && !view.Board.Empty() {
		sel = contracts.Select(view.Board.Rows[0].Name)
	}
	if view.Board.Empty() {
		view.Message = contracts.SectorNoDataMessage
	}

	if gm, ok := s.Global(sel); ok {
		name := sel.Sector
		view.Selected = &name
		view.Mapping = &gm
	}

	return view
}
