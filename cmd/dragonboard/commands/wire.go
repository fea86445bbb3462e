package commands

import (
	"fmt"
	"time"

	"github.com/wonny/dragonboard/internal/cache"
	"github.com/wonny/dragonboard/internal/dashboard"
	"github.com/wonny/dragonboard/internal/external/eastmoney"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/internal/metrics"
	"github.com/wonny/dragonboard/internal/scheduler"
	"github.com/wonny/dragonboard/internal/scheduler/jobs"
	"github.com/wonny/dragonboard/pkg/config"
	"github.com/wonny/dragonboard/pkg/httputil"
	"github.com/wonny/dragonboard/pkg/logger"
	"github.com/wonny/dragonboard/pkg/redis"
)

// app holds the wired dependencies shared by every command
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	metrics *metrics.Registry
	redis   *redis.Client
	service *dashboard.Service
}

// newApp loads configuration and builds the dashboard service.
// configure may adjust the config before anything is constructed.
func newApp(configure func(*config.Config)) (*app, error) {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	if configure != nil {
		configure(cfg)
	}

	// 2. Initialize logger
	log := logger.New(cfg)

	// 3. Metrics
	reg := metrics.NewRegistry()

	// 4. Redis (optional)
	rdb, err := redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	// 5. HTTP client: local pacing + breaker, shared budget when Redis is on
	httpClient := httputil.New(cfg, log).
		WithRetry(2, 500*time.Millisecond).
		WithPacing(cfg.Eastmoney.RPS, cfg.Eastmoney.Burst).
		WithBreaker("eastmoney", 5, 30*time.Second)
	if rdb.Enabled() {
		httpClient.WithRateLimiter(redis.NewRateLimiter(rdb, "dragonboard:ratelimit"), redis.EastmoneyRateLimit)
	}

	// 6. Upstream client
	em := eastmoney.NewClient(httpClient, cfg.Eastmoney, log).WithObserver(reg)

	// 7. Sector mapping table
	mapper := mapping.Default()
	if cfg.MappingFile != "" {
		if mapper, err = mapping.Load(cfg.MappingFile); err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("load mapping: %w", err)
		}
	}

	// 8. Result cache
	var store cache.Store = cache.NewMemoryStore(cache.SystemClock{})
	if rdb.Enabled() {
		store = cache.NewRedisStore(redis.NewCache(rdb, "dragonboard:view"))
		log.Info("Using Redis result cache")
	}
	c := cache.New(store, log).WithObserver(reg)

	// 9. Service
	svc := dashboard.NewService(cfg, em, em, mapper, c, log).WithObserver(reg)

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: reg,
		redis:   rdb,
		service: svc,
	}, nil
}

// Close releases external connections
func (a *app) Close() {
	if err := a.redis.Close(); err != nil {
		a.log.WithError(err).Warn("Failed to close redis")
	}
}

// newScheduler registers the cache warming jobs
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log.WithComponent("scheduler"), scheduler.Options{
		Location:   a.service.Location(),
		MaxRetries: 2,
		RetryDelay: 30 * time.Second,
		Timeout:    time.Duration(a.cfg.Ranking.LookbackDays+1) * a.cfg.Eastmoney.Timeout,
		Observer:   a.metrics,
	})

	for _, job := range []scheduler.Job{
		jobs.NewWarmSectorsJob(a.service, a.log),
		jobs.NewWarmLeadersJob(a.service, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}
