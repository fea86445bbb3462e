package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: 所有环境变量只在这里读取
type Config struct {
	// Server
	Port string
	Env  string // development, staging, production

	// Redis (optional shared cache / rate limit)
	Redis RedisConfig

	// Upstream
	Eastmoney EastmoneyConfig

	// Ranking policy
	Ranking RankingConfig

	// Result cache
	Cache CacheConfig

	// Scheduler (cache warming)
	Scheduler SchedulerConfig

	// Static sector → overseas ticker table override
	MappingFile string

	// Logging
	LogLevel  string
	LogFormat string

	// Monitoring
	MetricsEnabled bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// EastmoneyConfig holds Eastmoney (东方财富) endpoint configuration
type EastmoneyConfig struct {
	BoardURL  string // 行业板块列表
	ZTPoolURL string // 涨停股池
	Timeout   time.Duration
	RPS       float64 // client-side token bucket
	Burst     int
}

// RankingConfig holds the ranking/resolution policy
type RankingConfig struct {
	TopN         int
	ChangeFilter string // positive | all
	LookbackDays int
}

// CacheConfig holds result cache TTLs
type CacheConfig struct {
	SnapshotTTL time.Duration // 盘中快照类数据
	SlowTTL     time.Duration // 变化较慢的数据 (历史交易日)
}

// SchedulerConfig holds cache warming configuration
type SchedulerConfig struct {
	Enabled  bool
	Timezone string
}

// Load reads configuration from environment variables
// ⭐ SSOT: 只有这个函数调用 os.Getenv()
func Load() (*Config, error) {
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "8089"),
		Env:  getEnv("ENV", "development"),

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		Eastmoney: EastmoneyConfig{
			BoardURL:  getEnv("EASTMONEY_BOARD_URL", "https://17.push2.eastmoney.com/api/qt/clist/get"),
			ZTPoolURL: getEnv("EASTMONEY_ZTPOOL_URL", "https://push2ex.eastmoney.com/getTopicZTPool"),
			Timeout:   getEnvAsDuration("EASTMONEY_TIMEOUT", "10s"),
			RPS:       getEnvAsFloat("EASTMONEY_RPS", 4),
			Burst:     getEnvAsInt("EASTMONEY_BURST", 2),
		},

		Ranking: RankingConfig{
			TopN:         getEnvAsInt("RANK_TOP_N", 15),
			ChangeFilter: getEnv("RANK_CHANGE_FILTER", "positive"),
			LookbackDays: getEnvAsInt("LEADER_LOOKBACK_DAYS", 5),
		},

		Cache: CacheConfig{
			SnapshotTTL: getEnvAsDuration("CACHE_TTL_SNAPSHOT", "10m"),
			SlowTTL:     getEnvAsDuration("CACHE_TTL_SLOW", "1h"),
		},

		Scheduler: SchedulerConfig{
			Enabled:  getEnvAsBool("SCHEDULER_ENABLED", false),
			Timezone: getEnv("MARKET_TIMEZONE", "Asia/Shanghai"),
		},

		MappingFile: getEnv("SECTOR_MAPPING_FILE", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		// Monitoring
		MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Location returns the market timezone, falling back to a fixed UTC+8 zone
// when the tz database is unavailable.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.FixedZone("CST", 8*60*60)
	}
	return loc
}

// validate checks configuration values
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	if c.Ranking.TopN <= 0 {
		return fmt.Errorf("RANK_TOP_N must be positive")
	}

	if c.Ranking.LookbackDays <= 0 {
		return fmt.Errorf("LEADER_LOOKBACK_DAYS must be positive")
	}

	if c.Ranking.ChangeFilter != "positive" && c.Ranking.ChangeFilter != "all" {
		return fmt.Errorf("RANK_CHANGE_FILTER must be one of: positive, all")
	}

	if c.Cache.SnapshotTTL <= 0 || c.Cache.SlowTTL <= 0 {
		return fmt.Errorf("cache TTLs must be positive")
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{
		".env",
		"backend/.env",
	}

	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
