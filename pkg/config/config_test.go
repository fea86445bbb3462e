package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8089", cfg.Port)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 15, cfg.Ranking.TopN)
	assert.Equal(t, "positive", cfg.Ranking.ChangeFilter)
	assert.Equal(t, 5, cfg.Ranking.LookbackDays)
	assert.Equal(t, 10*time.Minute, cfg.Cache.SnapshotTTL)
	assert.Equal(t, time.Hour, cfg.Cache.SlowTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 4.0, cfg.Eastmoney.RPS)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENV", "production")
	t.Setenv("RANK_TOP_N", "20")
	t.Setenv("RANK_CHANGE_FILTER", "all")
	t.Setenv("LEADER_LOOKBACK_DAYS", "7")
	t.Setenv("CACHE_TTL_SNAPSHOT", "30s")
	t.Setenv("EASTMONEY_RPS", "1.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, 20, cfg.Ranking.TopN)
	assert.Equal(t, "all", cfg.Ranking.ChangeFilter)
	assert.Equal(t, 7, cfg.Ranking.LookbackDays)
	assert.Equal(t, 30*time.Second, cfg.Cache.SnapshotTTL)
	assert.Equal(t, 1.5, cfg.Eastmoney.RPS)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"invalid env", "ENV", "invalid"},
		{"zero top n", "RANK_TOP_N", "0"},
		{"negative lookback", "LEADER_LOOKBACK_DAYS", "-1"},
		{"unknown change filter", "RANK_CHANGE_FILTER", "negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLocation(t *testing.T) {
	cfg := &Config{Scheduler: SchedulerConfig{Timezone: "Not/AZone"}}
	loc := cfg.Location()

	_, offset := time.Date(2024, 1, 15, 0, 0, 0, 0, loc).Zone()
	assert.Equal(t, 8*60*60, offset)
}

func TestGetEnvAsDuration(t *testing.T) {
	os.Setenv("TEST_DURATION", "2h")
	defer os.Unsetenv("TEST_DURATION")

	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION_MISSING", "1h"))
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "abc")
	assert.Equal(t, 2.5, getEnvAsFloat("TEST_FLOAT", 2.5))

	t.Setenv("TEST_FLOAT", "0.25")
	assert.Equal(t, 0.25, getEnvAsFloat("TEST_FLOAT", 2.5))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "maybe")
	assert.False(t, getEnvAsBool("TEST_BOOL", false))
}
