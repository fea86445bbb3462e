package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, r *Registry) string {
	t.Helper()
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestRegistry_Counters(t *testing.T) {
	r := NewRegistry()

	r.CacheResult("sector_board", "hit")
	r.CacheResult("sector_board", "hit")
	r.CacheResult("sector_board", "miss")
	r.FetchAttempt("limit_up_pool", "empty")
	r.NoDataResult("leaders", "exhausted_retries")
	r.JobRun("warm_sectors", true)
	r.ObserveRequest("/api/sectors", 200, 20*time.Millisecond)

	body := scrape(t, r)
	assert.Contains(t, body, `dragonboard_cache_requests_total{namespace="sector_board",result="hit"} 2`)
	assert.Contains(t, body, `dragonboard_cache_requests_total{namespace="sector_board",result="miss"} 1`)
	assert.Contains(t, body, `dragonboard_fetch_attempts_total{outcome="empty",source="limit_up_pool"} 1`)
	assert.Contains(t, body, `dragonboard_no_data_total{reason="exhausted_retries",view="leaders"} 1`)
	assert.Contains(t, body, `dragonboard_scheduler_job_runs_total{job="warm_sectors",result="success"} 1`)
	assert.Contains(t, body, `dragonboard_http_request_duration_seconds_count{route="/api/sectors",status="200"} 1`)
}

func TestRegistry_Independent(t *testing.T) {
	a, b := NewRegistry(), NewRegistry()
	a.CacheResult("x", "hit")

	assert.NotContains(t, scrape(t, b), `namespace="x"`)
}
