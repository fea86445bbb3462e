package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dragonboard/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	failures int
	mu       sync.Mutex
	runs     int
}

func (j *stubJob) Name() string        { return j.name }
func (j *stubJob) Description() string { return "stub" }
func (j *stubJob) Schedule() string    { return j.schedule }

func (j *stubJob) Run(context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs++
	if j.runs <= j.failures {
		return errors.New("upstream down")
	}
	return nil
}

type jobCounter struct {
	mu      sync.Mutex
	results map[bool]int
}

func (c *jobCounter) JobRun(_ string, success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.results == nil {
		c.results = map[bool]int{}
	}
	c.results[success]++
}

func newTestScheduler(obs JobObserver) *Scheduler {
	return New(logger.Nop(), Options{MaxRetries: 2, RetryDelay: time.Millisecond, Observer: obs})
}

func TestAddJob(t *testing.T) {
	s := newTestScheduler(nil)

	require.NoError(t, s.AddJob(&stubJob{name: "b", schedule: "0 */5 9-15 * * MON-FRI"}))
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "0 5 15 * * MON-FRI"}))
	assert.Error(t, s.AddJob(&stubJob{name: "a", schedule: "0 5 15 * * MON-FRI"}), "duplicate")
	assert.Error(t, s.AddJob(&stubJob{name: "c", schedule: "not a cron"}))

	jobs := s.GetAllJobs()
	require.Len(t, jobs, 2)
	assert.Equal(t, "a", jobs[0].Name())
}

func TestRemoveJob(t *testing.T) {
	s := newTestScheduler(nil)
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "@hourly"}))

	require.NoError(t, s.RemoveJob("a"))
	assert.Empty(t, s.GetAllJobs())
	assert.Error(t, s.RemoveJob("a"))
}

func TestRunJob_RetriesThenSucceeds(t *testing.T) {
	obs := &jobCounter{}
	s := newTestScheduler(obs)
	job := &stubJob{name: "warm", schedule: "@hourly", failures: 2}
	require.NoError(t, s.AddJob(job))

	result, err := s.RunJob(context.Background(), "warm")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 1, obs.results[true])

	stats := s.GetJobStats()["warm"]
	assert.Equal(t, 1, stats.TotalRuns)
	assert.Equal(t, 1, stats.SuccessCount)
	require.NotNil(t, stats.LastSuccess)
	assert.Nil(t, stats.LastFailure)
}

func TestRunJob_FailsAfterRetries(t *testing.T) {
	obs := &jobCounter{}
	s := newTestScheduler(obs)
	require.NoError(t, s.AddJob(&stubJob{name: "warm", schedule: "@hourly", failures: 10}))

	result, err := s.RunJob(context.Background(), "warm")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, "upstream down", result.Error)
	assert.Equal(t, 1, obs.results[false])

	history, err := s.GetJobHistory("warm")
	require.NoError(t, err)
	assert.Equal(t, 0.0, history.GetSuccessRate())
}

func TestRunJob_Unknown(t *testing.T) {
	_, err := newTestScheduler(nil).RunJob(context.Background(), "nope")
	assert.Error(t, err)
}

func TestNextRun(t *testing.T) {
	s := newTestScheduler(nil)
	require.NoError(t, s.AddJob(&stubJob{name: "a", schedule: "0 5 15 * * MON-FRI"}))

	next, ok := s.NextRun("a")
	require.True(t, ok)
	assert.Equal(t, 15, next.Hour())
	assert.Equal(t, 5, next.Minute())

	_, ok = s.NextRun("missing")
	assert.False(t, ok)
}

func TestJobHistory_Bounded(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < maxHistory+10; i++ {
		h.AddResult(JobResult{Success: i%2 == 0})
	}

	assert.Len(t, h.Results, maxHistory)
	assert.Len(t, h.GetLatestResults(5), 5)
	assert.Empty(t, (&JobHistory{}).GetLatestResults(3))
	assert.Equal(t, 0.5, h.GetSuccessRate())
}
