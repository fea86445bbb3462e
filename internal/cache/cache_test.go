package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type board struct {
	Rows []string `json:"rows"`
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[string]int
}

func (o *countingObserver) CacheResult(namespace, result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = map[string]int{}
	}
	o.counts[namespace+"/"+result]++
}

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("store down")
}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("store down")
}

func TestNewKey(t *testing.T) {
	assert.Equal(t, "sector_board|positive|15", NewKey("sector_board", "positive", 15).String())
	assert.Equal(t, "leaders", NewKey("leaders").String())
}

func TestGetOrCompute_HitWithinTTL(t *testing.T) {
	clock := NewManualClock(time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC))
	c := New(NewMemoryStore(clock), nil)
	key := NewKey("sector_board")

	calls := 0
	compute := func(context.Context) (board, time.Duration) {
		calls++
		return board{Rows: []string{"半导体"}}, 600 * time.Second
	}

	first := GetOrCompute(context.Background(), c, key, compute)
	clock.Advance(599 * time.Second)
	second := GetOrCompute(context.Background(), c, key, compute)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestGetOrCompute_RefreshAfterExpiry(t *testing.T) {
	start := time.Date(2024, 5, 13, 10, 0, 0, 0, time.UTC)
	clock := NewManualClock(start)
	store := NewMemoryStore(clock)
	c := New(store, nil)
	key := NewKey("sector_board")

	calls := 0
	compute := func(context.Context) (board, time.Duration) {
		calls++
		return board{Rows: []string{"v"}}, 600 * time.Second
	}

	GetOrCompute(context.Background(), c, key, compute)
	clock.Advance(600 * time.Second)
	GetOrCompute(context.Background(), c, key, compute)

	assert.Equal(t, 2, calls)
	storedAt, ok := store.StoredAt(key.String())
	require.True(t, ok)
	assert.Equal(t, start.Add(600*time.Second), storedAt)
}

func TestGetOrCompute_ZeroTTLNotCached(t *testing.T) {
	c := New(NewMemoryStore(NewManualClock(time.Now())), nil)
	key := NewKey("leaders", "20240513")

	calls := 0
	compute := func(context.Context) (board, time.Duration) {
		calls++
		return board{}, 0
	}

	GetOrCompute(context.Background(), c, key, compute)
	GetOrCompute(context.Background(), c, key, compute)

	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_DistinctArgs(t *testing.T) {
	c := New(NewMemoryStore(NewManualClock(time.Now())), nil)

	v1 := GetOrCompute(context.Background(), c, NewKey("leaders", "20240510"), func(context.Context) (string, time.Duration) {
		return "fri", time.Hour
	})
	v2 := GetOrCompute(context.Background(), c, NewKey("leaders", "20240509"), func(context.Context) (string, time.Duration) {
		return "thu", time.Hour
	})

	assert.Equal(t, "fri", v1)
	assert.Equal(t, "thu", v2)
}

func TestGetOrCompute_StoreFailureDegrades(t *testing.T) {
	c := New(failingStore{}, nil)

	v := GetOrCompute(context.Background(), c, NewKey("x"), func(context.Context) (int, time.Duration) {
		return 42, time.Minute
	})

	assert.Equal(t, 42, v)
}

func TestGetOrCompute_UndecodableEntryRecomputes(t *testing.T) {
	clock := NewManualClock(time.Now())
	store := NewMemoryStore(clock)
	require.NoError(t, store.Set(context.Background(), "x", []byte("{not json"), time.Hour))
	c := New(store, nil)

	v := GetOrCompute(context.Background(), c, NewKey("x"), func(context.Context) (int, time.Duration) {
		return 7, time.Hour
	})

	assert.Equal(t, 7, v)
}

func TestGetOrCompute_Observer(t *testing.T) {
	obs := &countingObserver{}
	c := New(NewMemoryStore(NewManualClock(time.Now())), nil).WithObserver(obs)
	compute := func(context.Context) (int, time.Duration) { return 1, time.Minute }

	GetOrCompute(context.Background(), c, NewKey("sector_board"), compute)
	GetOrCompute(context.Background(), c, NewKey("sector_board"), compute)
	GetOrCompute(context.Background(), c, NewKey("sector_board"), compute)

	assert.Equal(t, 1, obs.counts["sector_board/miss"])
	assert.Equal(t, 2, obs.counts["sector_board/hit"])
}

func TestMemoryStore_KeepsExpiredUntilOverwritten(t *testing.T) {
	clock := NewManualClock(time.Now())
	store := NewMemoryStore(clock)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k", []byte("1"), time.Second))
	clock.Advance(2 * time.Second)

	_, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Set(ctx, "k", []byte("2"), time.Second))
	data, found, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("2"), data)
}

func TestGetOrCompute_ConcurrentCallers(t *testing.T) {
	c := New(NewMemoryStore(SystemClock{}), nil)
	key := NewKey("concurrent")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v := GetOrCompute(context.Background(), c, key, func(context.Context) (string, time.Duration) {
				return "same", time.Minute
			})
			assert.Equal(t, "same", v)
		}()
	}
	wg.Wait()
}
