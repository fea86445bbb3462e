package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/dragonboard/internal/cache"
	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/internal/table"
	"github.com/wonny/dragonboard/pkg/config"
)

var cst = time.FixedZone("CST", 8*60*60)

type fakeSectors struct {
	table *table.Table
	err   error
	calls int
}

func (f *fakeSectors) FetchSectorSnapshot(context.Context) (*table.Table, error) {
	f.calls++
	return f.table, f.err
}

type fakePools struct {
	byDate map[string]*table.Table
	calls  int
}

func (f *fakePools) FetchLimitUpPool(_ context.Context, date time.Time) (*table.Table, error) {
	f.calls++
	if t, ok := f.byDate[date.Format("20060102")]; ok {
		return t, nil
	}
	return nil, contracts.ErrNoData
}

type countingNoData struct {
	events []string
}

func (c *countingNoData) NoDataResult(view, reason string) {
	c.events = append(c.events, view+"/"+reason)
}

func sectorTable(names ...string) *table.Table {
	t := table.New("板块名称", "涨跌幅", "成交额", "换手率")
	for i, n := range names {
		t.Append(table.Record{"板块名称": n, "涨跌幅": 1.0, "成交额": float64(len(names)-i) * 1e9, "换手率": 2.0})
	}
	return t
}

func poolTable() *table.Table {
	t := table.New("代码", "名称", "连板数", "涨跌幅", "封板资金", "成交额", "最后封板时间")
	t.Append(table.Record{"代码": "600584", "名称": "长电科技", "连板数": 2.0, "涨跌幅": 10.0, "封板资金": 1e8, "成交额": 1e9, "最后封板时间": "09:31:00"})
	return t
}

func testConfig() *config.Config {
	return &config.Config{
		Ranking:   config.RankingConfig{TopN: 15, ChangeFilter: "positive", LookbackDays: 5},
		Cache:     config.CacheConfig{SnapshotTTL: 10 * time.Minute, SlowTTL: time.Hour},
		Scheduler: config.SchedulerConfig{Timezone: "Asia/Shanghai"},
	}
}

func newService(t *testing.T, sectors *fakeSectors, pools *fakePools, now time.Time) (*Service, *cache.ManualClock) {
	t.Helper()
	clock := cache.NewManualClock(now)
	c := cache.New(cache.NewMemoryStore(clock), nil)
	s := NewService(testConfig(), sectors, pools, mapping.Default(), c, nil).WithClock(clock)
	return s, clock
}

func TestSectors_CachedForSnapshotTTL(t *testing.T) {
	sectors := &fakeSectors{table: sectorTable("半导体", "软件开发")}
	s, clock := newService(t, sectors, &fakePools{}, time.Date(2024, 5, 13, 10, 0, 0, 0, cst))

	first := s.Sectors(context.Background())
	require.Len(t, first.Rows, 2)

	clock.Advance(9 * time.Minute)
	s.Sectors(context.Background())
	assert.Equal(t, 1, sectors.calls)

	clock.Advance(time.Minute)
	s.Sectors(context.Background())
	assert.Equal(t, 2, sectors.calls)
}

func TestSectors_EmptyNotCached(t *testing.T) {
	sectors := &fakeSectors{err: errors.New("dial tcp: timeout")}
	obs := &countingNoData{}
	s, _ := newService(t, sectors, &fakePools{}, time.Date(2024, 5, 13, 10, 0, 0, 0, cst))
	s.WithObserver(obs)

	b := s.Sectors(context.Background())
	assert.True(t, b.Empty())
	assert.Equal(t, contracts.NoDataUpstreamError, b.NoData)

	s.Sectors(context.Background())
	assert.Equal(t, 2, sectors.calls)
	assert.Equal(t, []string{"sectors/upstream_error", "sectors/upstream_error"}, obs.events)
}

func TestLeaders_TodayUsesSnapshotTTL(t *testing.T) {
	now := time.Date(2024, 5, 13, 14, 0, 0, 0, cst)
	pools := &fakePools{byDate: map[string]*table.Table{"20240513": poolTable()}}
	s, clock := newService(t, &fakeSectors{}, pools, now)

	b := s.Leaders(context.Background(), now)
	assert.Equal(t, "20240513", b.TradeDate)
	assert.Equal(t, 1, pools.calls)

	clock.Advance(10 * time.Minute)
	s.Leaders(context.Background(), now)
	assert.Equal(t, 2, pools.calls)
}

func TestLeaders_PastDateUsesSlowTTL(t *testing.T) {
	now := time.Date(2024, 5, 13, 14, 0, 0, 0, cst)
	ref := time.Date(2024, 5, 10, 0, 0, 0, 0, cst)
	pools := &fakePools{byDate: map[string]*table.Table{"20240510": poolTable()}}
	s, clock := newService(t, &fakeSectors{}, pools, now)

	b := s.Leaders(context.Background(), ref)
	assert.Equal(t, "20240510", b.TradeDate)
	require.Equal(t, 1, pools.calls)

	clock.Advance(30 * time.Minute)
	s.Leaders(context.Background(), ref)
	assert.Equal(t, 1, pools.calls)

	clock.Advance(30 * time.Minute)
	s.Leaders(context.Background(), ref)
	assert.Equal(t, 2, pools.calls)
}

func TestLeaders_TodayFallbackExpiresWithSnapshotTTL(t *testing.T) {
	// Monday before today's pool is published: falls back to Friday
	now := time.Date(2024, 5, 13, 9, 20, 0, 0, cst)
	pools := &fakePools{byDate: map[string]*table.Table{"20240510": poolTable()}}
	s, clock := newService(t, &fakeSectors{}, pools, now)

	b := s.Leaders(context.Background(), now)
	require.Equal(t, "20240510", b.TradeDate)

	pools.byDate["20240513"] = poolTable()
	clock.Advance(11 * time.Minute)

	b = s.Leaders(context.Background(), now)
	assert.Equal(t, "20240513", b.TradeDate)
}

func TestLeaders_ExhaustedNotCached(t *testing.T) {
	now := time.Date(2024, 5, 15, 14, 0, 0, 0, cst)
	pools := &fakePools{}
	obs := &countingNoData{}
	s, _ := newService(t, &fakeSectors{}, pools, now)
	s.WithObserver(obs)

	b := s.Leaders(context.Background(), now)
	assert.True(t, b.Empty())
	assert.Equal(t, contracts.NoDataExhausted, b.NoData)

	s.Leaders(context.Background(), now)
	assert.Equal(t, 6, pools.calls)
	assert.Equal(t, "leaders/exhausted_retries", obs.events[0])
}

func TestMainline_DefaultSelection(t *testing.T) {
	sectors := &fakeSectors{table: sectorTable("半导体", "软件开发")}
	s, _ := newService(t, sectors, &fakePools{}, time.Date(2024, 5, 13, 10, 0, 0, 0, cst))

	view := s.Mainline(context.Background(), contracts.NoSelection())

	require.NotNil(t, view.Selected)
	assert.Equal(t, "半导体", *view.Selected)
	require.NotNil(t, view.Mapping)
	assert.Equal(t, "NVDA", view.Mapping.Targets[0].Symbol)
	assert.Empty(t, view.Message)
}

func TestMainline_ExplicitSelection(t *testing.T) {
	sectors := &fakeSectors{table: sectorTable("半导体", "软件开发")}
	s, _ := newService(t, sectors, &fakePools{}, time.Date(2024, 5, 13, 10, 0, 0, 0, cst))

	view := s.Mainline(context.Background(), contracts.Select("软件开发"))

	require.NotNil(t, view.Selected)
	assert.Equal(t, "软件开发", *view.Selected)
	assert.Equal(t, "MSFT", view.Mapping.Targets[0].Symbol)
}

func TestMainline_EmptyBoard(t *testing.T) {
	sectors := &fakeSectors{err: contracts.ErrNoData}
	s, _ := newService(t, sectors, &fakePools{}, time.Date(2024, 5, 11, 10, 0, 0, 0, cst))

	view := s.Mainline(context.Background(), contracts.NoSelection())
	assert.Nil(t, view.Selected)
	assert.Nil(t, view.Mapping)
	assert.Equal(t, contracts.SectorNoDataMessage, view.Message)

	view = s.Mainline(context.Background(), contracts.Select("银行"))
	require.NotNil(t, view.Mapping)
	assert.True(t, view.Mapping.Fallback)
}

func TestNow_MarketTimezone(t *testing.T) {
	s, _ := newService(t, &fakeSectors{}, &fakePools{}, time.Date(2024, 5, 13, 1, 0, 0, 0, time.UTC))
	assert.Equal(t, 9, s.Now().Hour())
}
