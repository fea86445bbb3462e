package contracts

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoDataReason_Valid(t *testing.T) {
	for _, r := range []NoDataReason{NoDataNone, NoDataEmptyUpstream, NoDataUpstreamError, NoDataExhausted} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, NoDataReason("timeout").Valid())
}

func TestSectorBoard_Helpers(t *testing.T) {
	b := SectorBoard{Rows: []SectorRow{{Name: "半导体"}, {Name: "软件开发"}}}

	assert.False(t, b.Empty())
	assert.Equal(t, []string{"半导体", "软件开发"}, b.Names())
	assert.True(t, b.Contains("软件开发"))
	assert.False(t, b.Contains("银行"))

	empty := SectorBoard{}
	assert.True(t, empty.Empty())
	assert.Empty(t, empty.Names())
}

func TestLeaderboard_JSONOmitsEmptyReason(t *testing.T) {
	l := Leaderboard{TradeDate: "20240115", Rows: []LimitUpRow{{Symbol: "600000"}}}

	data, err := json.Marshal(l)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	_, has := decoded["no_data"]
	assert.False(t, has)
	assert.Equal(t, "20240115", decoded["trade_date"])
}

func TestTicker_String(t *testing.T) {
	assert.Equal(t, "NVDA (英伟达)", Ticker{Symbol: "NVDA", Label: "英伟达"}.String())
	assert.Equal(t, "QQQ", Ticker{Symbol: "QQQ"}.String())
}

func TestSelection(t *testing.T) {
	assert.True(t, Select("半导体").Valid)
	assert.False(t, Select("").Valid)
	assert.False(t, NoSelection().Valid)
}
