package eastmoney

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/table"
)

// 行业板块 clist 字段
// f12 板块代码 f14 板块名称 f2 最新价 f4 涨跌额 f3 涨跌幅 f20 总市值 f8 换手率
// f104 上涨家数 f105 下跌家数 f128 领涨股票 f136 领涨股票-涨跌幅 f6 成交额
var boardColumns = []struct {
	field  string
	column string
}{
	{"f12", "板块代码"},
	{"f14", "板块名称"},
	{"f2", "最新价"},
	{"f4", "涨跌额"},
	{"f3", "涨跌幅"},
	{"f20", "总市值"},
	{"f8", "换手率"},
	{"f104", "上涨家数"},
	{"f105", "下跌家数"},
	{"f128", "领涨股票"},
	{"f136", "领涨股票-涨跌幅"},
	{"f6", "成交额"},
}

const boardFields = "f12,f14,f2,f4,f3,f20,f8,f104,f105,f128,f136,f6"

// FetchSectorSnapshot fetches the industry board list (行业板块)
func (c *Client) FetchSectorSnapshot(ctx context.Context) (*table.Table, error) {
	params := url.Values{
		"pn":     {"1"},
		"pz":     {"500"},
		"po":     {"1"},
		"np":     {"1"},
		"ut":     {"bd1d9ddb04089700cf9c27f6f7426281"},
		"fltt":   {"2"},
		"invt":   {"2"},
		"fid":    {"f3"},
		"fs":     {"m:90 t:2 f:!50"},
		"fields": {boardFields},
	}

	body, err := c.getJSON(ctx, c.boardURL, params)
	if err != nil {
		c.observe(SourceSectorBoard, OutcomeError)
		return nil, fmt.Errorf("failed to fetch sector board: %w", err)
	}

	t, err := parseBoard(body)
	switch {
	case errors.Is(err, contracts.ErrNoData):
		c.observe(SourceSectorBoard, OutcomeEmpty)
		return nil, err
	case err != nil:
		c.observe(SourceSectorBoard, OutcomeError)
		return nil, err
	}

	c.observe(SourceSectorBoard, OutcomeOK)
	c.logger.WithField("sectors", t.Len()).Debug("Sector board fetched")
	return t, nil
}

func parseBoard(body []byte) (*table.Table, error) {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, contracts.ErrNoData
	}

	diff := data.Get("diff")
	if !diff.Exists() || !(diff.IsArray() || diff.IsObject()) {
		return nil, fmt.Errorf("eastmoney: no data.diff in board response")
	}

	cols := make([]string, 0, len(boardColumns))
	for _, bc := range boardColumns {
		cols = append(cols, bc.column)
	}
	t := table.New(cols...)

	// np=1 returns an array, np=0 an index-keyed object
	diff.ForEach(func(_, item gjson.Result) bool {
		rec := make(table.Record, len(boardColumns))
		for _, bc := range boardColumns {
			rec[bc.column] = cell(item.Get(bc.field))
		}
		if rec["板块名称"] != nil {
			t.Append(rec)
		}
		return true
	})

	if t.Empty() {
		return nil, contracts.ErrNoData
	}
	return t, nil
}
