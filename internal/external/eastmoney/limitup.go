package eastmoney

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/table"
)

// 涨停股池列 (与 akshare stock_zt_pool_em 一致)
var poolColumns = []string{
	"代码", "名称", "涨跌幅", "最新价", "成交额", "流通市值", "总市值", "换手率",
	"封板资金", "首次封板时间", "最后封板时间", "炸板次数", "涨停统计", "连板数", "所属行业",
}

// FetchLimitUpPool fetches the limit-up pool (涨停股池) of one trade date
func (c *Client) FetchLimitUpPool(ctx context.Context, date time.Time) (*table.Table, error) {
	params := url.Values{
		"ut":        {"7eea3edcaed734bea9cbfc24409ed989"},
		"dpt":       {"wz.ztzt"},
		"Pageindex": {"0"},
		"pagesize":  {"10000"},
		"sort":      {"fbt:asc"},
		"date":      {date.Format("20060102")},
	}

	body, err := c.getJSON(ctx, c.ztPoolURL, params)
	if err != nil {
		c.observe(SourceLimitUpPool, OutcomeError)
		return nil, fmt.Errorf("failed to fetch limit-up pool %s: %w", date.Format("20060102"), err)
	}

	t, err := parsePool(body)
	switch {
	case errors.Is(err, contracts.ErrNoData):
		c.observe(SourceLimitUpPool, OutcomeEmpty)
		return nil, err
	case err != nil:
		c.observe(SourceLimitUpPool, OutcomeError)
		return nil, err
	}

	c.observe(SourceLimitUpPool, OutcomeOK)
	c.logger.WithFields(map[string]interface{}{
		"date": date.Format("20060102"),
		"rows": t.Len(),
	}).Debug("Limit-up pool fetched")
	return t, nil
}

func parsePool(body []byte) (*table.Table, error) {
	data := gjson.GetBytes(body, "data")
	if !data.Exists() || data.Type == gjson.Null {
		return nil, contracts.ErrNoData
	}

	items := data.Get("pool")
	if !items.IsArray() {
		return nil, fmt.Errorf("eastmoney: no data.pool in limit-up response")
	}

	t := table.New(poolColumns...)
	for _, item := range items.Array() {
		rec := table.Record{
			"代码":     cell(item.Get("c")),
			"名称":     cell(item.Get("n")),
			"涨跌幅":    cell(item.Get("zdp")),
			"成交额":    cell(item.Get("amount")),
			"流通市值":   cell(item.Get("ltsz")),
			"总市值":    cell(item.Get("tshare")),
			"换手率":    cell(item.Get("hs")),
			"封板资金":   cell(item.Get("fund")),
			"首次封板时间": clock(item.Get("fbt")),
			"最后封板时间": clock(item.Get("lbt")),
			"炸板次数":   cell(item.Get("zbc")),
			"连板数":    cell(item.Get("lbc")),
			"所属行业":   cell(item.Get("hybk")),
		}

		// 最新价 is reported ×1000
		if p := item.Get("p"); p.Type == gjson.Number {
			rec["最新价"] = p.Float() / 1000
		}
		if days, ct := item.Get("zttj.days"), item.Get("zttj.ct"); days.Exists() && ct.Exists() {
			rec["涨停统计"] = fmt.Sprintf("%d/%d", days.Int(), ct.Int())
		}

		t.Append(rec)
	}

	if t.Empty() {
		return nil, contracts.ErrNoData
	}
	return t, nil
}
