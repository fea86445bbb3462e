package heat

import (
	"fmt"

	"github.com/wonny/dragonboard/internal/table"
)

// Logical fields of a sector snapshot
const (
	FieldName          table.Field = "name"
	FieldTurnover      table.Field = "turnover"
	FieldTurnoverRate  table.Field = "turnover_rate"
	FieldChangePercent table.Field = "change_percent"
)

// SnapshotSchema lists the column tokens accepted for each field.
// 东方财富/akshare 列名优先, 其次英文别名
var SnapshotSchema = table.Schema{
	FieldName:          {"板块名称", "名称", "name"},
	FieldTurnover:      {"成交额", "turnover_amount", "amount"},
	FieldTurnoverRate:  {"换手率", "turnover_rate"},
	FieldChangePercent: {"涨跌幅", "change_percent", "pct_chg"},
}

// ChangeFilter selects which sectors survive ranking by price change
type ChangeFilter string

const (
	// FilterPositive keeps only sectors with changePercent > 0, applied
	// before truncation to the top N.
	FilterPositive ChangeFilter = "positive"
	// FilterNone keeps every sector
	FilterNone ChangeFilter = "all"
)

// ParseChangeFilter converts a config value to a ChangeFilter
func ParseChangeFilter(s string) (ChangeFilter, error) {
	switch ChangeFilter(s) {
	case FilterPositive, FilterNone:
		return ChangeFilter(s), nil
	case "":
		return FilterPositive, nil
	}
	return "", fmt.Errorf("unknown change filter %q (want positive|all)", s)
}
