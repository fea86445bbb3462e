package leader

import "github.com/wonny/dragonboard/internal/table"

// Logical fields of a limit-up pool
const (
	FieldSymbol        table.Field = "symbol"
	FieldName          table.Field = "name"
	FieldConsecutive   table.Field = "consecutive_limit_days"
	FieldChangePercent table.Field = "change_percent"
	FieldLockupFunds   table.Field = "lockup_funds"
	FieldTurnover      table.Field = "turnover"
	FieldTurnoverRate  table.Field = "turnover_rate"
	FieldLastLockTime  table.Field = "last_lock_time"
	FieldIndustry      table.Field = "industry"
)

// PoolSchema lists the column tokens accepted for each field.
// 封板资金 (akshare) 与 封单资金 (旧数据源) 都接受
var PoolSchema = table.Schema{
	FieldSymbol:        {"代码", "code", "symbol"},
	FieldName:          {"名称", "name"},
	FieldConsecutive:   {"连板数", "连板", "consecutive"},
	FieldChangePercent: {"涨跌幅", "change_percent", "pct_chg"},
	FieldLockupFunds:   {"封板资金", "封单资金", "封单", "lockup_funds"},
	FieldTurnover:      {"成交额", "turnover_amount", "amount"},
	FieldTurnoverRate:  {"换手率", "turnover_rate"},
	FieldLastLockTime:  {"最后封板时间", "最后封板", "last_lock_time"},
	FieldIndustry:      {"所属行业", "行业", "industry"},
}
