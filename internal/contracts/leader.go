package contracts

// LimitUpRow is one stock locked at its daily limit on a trading date
type LimitUpRow struct {
	Symbol               string  `json:"symbol"`
	Name                 string  `json:"name"`
	ConsecutiveLimitDays int     `json:"consecutive_limit_days"` // 连板数
	ChangePercent        float64 `json:"change_percent"`
	LockupFunds          float64 `json:"lockup_funds"` // 封板资金
	Turnover             float64 `json:"turnover"`
	TurnoverRate         float64 `json:"turnover_rate"`
	LastLockTime         string  `json:"last_lock_time"`  // HH:MM:SS
	LockupStrength       float64 `json:"lockup_strength"` // 封板强度: 封板资金 / 成交额 × 100
	Industry             string  `json:"industry,omitempty"`
}

// AttemptOutcome classifies one candidate-date fetch
type AttemptOutcome string

const (
	AttemptOK      AttemptOutcome = "ok"
	AttemptEmpty   AttemptOutcome = "empty"
	AttemptError   AttemptOutcome = "error"
	AttemptSkipped AttemptOutcome = "skipped" // weekend, never fetched
)

// Attempt records what happened for one candidate date
type Attempt struct {
	Date    string         `json:"date"` // YYYYMMDD
	Outcome AttemptOutcome `json:"outcome"`
	Rows    int            `json:"rows"`
	Error   string         `json:"error,omitempty"`
}

// Leaderboard is the leader-strength view for exactly one trading date
type Leaderboard struct {
	Stamp
	TradeDate      string       `json:"trade_date,omitempty"` // YYYYMMDD
	Rows           []LimitUpRow `json:"rows"`
	SortKeys       []string     `json:"sort_keys"`
	MaxConsecutive int          `json:"max_consecutive"`
	Attempts       []Attempt    `json:"attempts"`
}

// Empty reports whether the leaderboard has no rows
func (l *Leaderboard) Empty() bool {
	return len(l.Rows) == 0
}

// LeaderNoDataMessage is the neutral text shown for an empty leaderboard
const LeaderNoDataMessage = "当前时间点无涨停数据或市场未开盘。"
