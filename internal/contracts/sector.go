package contracts

// SectorRow is one industry board with its derived heat metrics
type SectorRow struct {
	Name          string  `json:"name"`
	ChangePercent float64 `json:"change_percent"`
	Turnover      float64 `json:"turnover"`      // 成交额 (元)
	TurnoverRate  float64 `json:"turnover_rate"` // 换手率 (%)
	CaptureRate   float64 `json:"capture_rate"`  // 吸金率: 占整个快照成交额的百分比
	HeatScore     float64 `json:"heat_score"`    // 综合热度: 成交额(亿) × 换手率
}

// SectorBoard is the ranked hot-sector view
type SectorBoard struct {
	Stamp
	Rows          []SectorRow `json:"rows"`
	SnapshotSize  int         `json:"snapshot_size"`
	Filter        string      `json:"filter"`
	MissingFields []string    `json:"missing_fields,omitempty"`
}

// Empty reports whether the board has no rows
func (b *SectorBoard) Empty() bool {
	return len(b.Rows) == 0
}

// Names returns row names in rank order
func (b *SectorBoard) Names() []string {
	names := make([]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		names = append(names, r.Name)
	}
	return names
}

// Contains reports whether a sector name is on the board
func (b *SectorBoard) Contains(name string) bool {
	for _, r := range b.Rows {
		if r.Name == name {
			return true
		}
	}
	return false
}

// SectorNoDataMessage is the neutral text shown for an empty sector board
const SectorNoDataMessage = "暂未获取到主线数据。"
