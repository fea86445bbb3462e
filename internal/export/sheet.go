// Package export renders ranked views as CSV (UTF-8 with BOM) and XLSX in
// display column order.
package export

import (
	"github.com/wonny/dragonboard/internal/contracts"
)

// Display column order
var (
	SectorHeaders = []string{"板块名称", "涨跌幅", "成交额", "换手率", "吸金率", "综合热度"}
	LeaderHeaders = []string{"代码", "名称", "连板数", "涨跌幅", "封板强度", "最后封板时间", "换手率"}
)

// Sheet is one exportable table
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
	// Highlight marks cells to emphasise as (row, column) indexes into Rows
	Highlight [][2]int
}

// SectorSheet lays out a sector board
func SectorSheet(board contracts.SectorBoard) Sheet {
	s := Sheet{Name: "主线板块", Headers: SectorHeaders}
	for _, r := range board.Rows {
		s.Rows = append(s.Rows, []any{r.Name, r.ChangePercent, r.Turnover, r.TurnoverRate, r.CaptureRate, r.HeatScore})
	}
	return s
}

// LeaderSheet lays out a leaderboard; rows holding the highest 连板数 are
// highlighted.
func LeaderSheet(board contracts.Leaderboard) Sheet {
	s := Sheet{Name: "龙头复盘", Headers: LeaderHeaders}
	for i, r := range board.Rows {
		s.Rows = append(s.Rows, []any{r.Symbol, r.Name, r.ConsecutiveLimitDays, r.ChangePercent, r.LockupStrength, r.LastLockTime, r.TurnoverRate})
		if board.MaxConsecutive > 0 && r.ConsecutiveLimitDays == board.MaxConsecutive {
			s.Highlight = append(s.Highlight, [2]int{i, 2})
		}
	}
	return s
}

// SectorFilename is the download name of a sector board export
func SectorFilename(date, ext string) string {
	return "sector_board_" + date + "." + ext
}

// LeaderFilename is the download name of a leaderboard export
func LeaderFilename(date, ext string) string {
	if date == "" {
		return "dragon_list." + ext
	}
	return "dragon_list_" + date + "." + ext
}
