package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/export"
	"github.com/wonny/dragonboard/internal/leader"
)

// leadersCmd represents the leaders command
var leadersCmd = &cobra.Command{
	Use:   "leaders",
	Short: "龙头强度榜 (连板复盘)",
	Long: `从指定日期 (默认今天) 向前回溯, 取第一个有涨停数据的交易日,
按 连板数 → 涨跌幅 → 封板强度 → 最后封板时间 排序.

Example:
  go run ./cmd/dragonboard leaders
  go run ./cmd/dragonboard leaders --date 20240509 --xlsx dragon.xlsx`,
	Args: cobra.NoArgs,
	RunE: runLeaders,
}

var (
	leadersDate string
	leadersCSV  string
	leadersXLSX string
)

func init() {
	rootCmd.AddCommand(leadersCmd)

	leadersCmd.Flags().StringVar(&leadersDate, "date", "", "参考日期 YYYYMMDD (默认今天)")
	leadersCmd.Flags().StringVar(&leadersCSV, "csv", "", "导出 CSV 到文件")
	leadersCmd.Flags().StringVar(&leadersXLSX, "xlsx", "", "导出 Excel 到文件")
}

func runLeaders(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	ref := a.service.Now()
	if leadersDate != "" {
		if ref, err = leader.ParseDate(leadersDate, a.service.Location()); err != nil {
			return fmt.Errorf("--date must be YYYYMMDD: %w", err)
		}
	}

	board := a.service.Leaders(context.Background(), ref)

	tradeDate := board.TradeDate
	if tradeDate == "" {
		tradeDate = "-"
	}
	PrintHeader("龙头强度榜",
		[2]string{"Reference", leader.FormatDate(ref)},
		[2]string{"Trade date", tradeDate},
		[2]string{"Sort", strings.Join(board.SortKeys, " → ")},
	)

	if board.Empty() {
		PrintWarning(contracts.LeaderNoDataMessage)
		if board.Detail != "" {
			PrintMuted(fmt.Sprintf("[%s] %s", board.NoData, board.Detail))
		}
	} else {
		printLeaderTable(board)
	}
	printAttempts(board.Attempts)

	sheet := export.LeaderSheet(board)
	if leadersCSV != "" {
		if err := writeFile(leadersCSV, func(f *os.File) error { return export.WriteCSV(f, sheet) }); err != nil {
			return err
		}
		PrintSuccess("Exported " + leadersCSV)
	}
	if leadersXLSX != "" {
		if err := writeFile(leadersXLSX, func(f *os.File) error { return export.WriteXLSX(f, sheet) }); err != nil {
			return err
		}
		PrintSuccess("Exported " + leadersXLSX)
	}
	return nil
}

func printLeaderTable(board contracts.Leaderboard) {
	widths := []int{4, 8, 10, 6, 9, 9, 12, 8}
	PrintTableHeader(append([]string{"#"}, export.LeaderHeaders...), widths)
	for i, r := range board.Rows {
		values := []string{
			fmt.Sprintf("%d", i+1),
			r.Symbol,
			r.Name,
			fmt.Sprintf("%d", r.ConsecutiveLimitDays),
			formatPct(r.ChangePercent),
			fmt.Sprintf("%.2f", r.LockupStrength),
			r.LastLockTime,
			fmt.Sprintf("%.2f%%", r.TurnoverRate),
		}
		if board.MaxConsecutive > 0 && r.ConsecutiveLimitDays == board.MaxConsecutive {
			PrintHotRow(values, widths)
			continue
		}
		PrintTableRow(values, widths)
	}
}

func printAttempts(attempts []contracts.Attempt) {
	if len(attempts) == 0 {
		return
	}
	parts := make([]string, 0, len(attempts))
	for _, at := range attempts {
		parts = append(parts, at.Date+":"+string(at.Outcome))
	}
	PrintMuted("attempts: " + strings.Join(parts, " "))
}
