package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/export"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/pkg/config"
)

// sectorsCmd represents the sectors command
var sectorsCmd = &cobra.Command{
	Use:   "sectors",
	Short: "主线板块热度排行",
	Long: `拉取行业板块快照, 按吸金率排序并显示海外映射.

默认只保留上涨板块; --all 保留全部板块.
未指定 --select 时选中排名第一的板块.

Example:
  go run ./cmd/dragonboard sectors
  go run ./cmd/dragonboard sectors --all --csv sectors.csv
  go run ./cmd/dragonboard sectors --select 半导体`,
	Args: cobra.NoArgs,
	RunE: runSectors,
}

var (
	sectorsAll    bool
	sectorsCSV    string
	sectorsSelect string
)

func init() {
	rootCmd.AddCommand(sectorsCmd)

	sectorsCmd.Flags().BoolVar(&sectorsAll, "all", false, "包含下跌板块")
	sectorsCmd.Flags().StringVar(&sectorsCSV, "csv", "", "导出 CSV 到文件")
	sectorsCmd.Flags().StringVar(&sectorsSelect, "select", "", "选中板块 (默认第一名)")
}

func runSectors(cmd *cobra.Command, args []string) error {
	a, err := newApp(func(cfg *config.Config) {
		if sectorsAll {
			cfg.Ranking.ChangeFilter = "all"
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()
	view := a.service.Mainline(ctx, contracts.Select(strings.TrimSpace(sectorsSelect)))
	board := view.Board

	PrintHeader("主线板块热度排行",
		[2]string{"Time", a.service.Now().Format("2006-01-02 15:04:05")},
		[2]string{"Filter", board.Filter},
		[2]string{"Snapshot", fmt.Sprintf("%d boards", board.SnapshotSize)},
	)

	if board.Empty() {
		PrintWarning(view.Message)
		if board.Detail != "" {
			PrintMuted(fmt.Sprintf("[%s] %s", board.NoData, board.Detail))
		}
	} else {
		printSectorTable(board)
	}
	if len(board.MissingFields) > 0 {
		PrintMuted("missing columns: " + strings.Join(board.MissingFields, ", "))
	}

	if view.Mapping != nil {
		printMapping(*view.Mapping)
	}

	if sectorsCSV != "" {
		if err := writeFile(sectorsCSV, func(f *os.File) error {
			return export.WriteCSV(f, export.SectorSheet(board))
		}); err != nil {
			return err
		}
		PrintSuccess("Exported " + sectorsCSV)
	}
	return nil
}

func printSectorTable(board contracts.SectorBoard) {
	widths := []int{4, 14, 9, 10, 8, 8, 10}
	PrintTableHeader(append([]string{"#"}, export.SectorHeaders...), widths)
	for i, r := range board.Rows {
		PrintTableRow([]string{
			fmt.Sprintf("%d", i+1),
			r.Name,
			formatPct(r.ChangePercent),
			formatYi(r.Turnover),
			fmt.Sprintf("%.2f%%", r.TurnoverRate),
			fmt.Sprintf("%.2f%%", r.CaptureRate),
			fmt.Sprintf("%.2f", r.HeatScore),
		}, widths)
	}
}

func printMapping(gm contracts.GlobalMapping) {
	fmt.Println()
	fmt.Printf("🌐 %s → 海外映射\n", gm.Sector)
	items := make([]string, 0, len(gm.Targets))
	for _, t := range gm.Targets {
		items = append(items, t.String())
	}
	PrintList(items)
	if gm.Note != "" {
		PrintInfo(gm.Note)
	}
	PrintMuted(mapping.Hint)
}

// writeFile creates path and hands it to write, closing it afterwards
func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

