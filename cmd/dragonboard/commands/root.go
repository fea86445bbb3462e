package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	env     string
	verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dragonboard",
	Short: "龙头看板 - A股主线板块与涨停龙头",
	Long: `Dragonboard Unified CLI

盘中主线板块热度排行, 涨停龙头强度榜, 以及板块到海外标的的映射.
数据来源: 东方财富公开接口.

Usage:
  go run ./cmd/dragonboard [command]

Examples:
  go run ./cmd/dragonboard api
  go run ./cmd/dragonboard sectors --all
  go run ./cmd/dragonboard leaders --date 20240509 --xlsx dragon.xlsx
  go run ./cmd/dragonboard mapping 半导体`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}
