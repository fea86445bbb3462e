package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/dragonboard/internal/contracts"
	"github.com/wonny/dragonboard/internal/mapping"
	"github.com/wonny/dragonboard/pkg/config"
)

// mappingCmd represents the mapping command
var mappingCmd = &cobra.Command{
	Use:   "mapping [sector]",
	Short: "板块 → 海外标的映射",
	Long: `查询板块对应的海外对标标的; 不带参数时列出映射表中的全部板块.
映射表默认内置, 可通过 SECTOR_MAPPING_FILE 覆盖.

Example:
  go run ./cmd/dragonboard mapping
  go run ./cmd/dragonboard mapping 半导体`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMapping,
}

func init() {
	rootCmd.AddCommand(mappingCmd)
}

func runMapping(cmd *cobra.Command, args []string) error {
	mapper := mapping.Default()
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.MappingFile != "" {
		if mapper, err = mapping.Load(cfg.MappingFile); err != nil {
			return fmt.Errorf("load mapping: %w", err)
		}
	}

	if len(args) == 0 {
		PrintHeader("映射表板块")
		PrintList(mapper.Sectors())
		fmt.Println()
		PrintInfo("Fallback: " + mapper.Fallback().String())
		return nil
	}

	gm, ok := mapper.Resolve(contracts.Select(strings.TrimSpace(args[0])))
	if !ok {
		return fmt.Errorf("sector name is empty")
	}
	printMapping(gm)
	return nil
}
