package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/dragonboard/internal/api"
	"github.com/wonny/dragonboard/internal/api/handlers"
	"github.com/wonny/dragonboard/internal/metrics"
	"github.com/wonny/dragonboard/internal/scheduler"
	"github.com/wonny/dragonboard/pkg/config"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "启动 API 服务",
	Long: `启动看板 REST API 服务.

Endpoints:
  GET  /health                - Health check
  GET  /metrics               - Prometheus metrics
  GET  /api/sectors           - 主线板块排行 (?sector= 指定选中板块)
  GET  /api/sectors.csv       - 板块排行导出
  GET  /api/mapping?sector=   - 海外映射
  GET  /api/leaders           - 龙头强度榜 (?date=YYYYMMDD)
  GET  /api/leaders.csv       - 龙头榜 CSV
  GET  /api/leaders.xlsx      - 龙头榜 Excel

Example:
  go run ./cmd/dragonboard api
  go run ./cmd/dragonboard api --port 8080 --scheduler`,
	RunE: runAPIServer,
}

var (
	apiPort      string
	apiScheduler bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 服务端口 (默认 PORT)")
	apiCmd.Flags().BoolVar(&apiScheduler, "scheduler", false, "同时启动缓存预热调度 (默认 SCHEDULER_ENABLED)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Dragonboard API Server ===")

	a, err := newApp(func(cfg *config.Config) {
		if apiPort != "" {
			cfg.Port = apiPort
		}
		if apiScheduler {
			cfg.Scheduler.Enabled = true
		}
	})
	if err != nil {
		return err
	}
	defer a.Close()

	log := a.log
	log.WithFields(map[string]interface{}{
		"port": a.cfg.Port,
		"env":  a.cfg.Env,
	}).Info("Initializing API server")

	var reg *metrics.Registry
	if a.cfg.MetricsEnabled {
		reg = a.metrics
	}

	handler := handlers.NewDashboardHandler(a.service, log)
	router := api.NewRouter(handler, reg, log)
	server := api.New(a.cfg, log, router)

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		if sched, err = a.newScheduler(); err != nil {
			return fmt.Errorf("init scheduler: %w", err)
		}
		sched.Start()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", a.cfg.Port)
	if sched != nil {
		PrintInfo("Cache warming scheduler enabled")
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a listen failure
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	log.Info("Shutting down server...")

	if sched != nil {
		sched.Stop()
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
