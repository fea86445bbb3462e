package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "缓存预热调度",
	Long: `启动缓存预热调度或管理任务.

Subcommands:
  start   - 启动调度器
  list    - 已注册任务
  run     - 立即执行指定任务

Example:
  go run ./cmd/dragonboard scheduler start
  go run ./cmd/dragonboard scheduler list
  go run ./cmd/dragonboard scheduler run warm_leaders`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "启动调度器",
		Long: `启动调度器 (市场时区), 注册的任务:
- warm_sectors: 交易日 09:00-15:55 每 5 分钟
- warm_leaders: 交易日 15:05

Ctrl+C 退出.`,
		RunE: runScheduler,
	}

	schedulerListCmd = &cobra.Command{
		Use:   "list",
		Short: "已注册任务",
		RunE:  listJobs,
	}

	schedulerRunCmd = &cobra.Command{
		Use:   "run [job_name]",
		Short: "立即执行指定任务",
		Args:  cobra.ExactArgs(1),
		RunE:  runJob,
	}
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Dragonboard Scheduler ===")

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	sched.Start()

	fmt.Println("\n✅ Scheduler started successfully")
	fmt.Println("\nRegistered jobs:")
	for _, job := range sched.GetAllJobs() {
		fmt.Printf("  - %s (%s)\n", job.Name(), job.Schedule())
	}
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	fmt.Println("\nShutting down scheduler...")
	sched.Stop()

	for name, stat := range sched.GetJobStats() {
		fmt.Printf("📊 %s: %d runs, %.1f%% success\n", name, stat.TotalRuns, stat.SuccessRate*100)
	}
	return nil
}

func listJobs(cmd *cobra.Command, args []string) error {
	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	widths := []int{14, 24, 26, 20}
	PrintTableHeader([]string{"Job", "Schedule", "Description", "Next run"}, widths)
	for _, job := range sched.GetAllJobs() {
		next := "-"
		if t, ok := sched.NextRun(job.Name()); ok {
			next = t.Format("2006-01-02 15:04:05")
		}
		PrintTableRow([]string{job.Name(), job.Schedule(), job.Description(), next}, widths)
	}
	return nil
}

func runJob(cmd *cobra.Command, args []string) error {
	jobName := args[0]

	a, err := newApp(nil)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := a.newScheduler()
	if err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}

	fmt.Printf("Running job: %s\n", jobName)
	result, err := sched.RunJob(context.Background(), jobName)
	if err != nil {
		return fmt.Errorf("run job: %w", err)
	}

	if !result.Success {
		PrintError(fmt.Sprintf("%s failed after %d attempts: %s", jobName, result.Attempts, result.Error))
		return fmt.Errorf("job %s failed", jobName)
	}
	PrintSuccess(fmt.Sprintf("%s completed in %.2fs", jobName, result.Duration.Seconds()))
	return nil
}
