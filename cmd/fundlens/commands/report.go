package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "生成完整业绩报告",
	Long: `基于交割单计算完整业绩报告并输出 JSON。

这个命令会：
- 读取交割单（CSV 或数据库）
- 计算每日资产分布与净值序列
- 计算全部业绩指标与风险分类
- 计算 Brinson 归因、持仓与交易分析

Example:
  go run ./cmd/fundlens report
  go run ./cmd/fundlens report --out report.json`,
	RunE: runReport,
}

var (
	reportOut string
)

func init() {
	rootCmd.AddCommand(reportCmd)

	// Flags
	reportCmd.Flags().StringVar(&reportOut, "out", "", "输出文件路径（默认打印到 stdout）")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, log, db, cache, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()
	defer cache.Close()

	service := buildService(cfg, log, db, cache)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	full, err := service.BuildFullReport(ctx)
	if err != nil {
		return fmt.Errorf("build full report: %w", err)
	}

	log.WithFields(map[string]interface{}{
		"nav_date": full.Overview.LatestNavDate,
		"duration": time.Since(start).String(),
	}).Info("Report generated")

	data, err := json.MarshalIndent(full, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if reportOut == "" {
		fmt.Println(string(data))
		return nil
	}

	if err := os.WriteFile(reportOut, data, 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}

	fmt.Printf("✅ Report written to %s\n", reportOut)
	fmt.Printf("   Latest NAV date: %s\n", full.Overview.LatestNavDate)
	fmt.Printf("   Unit NAV: %.4f\n", full.Overview.UnitNav)
	fmt.Printf("   Total return: %.2f%%\n", full.Overview.TotalReturn)
	return nil
}
