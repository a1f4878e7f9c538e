package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/fundlens/backend/internal/analytics"
	"github.com/wonny/fundlens/backend/internal/api"
	"github.com/wonny/fundlens/backend/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "启动 API 服务",
	Long: `启动 REST API 服务。

这个命令会：
- 启动 HTTP API 服务
- 提供业绩报告数据端点
- 指标、归因数据查询

Endpoints:
  GET  /health                  - Health check
  GET  /api/report/overview     - 产品表现总览
  GET  /api/report/metrics      - 全量业绩指标
  GET  /api/report/attribution  - Brinson 与行业归因
  GET  /api/report/full         - 完整报告数据包

Example:
  go run ./cmd/fundlens api
  go run ./cmd/fundlens api --port 8089`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 服务端口（默认取 PORT）")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== FundLens API Server ===")

	cfg, log, db, cache, err := initDeps()
	if err != nil {
		return err
	}
	defer db.Close()
	defer cache.Close()

	// Override port if flag is set
	if apiPort != "" {
		cfg.Port = apiPort
	}

	log.WithFields(map[string]interface{}{
		"port": cfg.Port,
		"env":  cfg.Env,
	}).Info("Initializing API server")

	service := buildService(cfg, log, db, cache)

	reportCache := analytics.NewReportCache(5*time.Minute, log)
	reportHandler := handlers.NewReportHandler(service, reportCache, log)
	router := api.NewRouter(reportHandler, log)
	server := api.New(cfg, log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/report/overview")
	fmt.Println("  GET  /api/report/metrics")
	fmt.Println("  GET  /api/report/attribution")
	fmt.Println("  GET  /api/report/full")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
