package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fundlens",
	Short: "FundLens - 私募基金业绩分析系统",
	Long: `FundLens Unified CLI

基于交割单的基金业绩分析与归因系统。
净值计算、风险指标、Brinson 归因、持仓与交易分析。

Usage:
  go run ./cmd/fundlens [command]

Examples:
  go run ./cmd/fundlens api
  go run ./cmd/fundlens report --out report.json
  go run ./cmd/fundlens test-db
  go run ./cmd/fundlens test-logger`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
