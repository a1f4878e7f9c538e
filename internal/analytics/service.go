package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/fundlens/backend/internal/attribution"
	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/internal/ledger"
	"github.com/wonny/fundlens/backend/internal/marketdata"
	"github.com/wonny/fundlens/backend/internal/nav"
	"github.com/wonny/fundlens/backend/internal/report"
	"github.com/wonny/fundlens/backend/internal/trading"
	"github.com/wonny/fundlens/backend/pkg/config"
	"github.com/wonny/fundlens/backend/pkg/logger"
)

// LedgerSource supplies the reconciled trade ledger.
type LedgerSource interface {
	TradePairs(ctx context.Context) ([]ledger.TradePair, error)
}

// Service assembles the full performance report from ledger and market data.
// ⭐ SSOT: 报告数据包只在这里组装
//
// 除台账外的协作方都是可选的：缺基准则只出绝对收益口径，
// 缺行业数据则跳过 Brinson 归因，对应字段留空并记录告警。
type Service struct {
	cfg    *config.Config
	logger *logger.Logger

	source     LedgerSource
	prices     marketdata.MatrixProvider
	indexQuote marketdata.PriceProvider
	index      marketdata.IndexProvider
	mapper     marketdata.IndustryMapper
}

// NewService creates the report assembly service. Optional collaborators
// may be nil.
func NewService(
	cfg *config.Config,
	log *logger.Logger,
	source LedgerSource,
	prices marketdata.MatrixProvider,
	indexQuote marketdata.PriceProvider,
	index marketdata.IndexProvider,
	mapper marketdata.IndustryMapper,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log,
		source:     source,
		prices:     prices,
		indexQuote: indexQuote,
		index:      index,
		mapper:     mapper,
	}
}

// FullReport is the complete analytics payload consumed by the report
// endpoints, the CLI export and the daily snapshot job.
type FullReport struct {
	GeneratedAt string `json:"generated_at"`

	Overview          report.PerformanceOverview `json:"overview"`
	NavPerformance    report.NavPerformance      `json:"nav_performance"`
	Drawdown          report.DrawdownData        `json:"drawdown"`
	Metrics           nav.AllMetrics             `json:"metrics"`
	MetricsTable      [][]string                 `json:"metrics_table"`
	AssetDistribution []ledger.DailyAssetRow     `json:"asset_distribution"`

	Brinson             report.BrinsonData                    `json:"brinson"`
	IndustryAttribution []attribution.IndustryAttributionRow  `json:"industry_attribution"`
	IndustryProfitTable [][]string                            `json:"industry_profit_table"`
	IndustryLossTable   [][]string                            `json:"industry_loss_table"`
	StockPerformance    []attribution.StockPerformanceRow     `json:"stock_performance"`
	StockProfitTable    [][]string                            `json:"stock_profit_table"`
	StockLossTable      [][]string                            `json:"stock_loss_table"`
	PositionNodes       []attribution.PositionNode            `json:"position_nodes"`
	PositionNodesTable  [][]string                            `json:"position_nodes_table"`

	TurnoverRates     map[string]map[string]float64   `json:"turnover_rates"`
	TurnoverTable     [][]string                      `json:"turnover_table"`
	TradingStats      map[string]trading.TradingStats `json:"trading_stats"`
	TradingStatsTable [][]string                      `json:"trading_stats_table"`
}

// topN rows shown in the profit/loss ranking tables
const rankingTopN = 10

// BuildFullReport computes every section of the report.
func (s *Service) BuildFullReport(ctx context.Context) (*FullReport, error) {
	pairs, err := s.source.TradePairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("load trade ledger: %w", err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("trade ledger is empty")
	}

	startDate, endDate := ledger.DateBounds(pairs)
	establishDate := s.cfg.Fund.EstablishDate
	if establishDate == "" {
		establishDate = startDate
	}

	prices := s.loadPrices(ctx, pairs, startDate, endDate)

	rows, err := ledger.CalculateDailyAssetDistribution(pairs, s.cfg.Fund.InitialCapital, prices)
	if err != nil {
		return nil, fmt.Errorf("daily asset distribution: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("valuation series is empty")
	}
	lastDate := rows[len(rows)-1].Date

	points := nav.CalculateNav(BuildAssetSnapshots(rows), s.cfg.Fund.InitialCapital)

	periods, err := BuildPeriods(establishDate, lastDate)
	if err != nil {
		return nil, err
	}

	bench := s.loadBenchmark(ctx, establishDate, lastDate, periods)

	full := &FullReport{
		GeneratedAt:       time.Now().Format(time.RFC3339),
		AssetDistribution: rows,
	}

	full.Overview = report.BuildPerformanceOverview(points, report.ProductInfo{
		Name:              s.cfg.Fund.Name,
		EstablishmentDate: establishDate,
	}, s.cfg.Fund.RiskFreeRate, bench.returns, bench.overallReturn, bench.returnDates)

	full.NavPerformance = report.BuildNavPerformance(
		points, periods, PeriodOrder, s.cfg.Fund.RiskFreeRate,
		bench.navPoints, bench.returns, bench.periodReturns, bench.returnDates,
	)

	full.Drawdown = report.BuildDrawdownData(points, bench.navPoints)

	full.Metrics = nav.CalculateAllMetrics(
		points, s.cfg.Fund.RiskFreeRate,
		bench.returns, bench.overallReturn, bench.returnDates,
	)
	full.MetricsTable = report.FormatMetricsTable(full.Metrics)

	s.buildAttribution(ctx, full, pairs, prices, rows, lastDate)
	s.buildTrading(full, pairs, rows, periods)

	return full, nil
}

// benchmarkData is everything derived from the benchmark close series.
type benchmarkData struct {
	navPoints     []nav.Point
	returns       []float64
	returnDates   []string
	overallReturn *float64
	periodReturns map[string]float64
}

// loadPrices fetches the close matrix, degrading to trade prices on failure.
func (s *Service) loadPrices(ctx context.Context, pairs []ledger.TradePair, startDate, endDate string) ledger.PriceTable {
	if s.prices == nil {
		return ledger.PriceTable{}
	}
	table, err := s.prices.CloseMatrix(ctx, ledger.Codes(pairs), startDate, endDate)
	if err != nil {
		// 行情缺失时估值层会回退用成交价
		s.logger.WithError(err).Warn("Close matrix unavailable, falling back to trade prices")
		return ledger.PriceTable{}
	}
	return table
}

// loadBenchmark fetches and derives all benchmark series. Any failure
// degrades to the absolute-return rendition of the report.
func (s *Service) loadBenchmark(ctx context.Context, startDate, endDate string, periods nav.Periods) benchmarkData {
	var data benchmarkData
	if s.indexQuote == nil {
		return data
	}

	closes, err := s.indexQuote.DailyCloses(ctx, s.cfg.Fund.BenchmarkIndex, startDate, endDate)
	if err != nil {
		s.logger.WithError(err).Warn("Benchmark closes unavailable")
		return data
	}
	if len(closes) == 0 {
		return data
	}

	data.returns, data.returnDates = marketdata.BenchmarkReturns(closes)

	overall := benchmark.CalculatePeriodReturn(closes, "", "")
	data.overallReturn = &overall

	data.periodReturns = make(map[string]float64, len(periods))
	for name, window := range periods {
		data.periodReturns[name] = benchmark.CalculatePeriodReturn(closes, window.Start, window.End)
	}

	// 回撤与超额曲线只关心形状，直接用收盘价作净值
	data.navPoints = make([]nav.Point, 0, len(closes))
	for _, p := range closes {
		data.navPoints = append(data.navPoints, nav.Point{Date: p.Date, Nav: p.Close})
	}
	return data
}

// buildAttribution fills the attribution sections, skipping Brinson when
// index composition data is unavailable.
func (s *Service) buildAttribution(
	ctx context.Context,
	full *FullReport,
	pairs []ledger.TradePair,
	prices ledger.PriceTable,
	rows []ledger.DailyAssetRow,
	lastDate string,
) {
	positions := BuildPerformancePositions(pairs, prices, lastDate)
	totalAssets := rows[len(rows)-1].TotalAssets
	totalProfit := 0.0
	for _, p := range positions {
		totalProfit += p.ProfitLoss
	}

	mapping := s.loadIndustryMapping(ctx, pairs)

	var benchWeights map[string]float64
	var benchReturnsByDate map[string]map[string]float64
	if s.index != nil {
		var err error
		benchWeights, err = s.index.IndustryWeights(ctx, s.cfg.Fund.BenchmarkIndex, lastDate)
		if err != nil {
			s.logger.WithError(err).Warn("Benchmark industry weights unavailable")
		}
		benchReturnsByDate, err = s.index.IndustryReturns(ctx, s.cfg.Fund.BenchmarkIndex, rows[0].Date, lastDate)
		if err != nil {
			s.logger.WithError(err).Warn("Benchmark industry returns unavailable")
		}
	}

	full.IndustryAttribution = attribution.CalculateIndustryAttribution(
		positions, totalAssets, totalProfit, mapping,
		benchWeights, compoundIndustryReturns(benchReturnsByDate),
	)
	full.IndustryProfitTable, full.IndustryLossTable =
		report.FormatIndustryTables(full.IndustryAttribution, rankingTopN)

	full.StockPerformance = attribution.CalculateStockPerformance(positions, totalAssets, totalProfit)
	full.StockProfitTable, full.StockLossTable =
		report.FormatStockTables(full.StockPerformance, rankingTopN)

	full.PositionNodes = attribution.CalculatePositionNodes(positions, totalAssets)
	full.PositionNodesTable = report.FormatPositionNodesTable(full.PositionNodes)

	if len(benchWeights) == 0 && len(benchReturnsByDate) == 0 {
		s.logger.Warn("Skipping Brinson attribution: no index composition data")
		return
	}
	snapshots := BuildDailySnapshots(pairs, prices, rows)
	full.Brinson = report.BuildBrinsonData(
		snapshots, mapping, nil, benchReturnsByDate, benchWeights, nil,
	)
}

// buildTrading fills turnover and trading statistics.
func (s *Service) buildTrading(full *FullReport, pairs []ledger.TradePair, rows []ledger.DailyAssetRow, periods nav.Periods) {
	transactions := BuildTransactions(pairs)
	positions := BuildDailyPositions(rows)

	full.TurnoverRates = trading.CalculateTurnoverRates(
		transactions, positions, TradingWindows(periods), nil,
	)
	full.TurnoverTable = report.FormatTurnoverTable(trading.DefaultAssetClasses, PeriodOrder, full.TurnoverRates)

	full.TradingStats = trading.CalculateTradingStatistics(transactions, nil)
	full.TradingStatsTable = report.FormatTradingStatsTable(trading.DefaultAssetClasses, full.TradingStats)
}

// compoundIndustryReturns folds daily industry returns into period
// returns per industry（复利，小数形式）。
func compoundIndustryReturns(byDate map[string]map[string]float64) map[string]float64 {
	if len(byDate) == 0 {
		return nil
	}
	compounded := make(map[string]float64)
	for _, daily := range byDate {
		for industry, r := range daily {
			growth, ok := compounded[industry]
			if !ok {
				growth = 1.0
			}
			compounded[industry] = growth * (1 + r)
		}
	}
	for industry, growth := range compounded {
		compounded[industry] = growth - 1
	}
	return compounded
}

func (s *Service) loadIndustryMapping(ctx context.Context, pairs []ledger.TradePair) map[string]string {
	if s.mapper == nil {
		return nil
	}
	mapping, err := s.mapper.IndustryOf(ctx, ledger.Codes(pairs))
	if err != nil {
		// 行业缺失统一落入未知行业桶
		s.logger.WithError(err).Warn("Industry mapping unavailable")
		return nil
	}
	return mapping
}
