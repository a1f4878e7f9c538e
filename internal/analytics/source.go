package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/internal/ledger"
)

// CSVLedger loads the trade ledger from an exported 交割单 CSV file.
type CSVLedger struct {
	path string
}

// NewCSVLedger creates a CSV-file ledger source
func NewCSVLedger(path string) *CSVLedger {
	return &CSVLedger{path: path}
}

// TradePairs implements LedgerSource.
func (l *CSVLedger) TradePairs(_ context.Context) ([]ledger.TradePair, error) {
	return ledger.LoadCSV(l.path)
}

// TradeRepository is the pgx-backed ledger source.
// ⭐ SSOT: 交割单入库数据只从这里读
type TradeRepository struct {
	pool *pgxpool.Pool
}

// NewTradeRepository creates a new trade ledger repository
func NewTradeRepository(pool *pgxpool.Pool) *TradeRepository {
	return &TradeRepository{pool: pool}
}

// TradePairs retrieves the reconciled ledger ordered by buy date.
func (r *TradeRepository) TradePairs(ctx context.Context) ([]ledger.TradePair, error) {
	query := `
		SELECT stock_code, stock_name, buy_date, sell_date,
		       buy_price, sell_price, buy_shares, sell_shares,
		       buy_amount, sell_amount
		FROM fund.trade_pairs
		ORDER BY buy_date ASC, stock_code ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query trade pairs: %w", err)
	}
	defer rows.Close()

	var pairs []ledger.TradePair
	for rows.Next() {
		var pair ledger.TradePair
		var buyDate time.Time
		var sellDate *time.Time
		var sellPrice, sellShares, sellAmount *float64
		if err := rows.Scan(
			&pair.Code, &pair.Name, &buyDate, &sellDate,
			&pair.BuyPrice, &sellPrice, &pair.BuyShares, &sellShares,
			&pair.BuyAmount, &sellAmount,
		); err != nil {
			return nil, err
		}
		pair.BuyDate = calendar.FormatDate(buyDate)
		// 未平仓行卖出列均为 NULL
		if sellDate != nil {
			pair.SellDate = calendar.FormatDate(*sellDate)
		}
		if sellPrice != nil {
			pair.SellPrice = *sellPrice
		}
		if sellShares != nil {
			pair.SellShares = *sellShares
		}
		if sellAmount != nil {
			pair.SellAmount = *sellAmount
		}
		pairs = append(pairs, pair)
	}
	return pairs, rows.Err()
}
