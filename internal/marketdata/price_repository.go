package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundlens/backend/internal/benchmark"
	"github.com/wonny/fundlens/backend/internal/calendar"
	"github.com/wonny/fundlens/backend/internal/ledger"
)

// PriceRepository is the pgx-backed PriceProvider / MatrixProvider.
// ⭐ SSOT: 日线收盘价只从这里读
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// DailyCloses retrieves the close series for a code within a date range,
// ascending by date.
func (r *PriceRepository) DailyCloses(ctx context.Context, code, startDate, endDate string) ([]benchmark.PricePoint, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT trade_date, close_price
		FROM marketdata.daily_prices
		WHERE stock_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, code, from, to)
	if err != nil {
		return nil, fmt.Errorf("query daily closes for %s: %w", code, err)
	}
	defer rows.Close()

	var prices []benchmark.PricePoint
	for rows.Next() {
		var date time.Time
		var close float64
		if err := rows.Scan(&date, &close); err != nil {
			return nil, err
		}
		prices = append(prices, benchmark.PricePoint{
			Date:  calendar.FormatDate(date),
			Close: close,
		})
	}
	return prices, rows.Err()
}

// CloseMatrix retrieves closes for all codes within a date range, shaped
// code -> date -> close for the ledger's daily valuation.
func (r *PriceRepository) CloseMatrix(ctx context.Context, codes []string, startDate, endDate string) (ledger.PriceTable, error) {
	if len(codes) == 0 {
		return ledger.PriceTable{}, nil
	}
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT stock_code, trade_date, close_price
		FROM marketdata.daily_prices
		WHERE stock_code = ANY($1) AND trade_date BETWEEN $2 AND $3
		ORDER BY stock_code, trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, codes, from, to)
	if err != nil {
		return nil, fmt.Errorf("query close matrix: %w", err)
	}
	defer rows.Close()

	table := make(ledger.PriceTable, len(codes))
	for rows.Next() {
		var code string
		var date time.Time
		var close float64
		if err := rows.Scan(&code, &date, &close); err != nil {
			return nil, err
		}
		if table[code] == nil {
			table[code] = make(map[string]float64)
		}
		table[code][calendar.FormatDate(date)] = close
	}
	return table, rows.Err()
}

// LatestClose retrieves the most recent close on or before a date.
func (r *PriceRepository) LatestClose(ctx context.Context, code, date string) (benchmark.PricePoint, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return benchmark.PricePoint{}, err
	}

	query := `
		SELECT trade_date, close_price
		FROM marketdata.daily_prices
		WHERE stock_code = $1 AND trade_date <= $2
		ORDER BY trade_date DESC
		LIMIT 1
	`

	var tradeDate time.Time
	var close float64
	if err := r.pool.QueryRow(ctx, query, code, d).Scan(&tradeDate, &close); err != nil {
		return benchmark.PricePoint{}, fmt.Errorf("query latest close for %s: %w", code, err)
	}
	return benchmark.PricePoint{Date: calendar.FormatDate(tradeDate), Close: close}, nil
}

// SaveCloses upserts a close series for a code.
func (r *PriceRepository) SaveCloses(ctx context.Context, code string, prices []benchmark.PricePoint) error {
	query := `
		INSERT INTO marketdata.daily_prices (stock_code, trade_date, close_price)
		VALUES ($1, $2, $3)
		ON CONFLICT (stock_code, trade_date) DO UPDATE SET
			close_price = EXCLUDED.close_price
	`

	for _, p := range prices {
		d, err := calendar.ParseDate(p.Date)
		if err != nil {
			return err
		}
		if _, err := r.pool.Exec(ctx, query, code, d, p.Close); err != nil {
			return fmt.Errorf("save close %s %s: %w", code, p.Date, err)
		}
	}
	return nil
}

func parseRange(startDate, endDate string) (time.Time, time.Time, error) {
	from, err := calendar.ParseDate(startDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, err := calendar.ParseDate(endDate)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return from, to, nil
}
