package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/fundlens/backend/internal/calendar"
)

// IndustryRepository is the pgx-backed IndexProvider / IndustryMapper.
// ⭐ SSOT: 指数行业权重、行业收益与个股行业归属只从这里读
type IndustryRepository struct {
	pool *pgxpool.Pool
}

// NewIndustryRepository creates a new industry repository
func NewIndustryRepository(pool *pgxpool.Pool) *IndustryRepository {
	return &IndustryRepository{pool: pool}
}

// IndustryWeights retrieves the index industry weights on a date
// (行业名 -> 权重，小数形式).
func (r *IndustryRepository) IndustryWeights(ctx context.Context, indexCode, date string) (map[string]float64, error) {
	d, err := calendar.ParseDate(date)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT industry_name, weight
		FROM marketdata.index_industry_weights
		WHERE index_code = $1 AND trade_date = $2
	`

	rows, err := r.pool.Query(ctx, query, indexCode, d)
	if err != nil {
		return nil, fmt.Errorf("query industry weights for %s: %w", indexCode, err)
	}
	defer rows.Close()

	weights := make(map[string]float64)
	for rows.Next() {
		var industry string
		var weight float64
		if err := rows.Scan(&industry, &weight); err != nil {
			return nil, err
		}
		weights[industry] = weight
	}
	return weights, rows.Err()
}

// IndustryReturns retrieves daily industry returns within a date range
// (date -> 行业名 -> 当日收益，小数形式).
func (r *IndustryRepository) IndustryReturns(ctx context.Context, indexCode, startDate, endDate string) (map[string]map[string]float64, error) {
	from, to, err := parseRange(startDate, endDate)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT trade_date, industry_name, daily_return
		FROM marketdata.index_industry_returns
		WHERE index_code = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, indexCode, from, to)
	if err != nil {
		return nil, fmt.Errorf("query industry returns for %s: %w", indexCode, err)
	}
	defer rows.Close()

	byDate := make(map[string]map[string]float64)
	for rows.Next() {
		var tradeDate time.Time
		var industry string
		var ret float64
		if err := rows.Scan(&tradeDate, &industry, &ret); err != nil {
			return nil, err
		}
		date := calendar.FormatDate(tradeDate)
		if byDate[date] == nil {
			byDate[date] = make(map[string]float64)
		}
		byDate[date][industry] = ret
	}
	return byDate, rows.Err()
}

// IndustryOf maps security codes to industry names. Codes without a
// mapping are absent from the result; the attribution engine buckets
// those under 未知行业.
func (r *IndustryRepository) IndustryOf(ctx context.Context, codes []string) (map[string]string, error) {
	if len(codes) == 0 {
		return map[string]string{}, nil
	}

	query := `
		SELECT stock_code, industry_name
		FROM marketdata.stock_industry
		WHERE stock_code = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, fmt.Errorf("query stock industries: %w", err)
	}
	defer rows.Close()

	mapping := make(map[string]string, len(codes))
	for rows.Next() {
		var code, industry string
		if err := rows.Scan(&code, &industry); err != nil {
			return nil, err
		}
		mapping[code] = industry
	}
	return mapping, rows.Err()
}
