package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// LoadCSV reads a reconciled trade ledger CSV into trade pairs.
// 列名对齐导出的交割单：code/name/buy_date/sell_date/buy_price/
// sell_price/buy_number/sell_number/buy_money/sell_money。
// 未平仓行的卖出列允许为空。
func LoadCSV(path string) ([]TradePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger csv: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses trade pairs from CSV content.
func ReadCSV(r io.Reader) ([]TradePair, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read ledger header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))] = i
	}
	for _, required := range []string{"code", "buy_date", "buy_money", "sell_money"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("ledger csv missing column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := col[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	number := func(record []string, name string) float64 {
		v := field(record, name)
		if v == "" {
			return 0
		}
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return n
	}

	var pairs []TradePair
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read ledger row: %w", err)
		}

		pair := TradePair{
			Code:       normalizeCode(field(record, "code")),
			Name:       field(record, "name"),
			BuyDate:    field(record, "buy_date"),
			SellDate:   field(record, "sell_date"),
			BuyPrice:   number(record, "buy_price"),
			SellPrice:  number(record, "sell_price"),
			BuyShares:  number(record, "buy_number"),
			SellShares: number(record, "sell_number"),
			BuyAmount:  number(record, "buy_money"),
			SellAmount: number(record, "sell_money"),
		}
		if pair.Code == "" || pair.BuyDate == "" {
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

// normalizeCode zero-pads numeric A 股 codes to 6 digits.
// Excel 转 CSV 时前导 0 容易丢失。
func normalizeCode(code string) string {
	code = strings.TrimSuffix(code, ".0")
	if code == "" || len(code) >= 6 {
		return code
	}
	for _, ch := range code {
		if ch < '0' || ch > '9' {
			return code
		}
	}
	return strings.Repeat("0", 6-len(code)) + code
}
