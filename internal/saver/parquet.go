package saver

import (
	"github.com/parquet-go/parquet-go"

	"StockPulse/internal/model"
)

// parquetRow is the columnar layout of one QuotePoint. Prices stay decimal strings.
type parquetRow struct {
	Date   string `parquet:"date"`
	Open   string `parquet:"open"`
	High   string `parquet:"high"`
	Low    string `parquet:"low"`
	Close  string `parquet:"close"`
	Volume int64  `parquet:"volume"`
}

// ParquetSaver writes the series as Parquet, oldest day first.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(points []model.QuotePoint, path string) error {
	sorted := ascending(points)
	rows := make([]parquetRow, len(sorted))
	for i, p := range sorted {
		f := p.Fields()
		rows[i] = parquetRow{
			Date:   p.Date.Format(model.DateLayout),
			Open:   f[0],
			High:   f[1],
			Low:    f[2],
			Close:  f[3],
			Volume: p.Volume,
		}
	}
	return parquet.WriteFile(path, rows)
}
