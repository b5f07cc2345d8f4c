package saver

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"StockPulse/internal/model"
)

// CSVHeader is the fixed header row of the series dump.
var CSVHeader = []string{"Date", "Open", "High", "Low", "Close", "Volume"}

// CSVSaver writes the series as CSV, oldest day first.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(points []model.QuotePoint, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}
	for _, p := range ascending(points) {
		f := p.Fields()
		if err := w.Write([]string{p.Date.Format(model.DateLayout), f[0], f[1], f[2], f[3], f[4]}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV loads a series written by CSVSaver, in file order.
func ReadCSV(path string) ([]model.QuotePoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(CSVHeader)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i, h := range CSVHeader {
		if header[i] != h {
			return nil, fmt.Errorf("unexpected header column %d: %q", i, header[i])
		}
	}

	var points []model.QuotePoint
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, p)
	}
	return points, nil
}

func parseRecord(rec []string) (model.QuotePoint, error) {
	var p model.QuotePoint
	var err error
	if p.Date, err = time.Parse(model.DateLayout, rec[0]); err != nil {
		return p, err
	}
	fields := []*decimal.Decimal{&p.Open, &p.High, &p.Low, &p.Close}
	for i, dst := range fields {
		if *dst, err = decimal.NewFromString(rec[i+1]); err != nil {
			return p, fmt.Errorf("%s: %w", CSVHeader[i+1], err)
		}
	}
	if p.Volume, err = strconv.ParseInt(rec[5], 10, 64); err != nil {
		return p, fmt.Errorf("Volume: %w", err)
	}
	p.Raw = model.RawQuote{Open: rec[1], High: rec[2], Low: rec[3], Close: rec[4], Volume: rec[5]}
	return p, nil
}
