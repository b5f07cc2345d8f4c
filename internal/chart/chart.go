package chart

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"StockPulse/internal/model"
)

// Renderer draws closing prices against dates as a PNG.
type Renderer struct {
	Width  vg.Length
	Height vg.Length
}

// NewRenderer returns a renderer with the 12x6 inch layout.
func NewRenderer() *Renderer {
	return &Renderer{Width: 12 * vg.Inch, Height: 6 * vg.Inch}
}

// Render writes the chart to path and returns it. Points may be in any order.
func (r *Renderer) Render(symbol string, points []model.QuotePoint, path string) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("chart: no points to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s Stock Prices", symbol)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Closing Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: model.DateLayout}
	p.Add(plotter.NewGrid())

	xys := make(plotter.XYs, len(points))
	for i, q := range sortedByDate(points) {
		xys[i].X = float64(q.Date.Unix())
		xys[i].Y = q.Close.InexactFloat64()
	}

	line, markers, err := plotter.NewLinePoints(xys)
	if err != nil {
		return "", fmt.Errorf("chart: build line: %w", err)
	}
	blue := color.RGBA{B: 255, A: 255}
	line.Color = blue
	markers.Color = blue
	p.Add(line, markers)

	if err := p.Save(r.Width, r.Height, path); err != nil {
		return "", fmt.Errorf("chart: save %s: %w", path, err)
	}
	return path, nil
}

func sortedByDate(points []model.QuotePoint) []model.QuotePoint {
	out := make([]model.QuotePoint, len(points))
	copy(out, points)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}
