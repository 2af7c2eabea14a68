package forecast

import (
	"bytes"
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/sartorproj/indexcast/timeseries"
)

// HistoryPoints is the default number of trailing observations plotted.
const HistoryPoints = 200

var (
	historyColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	forecastColor = color.RGBA{R: 255, A: 255}
	bandColor     = color.RGBA{R: 255, A: 48}
)

// Title returns the chart title for an index.
func Title(index string) string {
	return index + " Price Forecast"
}

// Chart renders the last points observations of series and the forecast as
// an SVG line chart. A non-positive points plots HistoryPoints.
func Chart(series *timeseries.Series, fc *Forecast, title string, points int) ([]byte, error) {
	if points <= 0 {
		points = HistoryPoints
	}
	tail := series.Tail(points)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Closing Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: DateLayout}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	hist := make(plotter.XYs, tail.Len())
	for i := range hist {
		hist[i].X = float64(tail.Dates[i].Unix())
		hist[i].Y = tail.Values[i]
	}

	n := fc.Len()
	pred := make(plotter.XYs, n)
	band := make(plotter.XYs, 0, 2*n)
	for i := 0; i < n; i++ {
		x := float64(fc.Dates[i].Unix())
		pred[i] = plotter.XY{X: x, Y: fc.Values[i]}
		band = append(band, plotter.XY{X: x, Y: fc.Upper[i]})
	}
	for i := n - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: float64(fc.Dates[i].Unix()), Y: fc.Lower[i]})
	}

	interval, err := plotter.NewPolygon(band)
	if err != nil {
		return nil, errors.Wrap(err, "interval band")
	}
	interval.Color = bandColor
	interval.LineStyle.Width = 0

	histLine, err := plotter.NewLine(hist)
	if err != nil {
		return nil, errors.Wrap(err, "historical line")
	}
	histLine.Color = historyColor

	predLine, err := plotter.NewLine(pred)
	if err != nil {
		return nil, errors.Wrap(err, "forecast line")
	}
	predLine.Color = forecastColor
	predLine.Width = vg.Points(1.5)

	p.Add(interval, histLine, predLine)
	p.Legend.Add("Historical", histLine)
	p.Legend.Add("Forecast", predLine)
	p.Legend.Add("95% interval", interval)

	w, err := p.WriterTo(10*vg.Inch, 5*vg.Inch, "svg")
	if err != nil {
		return nil, errors.Wrap(err, "svg writer")
	}
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, errors.Wrap(err, "render chart")
	}
	return buf.Bytes(), nil
}
