// Package plot renders the feature profiles (FNN, Cao E1/E2, ACF, PACF,
// AMI) as an HTML page of echarts charts. Charts for groups absent from a
// document are skipped rather than rendered empty.
package plot

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/Sumatoshi-tech/seriesfang/pkg/report"
)

const (
	chartWidth  = "900px"
	chartHeight = "420px"
	lineWidth   = 2
)

// Render writes the profile page for a document.
func Render(w io.Writer, doc *report.Document) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("seriesfang: %s", doc.Series.Name)

	if group, ok := doc.Groups["embed"]; ok {
		if chart := fnnChart(group); chart != nil {
			page.AddCharts(chart)
		}

		if chart := caoChart(group); chart != nil {
			page.AddCharts(chart)
		}
	}

	if group, ok := doc.Groups["autocorr"]; ok {
		if chart := lagBarChart("Autocorrelation", "ACF", vectorOf(group, "acf")); chart != nil {
			page.AddCharts(chart)
		}

		if chart := lagBarChart("Partial autocorrelation", "PACF", vectorOf(group, "pacf")); chart != nil {
			page.AddCharts(chart)
		}

		if chart := lagBarChart("Automutual information", "AMI", vectorOf(group, "ami")); chart != nil {
			page.AddCharts(chart)
		}
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	return nil
}

// fnnChart plots the false-nearest-neighbor proportion per dimension.
func fnnChart(group map[string]any) *charts.Line {
	profile := vectorOf(group, "fnn_prop")
	if len(profile) == 0 {
		return nil
	}

	line := newProfileLine("False nearest neighbors", "Dimension", "Proportion")
	line.SetXAxis(dimensionLabels(len(profile), 1))
	line.AddSeries("FNN", lineData(profile),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	return line
}

// caoChart plots the Cao E1 and E2 profiles on one chart.
func caoChart(group map[string]any) *charts.Line {
	e1 := vectorOf(group, "cao_e1")
	e2 := vectorOf(group, "cao_e2")

	if len(e1) == 0 {
		return nil
	}

	line := newProfileLine("Cao embedding profiles", "Dimension", "Ratio")
	line.SetXAxis(dimensionLabels(len(e1), 1))
	line.AddSeries("E1", lineData(e1),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)

	if len(e2) > 0 {
		line.AddSeries("E2", lineData(e2),
			charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
		)
	}

	return line
}

// lagBarChart renders one lag-indexed array as a bar chart.
func lagBarChart(title, seriesName string, values []float64) *charts.Bar {
	if len(values) == 0 {
		return nil
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Lag"}),
		charts.WithYAxisOpts(opts.YAxis{Name: seriesName}),
	)

	data := make([]opts.BarData, len(values))
	for i, v := range values {
		data[i] = opts.BarData{Value: chartValue(v)}
	}

	bar.SetXAxis(dimensionLabels(len(values), 1))
	bar.AddSeries(seriesName, data)

	return bar
}

func newProfileLine(title, xName, yName string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	return line
}

func dimensionLabels(n, start int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(start + i)
	}

	return labels
}

func lineData(values []float64) []opts.LineData {
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		data[i] = opts.LineData{Value: chartValue(v)}
	}

	return data
}

// chartValue maps non-finite values to the echarts "no data" marker.
func chartValue(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}

	return v
}

// vectorOf extracts a []float64 feature, tolerating the []any form that
// JSON round-trips produce. Null entries become NaN.
func vectorOf(group map[string]any, key string) []float64 {
	switch v := group[key].(type) {
	case []float64:
		return v
	case []any:
		out := make([]float64, len(v))

		for i, x := range v {
			if f, ok := x.(float64); ok {
				out[i] = f
			} else {
				out[i] = math.NaN()
			}
		}

		return out
	default:
		return nil
	}
}
