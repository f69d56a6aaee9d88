package report

import (
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"wikiviews/config"
	"wikiviews/models"
)

// BuildChart builds the two-series quarterly line chart: lines with
// markers, first article in the configured first color (red by
// default), second in the second (blue), unified tooltip across both
// series.
func BuildChart(result *models.Result, cfg config.ChartConfig) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: cfg.Title}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Quarter"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Avg Daily Views"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels := make([]string, 0, len(result.Quarterly))
	seriesA := make([]opts.LineData, 0, len(result.Quarterly))
	seriesB := make([]opts.LineData, 0, len(result.Quarterly))

	for _, quarter := range result.Quarterly {
		labels = append(labels, quarter.Label())
		seriesA = append(seriesA, lineValue(quarter.MeanA))
		seriesB = append(seriesB, lineValue(quarter.MeanB))
	}

	line.SetXAxis(labels).
		AddSeries(result.TitleA, seriesA,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.FirstColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: cfg.FirstColor}),
		).
		AddSeries(result.TitleB, seriesB,
			charts.WithItemStyleOpts(opts.ItemStyle{Color: cfg.SecondColor}),
			charts.WithLineStyleOpts(opts.LineStyle{Color: cfg.SecondColor}),
		).
		SetSeriesOptions(
			charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(true)}),
		)

	return line
}

// WriteChartHTML renders the chart as a standalone HTML page.
func WriteChartHTML(w io.Writer, line *charts.Line) error {
	return line.Render(w)
}

// ChartSnippet renders the chart as an embeddable element/script pair
// for the web shell. The page embedding it must load the echarts
// script asset itself.
func ChartSnippet(line *charts.Line) render.ChartSnippet {
	return line.RenderSnippet()
}

// echarts treats "-" as a missing data point, which keeps a quarter
// with no values for one article from collapsing the line to zero.
func lineValue(mean *float64) opts.LineData {
	if mean == nil {
		return opts.LineData{Value: "-"}
	}
	return opts.LineData{Value: *mean}
}
