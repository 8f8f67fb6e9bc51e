package report

import (
	"fmt"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"cityhealth/domain/stats"
	"cityhealth/internal/aggregate"
	"cityhealth/internal/profile"
)

const (
	chartWidth  = "1200px"
	chartHeight = "600px"
)

// newBoxplot renders one box per measure from its five-number summary
func newBoxplot(summaries []*profile.Summary) *charts.BoxPlot {
	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Measure distributions",
			Subtitle: "Five-number summaries across entities; whiskers at min/max",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: chartHeight}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
	)

	labels := make([]string, 0, len(summaries))
	boxes := make([]opts.BoxPlotData, 0, len(summaries))
	for _, s := range summaries {
		labels = append(labels, s.Measure)
		boxes = append(boxes, opts.BoxPlotData{
			Name:  s.Measure,
			Value: []float64{s.Min, s.Q25, s.Median, s.Q75, s.Max},
		})
	}
	bp.SetXAxis(labels).AddSeries("measures", boxes)
	return bp
}

// newCorrelationHeatmap renders the clustering-reordered correlation matrix.
// Axis order is the dendrogram leaf order, so correlated measures form
// visible blocks along the diagonal.
func newCorrelationHeatmap(corr *stats.CorrelationMatrix) *charts.HeatMap {
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Measure correlation",
			Subtitle: "Pearson r, axes reordered by hierarchical clustering",
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "800px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
			AxisLabel: &opts.AxisLabel{Rotate: 45, Interval: "0"},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      corr.Measures,
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: []string{"#2166ac", "#f7f7f7", "#b2182b"}},
		}),
	)

	n := corr.Dim()
	cells := make([]opts.HeatMapData, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cells = append(cells, opts.HeatMapData{
				Value: [3]interface{}{i, j, round2(corr.At(i, j))},
			})
		}
	}
	hm.SetXAxis(corr.Measures).AddSeries("pearson r", cells)
	return hm
}

// newHistogram renders a binned bar chart for one measure
func newHistogram(h *profile.Histogram) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("Distribution of %s", h.Measure),
		}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	labels := make([]string, len(h.Counts))
	values := make([]opts.BarData, len(h.Counts))
	for i, c := range h.Counts {
		labels[i] = fmt.Sprintf("%.1f–%.1f", h.Edges[i], h.Edges[i+1])
		values[i] = opts.BarData{Value: c}
	}
	bar.SetXAxis(labels).AddSeries("entities", values)
	return bar
}

// newRankedBar renders a descending ranked bar chart
func newRankedBar(title, seriesName string, ranked []aggregate.Ranked) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Width: chartWidth, Height: "400px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{AxisLabel: &opts.AxisLabel{Rotate: 30, Interval: "0"}}),
	)

	labels := make([]string, len(ranked))
	values := make([]opts.BarData, len(ranked))
	for i, r := range ranked {
		labels[i] = r.Key
		values[i] = opts.BarData{Value: round2(r.Value)}
	}
	bar.SetXAxis(labels).AddSeries(seriesName, values)
	return bar
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
