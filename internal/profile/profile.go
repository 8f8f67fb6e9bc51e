// Package profile computes per-measure descriptive summaries: the numbers
// behind the boxplots and histograms in the report.
package profile

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"cityhealth/domain/table"
)

// Summary holds descriptive statistics for one measure column
type Summary struct {
	Measure string
	N       int
	Mean    float64
	StdDev  float64
	Min     float64
	Max     float64
	Median  float64
	Q25     float64
	Q75     float64

	// Outliers counts values outside the 1.5*IQR fences
	Outliers int
}

// Histogram is a fixed-width binning of one measure column
type Histogram struct {
	Measure string
	Edges   []float64 // len(Counts)+1 bin boundaries
	Counts  []int
}

// Column summarizes one measure of a wide matrix, skipping missing cells
func Column(m *table.WideMatrix, measure string) (*Summary, error) {
	data := m.ColumnFloats(measure)
	if len(data) == 0 {
		return nil, fmt.Errorf("measure %q has no observations", measure)
	}

	mean, _ := stats.Mean(data)
	stdDev, _ := stats.StandardDeviation(data)
	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	median, _ := stats.Median(data)
	q25, _ := stats.Percentile(data, 25)
	q75, _ := stats.Percentile(data, 75)

	s := &Summary{
		Measure: measure,
		N:       len(data),
		Mean:    mean,
		StdDev:  stdDev,
		Min:     min,
		Max:     max,
		Median:  median,
		Q25:     q25,
		Q75:     q75,
	}

	iqr := q75 - q25
	lower, upper := q25-1.5*iqr, q75+1.5*iqr
	for _, v := range data {
		if v < lower || v > upper {
			s.Outliers++
		}
	}
	return s, nil
}

// AllColumns summarizes every measure of the matrix in column order
func AllColumns(m *table.WideMatrix) ([]*Summary, error) {
	out := make([]*Summary, 0, m.ColumnCount())
	for _, measure := range m.Measures {
		s, err := Column(m, measure)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Bin builds a fixed-width histogram with the given number of bins.
// A constant column collapses to a single bin holding every value.
func Bin(m *table.WideMatrix, measure string, bins int) (*Histogram, error) {
	if bins < 1 {
		return nil, fmt.Errorf("bins must be positive, got %d", bins)
	}
	data := m.ColumnFloats(measure)
	if len(data) == 0 {
		return nil, fmt.Errorf("measure %q has no observations", measure)
	}

	min, _ := stats.Min(data)
	max, _ := stats.Max(data)
	if min == max {
		return &Histogram{
			Measure: measure,
			Edges:   []float64{min, max},
			Counts:  []int{len(data)},
		}, nil
	}

	h := &Histogram{
		Measure: measure,
		Edges:   make([]float64, bins+1),
		Counts:  make([]int, bins),
	}
	width := (max - min) / float64(bins)
	for i := 0; i <= bins; i++ {
		h.Edges[i] = min + float64(i)*width
	}
	for _, v := range data {
		idx := int(math.Floor((v - min) / width))
		if idx >= bins { // max lands in the last bin
			idx = bins - 1
		}
		h.Counts[idx]++
	}
	return h, nil
}
