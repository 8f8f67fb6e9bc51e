// Package correlation computes pairwise Pearson correlation over the
// columns of a dense wide matrix and reorders the result by hierarchical
// clustering so correlated measures sit adjacently in a heatmap.
package correlation

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"cityhealth/domain/core"
	"cityhealth/domain/stats"
	"cityhealth/domain/table"
)

// Compute treats each measure column as a sample vector across entities and
// returns the Pearson correlation matrix. The input must be dense (run
// DropIncompleteRows first) with at least 2 rows and 2 columns; a
// zero-variance column fails with ErrInsufficientData so the caller can
// decide whether to drop the measure or abort.
func Compute(m *table.WideMatrix) (*stats.CorrelationMatrix, error) {
	rows, cols := m.RowCount(), m.ColumnCount()
	if rows < 2 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("need at least 2 rows, have %d", rows))
	}
	if cols < 2 {
		return nil, core.NewInsufficientDataError(fmt.Sprintf("need at least 2 columns, have %d", cols))
	}

	data := make([]float64, 0, rows*cols)
	for _, e := range m.Entities {
		for _, measure := range m.Measures {
			v := m.Cell(e, measure)
			if v.Missing {
				return nil, fmt.Errorf("%w: (%s, %s)", core.ErrIncompleteMatrix, e, measure)
			}
			data = append(data, v.Float)
		}
	}
	dense := mat.NewDense(rows, cols, data)

	for j, measure := range m.Measures {
		col := mat.Col(nil, j, dense)
		if stat.Variance(col, nil) == 0 {
			return nil, core.NewInsufficientDataError(fmt.Sprintf("measure %q has zero variance", measure))
		}
	}

	sym := mat.NewSymDense(cols, nil)
	stat.CorrelationMatrix(sym, dense, nil)

	// Pin the diagonal to exactly 1 and clamp rounding spill outside [-1, 1]
	for i := 0; i < cols; i++ {
		sym.SetSym(i, i, 1)
		for j := i + 1; j < cols; j++ {
			r := sym.At(i, j)
			if r > 1 {
				r = 1
			} else if r < -1 {
				r = -1
			}
			sym.SetSym(i, j, r)
		}
	}

	measures := make([]string, cols)
	copy(measures, m.Measures)
	return &stats.CorrelationMatrix{Measures: measures, Data: sym}, nil
}

// ReorderByClustering clusters measures on the distance (1-r)/2 and returns
// the correlation matrix reindexed by the dendrogram leaf order together
// with the permutation itself. Values are never altered, only repositioned.
func ReorderByClustering(corr *stats.CorrelationMatrix, linkage stats.Linkage) (*stats.CorrelationMatrix, stats.Ordering, error) {
	if corr.Dim() < 2 {
		return nil, nil, core.NewInsufficientDataError("need at least 2 measures to cluster")
	}

	dist := distanceMatrix(corr)
	order := leafOrder(dist, linkage)
	return order.Apply(corr), order, nil
}

// distanceMatrix maps correlation in [-1, 1] to distance in [0, 1]:
// 0 is perfectly correlated, 1 perfectly anti-correlated.
func distanceMatrix(corr *stats.CorrelationMatrix) [][]float64 {
	n := corr.Dim()
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		for j := 0; j < n; j++ {
			d[i][j] = (1 - corr.At(i, j)) / 2
		}
	}
	return d
}
