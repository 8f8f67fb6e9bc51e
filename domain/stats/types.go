package stats

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Linkage selects how agglomerative clustering measures the distance
// between two merged clusters.
type Linkage string

const (
	// LinkageAverage is the default: size-weighted mean of member distances (UPGMA)
	LinkageAverage Linkage = "average"
	// LinkageComplete uses the maximum member distance
	LinkageComplete Linkage = "complete"
)

// ParseLinkage validates a linkage name
func ParseLinkage(s string) (Linkage, error) {
	switch Linkage(s) {
	case LinkageAverage, LinkageComplete:
		return Linkage(s), nil
	case "":
		return LinkageAverage, nil
	}
	return "", fmt.Errorf("unknown linkage %q (want average or complete)", s)
}

// CorrelationMatrix is a symmetric Pearson correlation matrix indexed by
// measure name on both axes. Diagonal is exactly 1; entries lie in [-1, 1].
type CorrelationMatrix struct {
	Measures []string
	Data     *mat.SymDense
}

// Dim returns the number of measures on each axis
func (c *CorrelationMatrix) Dim() int { return len(c.Measures) }

// At returns the correlation between measures i and j
func (c *CorrelationMatrix) At(i, j int) float64 { return c.Data.At(i, j) }

// Ordering is a permutation of measure indices produced by hierarchical
// clustering. Applying it to a CorrelationMatrix groups correlated measures
// adjacently for display; it never alters the underlying values.
type Ordering []int

// IsPermutation reports whether the ordering is a bijection on [0, n)
func (o Ordering) IsPermutation() bool {
	seen := make([]bool, len(o))
	for _, idx := range o {
		if idx < 0 || idx >= len(o) || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Inverse returns the inverse permutation
func (o Ordering) Inverse() Ordering {
	inv := make(Ordering, len(o))
	for pos, idx := range o {
		inv[idx] = pos
	}
	return inv
}

// Apply reindexes both axes of corr by the ordering, returning a new matrix.
// Position p of the result holds original measure o[p].
func (o Ordering) Apply(corr *CorrelationMatrix) *CorrelationMatrix {
	n := corr.Dim()
	if len(o) != n {
		panic(fmt.Sprintf("ordering length %d does not match matrix dimension %d", len(o), n))
	}
	measures := make([]string, n)
	data := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		measures[i] = corr.Measures[o[i]]
		for j := i; j < n; j++ {
			data.SetSym(i, j, corr.At(o[i], o[j]))
		}
	}
	return &CorrelationMatrix{Measures: measures, Data: data}
}
