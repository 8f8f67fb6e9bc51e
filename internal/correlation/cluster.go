package correlation

import (
	"math"

	"cityhealth/domain/stats"
)

// cluster is an active node during agglomeration. leaves holds the original
// measure indices in dendrogram order; min is the lowest original index,
// used both for tie-breaking and for orienting merges.
type cluster struct {
	leaves []int
	min    int
}

// leafOrder runs agglomerative hierarchical clustering over the distance
// matrix and returns the dendrogram leaf ordering. Merge distances are
// recomputed with the Lance-Williams update for the chosen linkage. The
// result is fully deterministic: ties in merge distance are broken by the
// lowest original index pair, and a merged cluster keeps the lower-index
// member on the left.
func leafOrder(dist [][]float64, linkage stats.Linkage) stats.Ordering {
	n := len(dist)
	if n == 1 {
		return stats.Ordering{0}
	}

	// Active clusters, kept sorted by min original index. Merging the pair
	// (i, j) with i < j replaces slot i and removes slot j, which preserves
	// the sort because the merged min is clusters[i].min.
	active := make([]*cluster, n)
	for i := 0; i < n; i++ {
		active[i] = &cluster{leaves: []int{i}, min: i}
	}

	// Working inter-cluster distances, indexed like active
	d := make([][]float64, n)
	for i := range d {
		d[i] = make([]float64, n)
		copy(d[i], dist[i])
	}

	sizes := make([]int, n)
	for i := range sizes {
		sizes[i] = 1
	}

	for len(active) > 1 {
		bi, bj := 0, 1
		best := math.Inf(1)
		for i := 0; i < len(active); i++ {
			for j := i + 1; j < len(active); j++ {
				if d[i][j] < best {
					best = d[i][j]
					bi, bj = i, j
				}
			}
		}

		// Update distances from the merged cluster to all others
		for k := 0; k < len(active); k++ {
			if k == bi || k == bj {
				continue
			}
			var merged float64
			switch linkage {
			case stats.LinkageComplete:
				merged = math.Max(d[bi][k], d[bj][k])
			default: // average (UPGMA)
				na, nb := float64(sizes[bi]), float64(sizes[bj])
				merged = (na*d[bi][k] + nb*d[bj][k]) / (na + nb)
			}
			d[bi][k] = merged
			d[k][bi] = merged
		}

		active[bi] = &cluster{
			leaves: append(append([]int{}, active[bi].leaves...), active[bj].leaves...),
			min:    active[bi].min,
		}
		sizes[bi] += sizes[bj]

		// Drop slot bj
		active = append(active[:bj], active[bj+1:]...)
		sizes = append(sizes[:bj], sizes[bj+1:]...)
		d = append(d[:bj], d[bj+1:]...)
		for i := range d {
			d[i] = append(d[i][:bj], d[i][bj+1:]...)
		}
	}

	return stats.Ordering(active[0].leaves)
}
