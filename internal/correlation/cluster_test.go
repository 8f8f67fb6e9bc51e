package correlation

import (
	"testing"

	"gonum.org/v1/gonum/mat"

	"cityhealth/domain/stats"
)

// corrFromRows builds a CorrelationMatrix from a row-major square slice
func corrFromRows(measures []string, rows [][]float64) *stats.CorrelationMatrix {
	n := len(measures)
	data := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			data.SetSym(i, j, rows[i][j])
		}
	}
	return &stats.CorrelationMatrix{Measures: measures, Data: data}
}

func TestReorderByClustering_IsPermutation(t *testing.T) {
	corr := corrFromRows([]string{"A", "B", "C", "D"}, [][]float64{
		{1.0, 0.1, 0.9, -0.2},
		{0.1, 1.0, 0.2, 0.8},
		{0.9, 0.2, 1.0, -0.1},
		{-0.2, 0.8, -0.1, 1.0},
	})

	reordered, order, err := ReorderByClustering(corr, stats.LinkageAverage)
	if err != nil {
		t.Fatal(err)
	}
	if !order.IsPermutation() {
		t.Fatalf("ordering %v is not a permutation", order)
	}

	// Applying the inverse permutation restores the original layout
	restored := order.Inverse().Apply(reordered)
	for i := range corr.Measures {
		if restored.Measures[i] != corr.Measures[i] {
			t.Fatalf("inverse did not restore measure order: %v", restored.Measures)
		}
		for j := range corr.Measures {
			if restored.At(i, j) != corr.At(i, j) {
				t.Fatalf("inverse did not restore values at (%d,%d)", i, j)
			}
		}
	}
}

func TestReorderByClustering_GroupsCorrelatedMeasures(t *testing.T) {
	// A/C and B/D are the tight pairs; each pair must end up adjacent
	corr := corrFromRows([]string{"A", "B", "C", "D"}, [][]float64{
		{1.0, 0.1, 0.9, -0.2},
		{0.1, 1.0, 0.2, 0.8},
		{0.9, 0.2, 1.0, -0.1},
		{-0.2, 0.8, -0.1, 1.0},
	})

	reordered, _, err := ReorderByClustering(corr, stats.LinkageAverage)
	if err != nil {
		t.Fatal(err)
	}

	pos := map[string]int{}
	for i, m := range reordered.Measures {
		pos[m] = i
	}
	if diff := pos["A"] - pos["C"]; diff != 1 && diff != -1 {
		t.Errorf("A and C should be adjacent, got order %v", reordered.Measures)
	}
	if diff := pos["B"] - pos["D"]; diff != 1 && diff != -1 {
		t.Errorf("B and D should be adjacent, got order %v", reordered.Measures)
	}
}

func TestReorderByClustering_ValuesUnchanged(t *testing.T) {
	corr := corrFromRows([]string{"A", "B", "C"}, [][]float64{
		{1.0, 0.5, -0.3},
		{0.5, 1.0, 0.2},
		{-0.3, 0.2, 1.0},
	})

	reordered, order, err := ReorderByClustering(corr, stats.LinkageComplete)
	if err != nil {
		t.Fatal(err)
	}
	for i := range order {
		for j := range order {
			if reordered.At(i, j) != corr.At(order[i], order[j]) {
				t.Fatalf("reorder altered a value at (%d,%d)", i, j)
			}
		}
	}
}

func TestReorderByClustering_Deterministic(t *testing.T) {
	// All off-diagonal distances equal: pure tie-breaking territory.
	// The stable rule (lowest original index first) must keep the
	// original order.
	corr := corrFromRows([]string{"A", "B", "C", "D"}, [][]float64{
		{1.0, 0.5, 0.5, 0.5},
		{0.5, 1.0, 0.5, 0.5},
		{0.5, 0.5, 1.0, 0.5},
		{0.5, 0.5, 0.5, 1.0},
	})

	for _, linkage := range []stats.Linkage{stats.LinkageAverage, stats.LinkageComplete} {
		_, first, err := ReorderByClustering(corr, linkage)
		if err != nil {
			t.Fatal(err)
		}
		for i, idx := range first {
			if idx != i {
				t.Fatalf("%s: tie-breaking should keep original order, got %v", linkage, first)
			}
		}

		// Identical input, identical output
		_, second, err := ReorderByClustering(corr, linkage)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first {
			if first[i] != second[i] {
				t.Fatalf("%s: ordering not reproducible: %v vs %v", linkage, first, second)
			}
		}
	}
}

func TestLeafOrder_SingleAndPair(t *testing.T) {
	if got := leafOrder([][]float64{{0}}, stats.LinkageAverage); len(got) != 1 || got[0] != 0 {
		t.Fatalf("single leaf: got %v", got)
	}
	got := leafOrder([][]float64{{0, 0.3}, {0.3, 0}}, stats.LinkageAverage)
	if len(got) != 2 || got[0] != 0 || got[1] != 1 {
		t.Fatalf("pair: got %v", got)
	}
}
