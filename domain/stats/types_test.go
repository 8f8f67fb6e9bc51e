package stats

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestOrdering_IsPermutation(t *testing.T) {
	cases := []struct {
		name string
		o    Ordering
		want bool
	}{
		{"identity", Ordering{0, 1, 2}, true},
		{"reversed", Ordering{2, 1, 0}, true},
		{"repeat", Ordering{0, 0, 2}, false},
		{"out of range", Ordering{0, 1, 3}, false},
		{"empty", Ordering{}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.o.IsPermutation(); got != tc.want {
				t.Fatalf("IsPermutation(%v) = %v, want %v", tc.o, got, tc.want)
			}
		})
	}
}

func TestOrdering_ApplyThenInverse(t *testing.T) {
	data := mat.NewSymDense(3, nil)
	data.SetSym(0, 0, 1)
	data.SetSym(1, 1, 1)
	data.SetSym(2, 2, 1)
	data.SetSym(0, 1, 0.5)
	data.SetSym(0, 2, -0.2)
	data.SetSym(1, 2, 0.7)
	corr := &CorrelationMatrix{Measures: []string{"A", "B", "C"}, Data: data}

	o := Ordering{2, 0, 1}
	reordered := o.Apply(corr)

	if reordered.Measures[0] != "C" || reordered.Measures[1] != "A" || reordered.Measures[2] != "B" {
		t.Fatalf("unexpected measure order: %v", reordered.Measures)
	}
	// Position (0,2) of the result is the original (C, B) correlation
	if got := reordered.At(0, 2); got != 0.7 {
		t.Fatalf("expected 0.7 at (0,2), got %v", got)
	}

	restored := o.Inverse().Apply(reordered)
	for i := 0; i < 3; i++ {
		if restored.Measures[i] != corr.Measures[i] {
			t.Fatalf("inverse failed to restore order: %v", restored.Measures)
		}
		for j := 0; j < 3; j++ {
			if restored.At(i, j) != corr.At(i, j) {
				t.Fatalf("inverse failed to restore value at (%d,%d)", i, j)
			}
		}
	}
}

func TestParseLinkage(t *testing.T) {
	if l, err := ParseLinkage(""); err != nil || l != LinkageAverage {
		t.Fatalf("empty should default to average, got %v, %v", l, err)
	}
	if l, err := ParseLinkage("complete"); err != nil || l != LinkageComplete {
		t.Fatalf("complete: got %v, %v", l, err)
	}
	if _, err := ParseLinkage("ward"); err == nil {
		t.Fatalf("unsupported linkage should fail")
	}
}
