package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cityhealth/domain/table"
)

func matrixOf(values map[string][]float64) *table.WideMatrix {
	m := table.NewWideMatrix()
	for measure, vs := range values {
		for i, v := range vs {
			m.Set(entityID(i), measure, table.Some(v))
		}
	}
	return m
}

func entityID(i int) string {
	return string(rune('A' + i))
}

func TestColumn(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"M1": {2, 4, 4, 4, 5, 5, 7, 9},
	})

	s, err := Column(m, "M1")
	require.NoError(t, err)

	assert.Equal(t, 8, s.N)
	assert.InDelta(t, 5.0, s.Mean, 1e-9)
	assert.InDelta(t, 2.0, s.StdDev, 1e-9)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 4.5, s.Median, 1e-9)
}

func TestColumn_SkipsMissing(t *testing.T) {
	m := table.NewWideMatrix()
	m.Set("A", "M1", table.Some(1))
	m.Set("B", "M1", table.None())
	m.Set("C", "M1", table.Some(3))

	s, err := Column(m, "M1")
	require.NoError(t, err)
	assert.Equal(t, 2, s.N)
	assert.InDelta(t, 2.0, s.Mean, 1e-9)
}

func TestColumn_Outliers(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"M1": {10, 11, 12, 11, 10, 12, 11, 100},
	})

	s, err := Column(m, "M1")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Outliers)
}

func TestColumn_Empty(t *testing.T) {
	m := table.NewWideMatrix()
	m.Set("A", "M1", table.None())

	_, err := Column(m, "M1")
	assert.Error(t, err)
}

func TestBin(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"M1": {0, 1, 2, 3, 4, 5, 6, 7, 8, 10},
	})

	h, err := Bin(m, "M1", 5)
	require.NoError(t, err)
	require.Len(t, h.Counts, 5)
	require.Len(t, h.Edges, 6)

	total := 0
	for _, c := range h.Counts {
		total += c
	}
	assert.Equal(t, 10, total, "every value lands in exactly one bin")
	assert.Equal(t, 0.0, h.Edges[0])
	assert.Equal(t, 10.0, h.Edges[5])
}

func TestBin_ConstantColumn(t *testing.T) {
	m := matrixOf(map[string][]float64{
		"M1": {5, 5, 5},
	})

	h, err := Bin(m, "M1", 4)
	require.NoError(t, err)
	require.Len(t, h.Counts, 1)
	assert.Equal(t, 3, h.Counts[0])
}
