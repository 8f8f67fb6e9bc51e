// Package aggregate provides the grouped counts and ratios behind the
// ranked bar charts (e.g. uninsured-tract share per state).
package aggregate

import (
	"sort"

	"cityhealth/domain/table"
)

// KeyFunc extracts a grouping key from a record
type KeyFunc func(table.Record) string

// ByState groups records by state abbreviation
func ByState(r table.Record) string { return r.StateAbbr }

// ByCity groups records by city name
func ByCity(r table.Record) string { return r.CityName }

// CountBy returns the number of records per key. Records with an empty key
// are counted under "".
func CountBy(t table.LongTable, key KeyFunc) map[string]int {
	out := make(map[string]int)
	for _, r := range t {
		out[key(r)]++
	}
	return out
}

// Ratio divides numerator counts by denominator counts, joining on key.
// Inner-join semantics: keys absent from the denominator are excluded from
// the result rather than raising an error.
func Ratio(num, den map[string]int) map[string]float64 {
	out := make(map[string]float64)
	for k, n := range num {
		d, ok := den[k]
		if !ok || d == 0 {
			continue
		}
		out[k] = float64(n) / float64(d)
	}
	return out
}

// Ranked is a key with its value, for sorted display
type Ranked struct {
	Key   string
	Value float64
}

// TopN returns the n largest entries of a ratio map in descending order.
// Equal values sort by key so the ranking is reproducible.
func TopN(m map[string]float64, n int) []Ranked {
	out := make([]Ranked, 0, len(m))
	for k, v := range m {
		out = append(out, Ranked{Key: k, Value: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			return out[i].Value > out[j].Value
		}
		return out[i].Key < out[j].Key
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// TopEntities ranks entities of a wide matrix by one measure, descending.
// Missing cells are excluded; ties sort by entity ID.
func TopEntities(m *table.WideMatrix, measure string, n int) []Ranked {
	vals := make(map[string]float64)
	for _, e := range m.Entities {
		if v := m.Cell(e, measure); !v.Missing {
			vals[e] = v.Float
		}
	}
	return TopN(vals, n)
}
