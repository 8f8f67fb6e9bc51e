// Package reshape turns long-format observation tables into the dense wide
// matrices the correlation engine consumes. Every operation is a pure
// function of its input; source tables are never mutated.
package reshape

import (
	"cityhealth/domain/core"
	"cityhealth/domain/table"
)

// Predicate selects records to keep during filtering
type Predicate func(table.Record) bool

// ByLevel keeps records at one geographic level
func ByLevel(level table.GeographicLevel) Predicate {
	return func(r table.Record) bool { return r.Level == level }
}

// ByMeasure keeps records for one measure
func ByMeasure(name string) Predicate {
	return func(r table.Record) bool { return r.MeasureName == name }
}

// And combines predicates conjunctively
func And(preds ...Predicate) Predicate {
	return func(r table.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Filter returns the subsequence of records matching the predicate.
// The original table is untouched.
func Filter(t table.LongTable, pred Predicate) table.LongTable {
	var out table.LongTable
	for _, r := range t {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// PivotWide builds one row per entity and one column per measure seen in
// the input. Duplicate (entity, measure) pairs silently overwrite: last
// write wins. An empty input yields an empty matrix.
func PivotWide(t table.LongTable) *table.WideMatrix {
	m, _ := pivot(t, false)
	return m
}

// PivotWideStrict is PivotWide with uniqueness enforced: a duplicate
// (entity, measure) pair fails with ErrDuplicateKey instead of
// overwriting.
func PivotWideStrict(t table.LongTable) (*table.WideMatrix, error) {
	return pivot(t, true)
}

func pivot(t table.LongTable, strict bool) (*table.WideMatrix, error) {
	m := table.NewWideMatrix()
	for _, r := range t {
		if strict && m.Has(r.EntityID, r.MeasureName) {
			return nil, core.NewDuplicateKeyError(r.EntityID, r.MeasureName)
		}
		m.Set(r.EntityID, r.MeasureName, r.Value)
	}
	return m, nil
}

// DropIncompleteRows removes every entity row with at least one missing
// cell. The result is fully dense, the precondition for correlation.
func DropIncompleteRows(m *table.WideMatrix) *table.WideMatrix {
	out := table.NewWideMatrix()
	for _, e := range m.Entities {
		if !m.RowComplete(e) {
			continue
		}
		for _, measure := range m.Measures {
			out.Set(e, measure, m.Cell(e, measure))
		}
	}
	return out
}
