package table

// WideMatrix is the pivoted view of a LongTable: one row per entity, one
// column per measure. Row and column order is first-seen order, so a pivot
// over the same input always yields the same layout. Cells with no matching
// record are explicitly missing, never zero.
type WideMatrix struct {
	Entities []string
	Measures []string

	cells map[string]map[string]Value
}

// NewWideMatrix creates an empty wide matrix
func NewWideMatrix() *WideMatrix {
	return &WideMatrix{cells: make(map[string]map[string]Value)}
}

// RowCount returns the number of entity rows
func (m *WideMatrix) RowCount() int { return len(m.Entities) }

// ColumnCount returns the number of measure columns
func (m *WideMatrix) ColumnCount() int { return len(m.Measures) }

// IsEmpty reports whether the matrix has no rows or no columns
func (m *WideMatrix) IsEmpty() bool {
	return len(m.Entities) == 0 || len(m.Measures) == 0
}

// Has reports whether a record was ever set for (entityID, measure)
func (m *WideMatrix) Has(entityID, measure string) bool {
	row, ok := m.cells[entityID]
	if !ok {
		return false
	}
	_, ok = row[measure]
	return ok
}

// Cell returns the value at (entityID, measure). Cells never written
// come back as an explicit missing marker.
func (m *WideMatrix) Cell(entityID, measure string) Value {
	if row, ok := m.cells[entityID]; ok {
		if v, ok := row[measure]; ok {
			return v
		}
	}
	return None()
}

// Set writes a cell, registering the entity row and measure column on first
// sight. A second write to the same cell overwrites (last write wins).
func (m *WideMatrix) Set(entityID, measure string, v Value) {
	row, ok := m.cells[entityID]
	if !ok {
		row = make(map[string]Value)
		m.cells[entityID] = row
		m.Entities = append(m.Entities, entityID)
	}
	if _, seen := row[measure]; !seen {
		if !m.hasMeasure(measure) {
			m.Measures = append(m.Measures, measure)
		}
	}
	row[measure] = v
}

func (m *WideMatrix) hasMeasure(measure string) bool {
	for _, name := range m.Measures {
		if name == measure {
			return true
		}
	}
	return false
}

// RowComplete reports whether the entity has a non-missing value for every measure
func (m *WideMatrix) RowComplete(entityID string) bool {
	for _, measure := range m.Measures {
		if m.Cell(entityID, measure).Missing {
			return false
		}
	}
	return true
}

// Column returns the measure's values across entities in row order.
// Missing cells come back as explicit markers; callers needing a dense
// vector must DropIncompleteRows first.
func (m *WideMatrix) Column(measure string) []Value {
	out := make([]Value, 0, len(m.Entities))
	for _, e := range m.Entities {
		out = append(out, m.Cell(e, measure))
	}
	return out
}

// ColumnFloats returns the measure's values as a float slice, skipping
// missing cells. Intended for profiling and charting, not correlation.
func (m *WideMatrix) ColumnFloats(measure string) []float64 {
	out := make([]float64, 0, len(m.Entities))
	for _, e := range m.Entities {
		if v := m.Cell(e, measure); !v.Missing {
			out = append(out, v.Float)
		}
	}
	return out
}

// Flatten converts the matrix back to long form, emitting one record per
// non-missing cell in row-major order.
func (m *WideMatrix) Flatten() LongTable {
	var out LongTable
	for _, e := range m.Entities {
		for _, measure := range m.Measures {
			v := m.Cell(e, measure)
			if v.Missing {
				continue
			}
			out = append(out, Record{EntityID: e, MeasureName: measure, Value: v})
		}
	}
	return out
}
