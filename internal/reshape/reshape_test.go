package reshape

import (
	"errors"
	"testing"

	"cityhealth/domain/core"
	"cityhealth/domain/table"
)

func record(entity, measure string, v float64) table.Record {
	return table.Record{
		EntityID:    entity,
		MeasureName: measure,
		Value:       table.Some(v),
		Level:       table.LevelCity,
	}
}

func TestFilter(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 1),
		{EntityID: "E2", MeasureName: "M1", Value: table.Some(2), Level: table.LevelCensusTract},
		record("E3", "M1", 3),
	}

	got := Filter(tbl, ByLevel(table.LevelCity))
	if len(got) != 2 {
		t.Fatalf("expected 2 city records, got %d", len(got))
	}

	// Source table untouched
	if len(tbl) != 3 {
		t.Fatalf("filter mutated the source table")
	}

	if got := Filter(tbl, ByLevel(table.LevelUS)); len(got) != 0 {
		t.Fatalf("expected empty result, got %d records", len(got))
	}
}

func TestPivotWide_RoundTrip(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 10),
		record("E1", "M2", 20),
		record("E2", "M1", 30),
		record("E2", "M2", 40),
	}

	m := PivotWide(tbl)
	if m.RowCount() != 2 || m.ColumnCount() != 2 {
		t.Fatalf("expected 2x2 matrix, got %dx%d", m.RowCount(), m.ColumnCount())
	}

	// Flattening must reproduce every (entity, measure, value) triple
	flat := m.Flatten()
	if len(flat) != len(tbl) {
		t.Fatalf("round trip lost records: got %d, want %d", len(flat), len(tbl))
	}
	want := map[[2]string]float64{}
	for _, r := range tbl {
		want[[2]string{r.EntityID, r.MeasureName}] = r.Value.Float
	}
	for _, r := range flat {
		if want[[2]string{r.EntityID, r.MeasureName}] != r.Value.Float {
			t.Errorf("round trip mismatch at (%s, %s): got %v", r.EntityID, r.MeasureName, r.Value.Float)
		}
	}
}

func TestPivotWide_LastWriteWins(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 10),
		record("E1", "M1", 99),
	}

	m := PivotWide(tbl)
	if got := m.Cell("E1", "M1"); got.Missing || got.Float != 99 {
		t.Fatalf("expected last write 99, got %+v", got)
	}
}

func TestPivotWideStrict_DuplicateKey(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 10),
		record("E1", "M1", 99),
	}

	_, err := PivotWideStrict(tbl)
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestPivotWide_EmptyInput(t *testing.T) {
	m := PivotWide(nil)
	if !m.IsEmpty() {
		t.Fatalf("expected empty matrix from empty input")
	}
}

func TestPivotWide_MissingCellsAreNotZero(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 10),
		record("E2", "M2", 20),
	}

	m := PivotWide(tbl)
	cell := m.Cell("E1", "M2")
	if !cell.Missing {
		t.Fatalf("absent cell should be missing, got %+v", cell)
	}
	if cell.Float == 0 && !cell.Missing {
		t.Fatalf("absent cell must not read as zero")
	}
}

func TestDropIncompleteRows(t *testing.T) {
	tbl := table.LongTable{
		record("E1", "M1", 10),
		record("E1", "M2", 20),
		record("E2", "M1", 30),
		// E2 has no M2
		{EntityID: "E3", MeasureName: "M1", Value: table.None(), Level: table.LevelCity},
		record("E3", "M2", 50),
	}

	dense := DropIncompleteRows(PivotWide(tbl))
	if dense.RowCount() != 1 {
		t.Fatalf("expected 1 complete row, got %d", dense.RowCount())
	}
	for _, e := range dense.Entities {
		for _, m := range dense.Measures {
			if dense.Cell(e, m).Missing {
				t.Fatalf("dense matrix has a missing cell at (%s, %s)", e, m)
			}
		}
	}
}
