package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"cityhealth/domain/stats"
	"cityhealth/domain/table"
)

const (
	wideSheet = "WideMatrix"
	corrSheet = "Correlation"
)

// writeWorkbook exports the dense wide matrix and the reordered correlation
// matrix to an xlsx workbook for offline inspection.
func writeWorkbook(path string, wide *table.WideMatrix, corr *stats.CorrelationMatrix) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeWideSheet(f, wide); err != nil {
		return err
	}
	if err := writeCorrSheet(f, corr); err != nil {
		return err
	}

	// Drop the default sheet left over from NewFile
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeWideSheet(f *excelize.File, wide *table.WideMatrix) error {
	if _, err := f.NewSheet(wideSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", wideSheet, err)
	}

	header := append([]interface{}{"EntityID"}, toIfaces(wide.Measures)...)
	if err := f.SetSheetRow(wideSheet, "A1", &header); err != nil {
		return err
	}
	for i, e := range wide.Entities {
		row := make([]interface{}, 0, len(wide.Measures)+1)
		row = append(row, e)
		for _, measure := range wide.Measures {
			v := wide.Cell(e, measure)
			if v.Missing {
				row = append(row, nil)
			} else {
				row = append(row, v.Float)
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(wideSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeCorrSheet(f *excelize.File, corr *stats.CorrelationMatrix) error {
	if _, err := f.NewSheet(corrSheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", corrSheet, err)
	}

	header := append([]interface{}{""}, toIfaces(corr.Measures)...)
	if err := f.SetSheetRow(corrSheet, "A1", &header); err != nil {
		return err
	}
	for i, measure := range corr.Measures {
		row := make([]interface{}, 0, corr.Dim()+1)
		row = append(row, measure)
		for j := 0; j < corr.Dim(); j++ {
			row = append(row, corr.At(i, j))
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(corrSheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func toIfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
