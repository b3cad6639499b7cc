package export

import (
	"fmt"

	"github.com/de-tools/posture-atlas/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

// Reporter renders a workbook into a spreadsheet file, one worksheet per
// sheet, in order.
type Reporter struct {
	path string
}

// NewReporter creates a reporter writing to the given spreadsheet path.
func NewReporter(path string) *Reporter {
	return &Reporter{path: path}
}

func (r *Reporter) Handle(wb *domain.Workbook) error {
	file := excelize.NewFile()
	defer func() { _ = file.Close() }()

	for i, sheet := range wb.Sheets {
		if err := r.writeSheet(file, i, sheet); err != nil {
			return err
		}
	}

	if err := file.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to save spreadsheet %s: %w", r.path, err)
	}
	return nil
}

func (r *Reporter) writeSheet(file *excelize.File, index int, sheet domain.Sheet) error {
	if index == 0 {
		// The workbook starts with a single default sheet; rename it instead
		// of leaving it empty.
		if err := file.SetSheetName(file.GetSheetName(0), sheet.Name); err != nil {
			return fmt.Errorf("failed to rename sheet %q: %w", sheet.Name, err)
		}
	} else if _, err := file.NewSheet(sheet.Name); err != nil {
		return fmt.Errorf("failed to create sheet %q: %w", sheet.Name, err)
	}

	var widths []int
	for rowIdx, row := range sheet.Rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("failed to address cell (%d,%d): %w", colIdx+1, rowIdx+1, err)
			}
			if err := file.SetCellValue(sheet.Name, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s on %q: %w", cell, sheet.Name, err)
			}
			for len(widths) <= colIdx {
				widths = append(widths, 0)
			}
			if width := len(fmt.Sprint(value)); width > widths[colIdx] {
				widths[colIdx] = width
			}
		}
	}

	// Approximate autofit from the widest cell per column.
	for colIdx, width := range widths {
		if width == 0 {
			continue
		}
		column, err := excelize.ColumnNumberToName(colIdx + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", colIdx+1, err)
		}
		if err := file.SetColWidth(sheet.Name, column, column, float64(width)+2); err != nil {
			return fmt.Errorf("failed to size column %s on %q: %w", column, sheet.Name, err)
		}
	}
	return nil
}
