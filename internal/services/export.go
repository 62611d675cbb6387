package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/rahul4469/area-analyzer/internal/models"
)

const exportSheet = "Placeholder"

// ExportBoard writes the placeholder table of result into an xlsx workbook.
// Numeric values keep their type so the sheet can be charted again.
func ExportBoard(result *models.BoardResult) ([]byte, error) {
	if result == nil || len(result.Rows) == 0 {
		return nil, models.ErrNothingToExport
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	if err := f.SetCellValue(exportSheet, "A1", result.Summary); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	for i, h := range result.Headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 3)
		if err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		if err := f.SetCellValue(exportSheet, cell, h); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}
	if err := f.SetCellStyle(exportSheet, "A3", "B3", bold); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	for i, row := range result.Rows {
		r := i + 4
		if err := f.SetCellValue(exportSheet, fmt.Sprintf("A%d", r), row.Category); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
		if err := f.SetCellValue(exportSheet, fmt.Sprintf("B%d", r), row.Value); err != nil {
			return nil, fmt.Errorf("export: %w", err)
		}
	}

	if err := f.SetColWidth(exportSheet, "A", "B", 24); err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	return buf.Bytes(), nil
}
