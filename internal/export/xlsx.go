package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ContentTypeXLSX is the MIME type of a workbook
const ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// WriteXLSX writes one worksheet per sheet, the first one active
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets to export")
	}

	wb := excelize.NewFile()
	defer wb.Close()

	headerStyle, err := wb.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	// highlight_max 红色
	highlightStyle, err := wb.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FF4B4B"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create highlight style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := wb.SetSheetName("Sheet1", s.Name); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := wb.NewSheet(s.Name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", s.Name, err)
		}

		if err := writeSheet(wb, s, headerStyle, highlightStyle); err != nil {
			return err
		}
	}

	wb.SetActiveSheet(0)
	if err := wb.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSheet(wb *excelize.File, s Sheet, headerStyle, highlightStyle int) error {
	for col, h := range s.Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := wb.SetCellValue(s.Name, cell, h); err != nil {
			return fmt.Errorf("failed to write header %s: %w", h, err)
		}
	}
	if len(s.Headers) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(s.Headers), 1)
		if err := wb.SetCellStyle(s.Name, "A1", last, headerStyle); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
		lastCol, _ := excelize.ColumnNumberToName(len(s.Headers))
		_ = wb.SetColWidth(s.Name, "A", lastCol, 14)
	}

	for r, row := range s.Rows {
		for c, v := range row {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := wb.SetCellValue(s.Name, cell, v); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	for _, h := range s.Highlight {
		cell, _ := excelize.CoordinatesToCellName(h[1]+1, h[0]+2)
		if err := wb.SetCellStyle(s.Name, cell, cell, highlightStyle); err != nil {
			return fmt.Errorf("failed to highlight %s: %w", cell, err)
		}
	}

	return nil
}
