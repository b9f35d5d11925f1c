package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet the export is written to.
const SheetName = "Picklist Export"

// maxColumnWidth caps auto-sized column widths.
const maxColumnWidth = 50

// XLSXWriter writes the table as a styled Excel workbook: bold white
// header on a solid fill, auto-sized columns, header row frozen.
type XLSXWriter struct{}

func (XLSXWriter) Write(rows [][]string, path string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	widths := make([]int, 0)
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return "", fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return "", fmt.Errorf("set cell %s: %w", cell, err)
			}
			for len(widths) <= c {
				widths = append(widths, 0)
			}
			if len(value) > widths[c] {
				widths[c] = len(value)
			}
		}
	}

	if len(rows) > 0 && len(rows[0]) > 0 {
		if err := styleHeader(f, len(rows[0])); err != nil {
			return "", err
		}
	}

	for c, width := range widths {
		col, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			continue
		}
		w := width + 2
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		_ = f.SetColWidth(SheetName, col, col, float64(w))
	}

	_ = f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})

	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return path, nil
}

func styleHeader(f *excelize.File, columns int) error {
	styleID, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"366092"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}

	end, err := excelize.CoordinatesToCellName(columns, 1)
	if err != nil {
		return fmt.Errorf("header range: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", end, styleID); err != nil {
		return fmt.Errorf("apply header style: %w", err)
	}
	return nil
}
