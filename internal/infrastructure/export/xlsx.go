package export

import (
	"fmt"
	"strconv"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExcelEncoder writes exports as a single-sheet XLSX workbook
type ExcelEncoder struct {
	filename  string
	sheetName string
}

// NewExcelEncoder creates an XLSX encoder producing <basename>.xlsx
func NewExcelEncoder(basename, sheetName string) *ExcelEncoder {
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	return &ExcelEncoder{filename: basename + ".xlsx", sheetName: sheetName}
}

func (e *ExcelEncoder) Format() string {
	return payrollapp.ExportFormatExcel
}

// Encode writes a bold header row and one row per record. Columns flagged
// numeric are stored as numbers so spreadsheet formulas work on them.
func (e *ExcelEncoder) Encode(table *payrollapp.ExportTable) (*payrollapp.Document, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", e.sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	header := make([]any, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := f.SetSheetRow(e.sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(e.sheetName, "A1", last, headerStyle); err != nil {
			return nil, fmt.Errorf("failed to style header: %w", err)
		}
	}

	for r, row := range table.Rows {
		values := make([]any, len(row))
		for c, cell := range row {
			values[c] = cell
			if table.IsNumeric(c) {
				if v, err := strconv.ParseFloat(cell, 64); err == nil {
					values[c] = v
				}
			}
		}
		start, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(e.sheetName, start, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", r+1, err)
		}
	}

	for c := range table.Headers {
		if !table.IsNumeric(c) || len(table.Rows) == 0 {
			continue
		}
		top, _ := excelize.CoordinatesToCellName(c+1, 2)
		bottom, _ := excelize.CoordinatesToCellName(c+1, len(table.Rows)+1)
		if err := f.SetCellStyle(e.sheetName, top, bottom, moneyStyle); err != nil {
			return nil, fmt.Errorf("failed to style column %d: %w", c+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return &payrollapp.Document{
		Filename:    e.filename,
		ContentType: xlsxContentType,
		Data:        buf.Bytes(),
	}, nil
}
