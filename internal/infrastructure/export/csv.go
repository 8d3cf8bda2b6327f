// Package export encodes payslip list exports as CSV or XLSX documents.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
)

// CSVEncoder writes exports as RFC 4180 CSV
type CSVEncoder struct {
	filename string
}

// NewCSVEncoder creates a CSV encoder producing <basename>.csv
func NewCSVEncoder(basename string) *CSVEncoder {
	return &CSVEncoder{filename: basename + ".csv"}
}

func (e *CSVEncoder) Format() string {
	return payrollapp.ExportFormatCSV
}

// Encode writes the header row followed by every data row
func (e *CSVEncoder) Encode(table *payrollapp.ExportTable) (*payrollapp.Document, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Headers); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return nil, fmt.Errorf("failed to write csv rows: %w", err)
	}

	return &payrollapp.Document{
		Filename:    e.filename,
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
