package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	payrollapp "github.com/erp/payroll/internal/application/payroll"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() *payrollapp.ExportTable {
	return &payrollapp.ExportTable{
		Headers: []string{"Status", "Net Salary", "Employee Name"},
		Rows: [][]string{
			{"draft", "125.00", "Ann, Jr."},
			{"paid", "2000.50", `Bob "The Builder"`},
		},
		NumericColumns: []int{1},
	}
}

func TestCSVEncoder(t *testing.T) {
	e := NewCSVEncoder("payslips")
	assert.Equal(t, "csv", e.Format())

	doc, err := e.Encode(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "payslips.csv", doc.Filename)
	assert.Equal(t, "text/csv", doc.ContentType)

	records, err := csv.NewReader(bytes.NewReader(doc.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Status", "Net Salary", "Employee Name"}, records[0])
	assert.Equal(t, "Ann, Jr.", records[1][2])
	assert.Equal(t, `Bob "The Builder"`, records[2][2])
}

func TestCSVEncoder_EmptyTable(t *testing.T) {
	doc, err := NewCSVEncoder("payslips").Encode(&payrollapp.ExportTable{Headers: []string{"Status"}})
	require.NoError(t, err)
	assert.Equal(t, "Status\n", string(doc.Data))
}

func TestExcelEncoder(t *testing.T) {
	e := NewExcelEncoder("payslips", "Payslips")
	assert.Equal(t, "excel", e.Format())

	doc, err := e.Encode(sampleTable())
	require.NoError(t, err)
	assert.Equal(t, "payslips.xlsx", doc.Filename)
	assert.Equal(t, xlsxContentType, doc.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Payslips"}, f.GetSheetList())
	rows, err := f.GetRows("Payslips")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Status", "Net Salary", "Employee Name"}, rows[0])
	assert.Equal(t, "draft", rows[1][0])
	assert.Equal(t, `Bob "The Builder"`, rows[2][2])

	raw, err := f.GetCellValue("Payslips", "B3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "2000.5", raw)

	cellType, err := f.GetCellType("Payslips", "B3")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, cellType)
}
