package printing

import (
	"bytes"
	"html/template"
	"strings"
)

const payslipTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Payslip {{.Reference}}</title>
<style>
  body { font-family: Helvetica, Arial, sans-serif; font-size: 11pt; color: #222; }
  .company { text-align: right; font-size: 10pt; color: #555; }
  h1 { font-size: 18pt; margin: 4mm 0 6mm; }
  table.details td { padding: 1mm 4mm 1mm 0; }
  table.details td.label { font-weight: bold; width: 45mm; }
  table.amounts { border-collapse: collapse; margin-top: 6mm; width: 100%; }
  table.amounts td { border: 1px solid #999; padding: 2mm 3mm; }
  table.amounts td.value { text-align: right; width: 45mm; }
  tr.net td { font-weight: bold; }
  .status-{{lower .Status}} { text-transform: uppercase; }
  .notes { margin-top: 6mm; white-space: pre-wrap; }
  footer { margin-top: 12mm; font-size: 8pt; color: #777; text-align: center; }
</style>
</head>
<body>
{{if .CompanyName}}<div class="company">{{.CompanyName}}</div>{{end}}
<h1>Payslip</h1>
<table class="details">
  <tr><td class="label">Reference</td><td>{{.Reference}}</td></tr>
  <tr><td class="label">Employee</td><td>{{.EmployeeName}}</td></tr>
  <tr><td class="label">Employee ID</td><td>{{.EmployeeID}}</td></tr>
  <tr><td class="label">Period</td><td>{{.PeriodStart}} to {{.PeriodEnd}}</td></tr>
  <tr><td class="label">Status</td><td class="status-{{lower .Status}}">{{.Status}}</td></tr>
  {{if .PaidDate}}<tr><td class="label">Paid on</td><td>{{.PaidDate}}</td></tr>{{end}}
</table>
<table class="amounts">
  <tr><td>Gross salary</td><td class="value">{{.GrossSalary}}</td></tr>
  <tr><td>Deductions</td><td class="value">{{.Deductions}}</td></tr>
  <tr class="net"><td>Net salary</td><td class="value">{{.NetSalary}}</td></tr>
</table>
{{if .Notes}}<div class="notes"><strong>Notes</strong><br>{{.Notes}}</div>{{end}}
<footer>Generated {{.GeneratedAt}}</footer>
</body>
</html>
`

var payslipHTML = template.Must(template.New("payslip").Funcs(template.FuncMap{
	"lower": strings.ToLower,
}).Parse(payslipTemplate))

// RenderHTML fills the payslip HTML template
func RenderHTML(v PayslipView) (string, error) {
	var buf bytes.Buffer
	if err := payslipHTML.Execute(&buf, v); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute payslip template", err)
	}
	return buf.String(), nil
}
