// Package report renders transaction exports in CSV, JSON, XLSX, and HTML.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"time"

	"finbook/internal/core"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Row is a single transaction line in an export, with the category already
// resolved to its name.
type Row struct {
	Date        string               `json:"date"`
	Type        core.TransactionType `json:"type"`
	Category    string               `json:"category"`
	Amount      core.Money           `json:"-"`
	AmountValue float64              `json:"amount"`
	Description string               `json:"description"`
}

// Report is a set of rows for one user and period, plus totals.
type Report struct {
	Reference    string     `json:"reference"`
	GeneratedAt  time.Time  `json:"generated_at"`
	UserID       int64      `json:"user_id"`
	From         string     `json:"from,omitempty"`
	To           string     `json:"to,omitempty"`
	Rows         []Row      `json:"rows"`
	TotalIncome  core.Money `json:"-"`
	TotalExpense core.Money `json:"-"`
	IncomeValue  float64    `json:"total_income"`
	ExpenseValue float64    `json:"total_expense"`
}

// New builds a report over the given rows and assigns it a unique reference.
func New(userID int64, from, to string, rows []Row) *Report {
	r := &Report{
		Reference:   uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
		UserID:      userID,
		From:        from,
		To:          to,
		Rows:        rows,
	}
	for i := range rows {
		rows[i].AmountValue = rows[i].Amount.Units()
		switch rows[i].Type {
		case core.Income:
			r.TotalIncome.Cents += rows[i].Amount.Cents
		case core.Expense:
			r.TotalExpense.Cents += rows[i].Amount.Cents
		}
	}
	r.IncomeValue = r.TotalIncome.Units()
	r.ExpenseValue = r.TotalExpense.Units()
	return r
}

// Net returns income minus expense.
func (r *Report) Net() core.Money {
	return core.Money{Cents: r.TotalIncome.Cents - r.TotalExpense.Cents}
}

var csvHeader = []string{"Date", "Type", "Category", "Amount", "Description"}

// WriteCSV writes the report as UTF-8 CSV. A BOM is emitted first so that
// spreadsheet applications pick the right encoding.
func (r *Report) WriteCSV(w io.Writer) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range r.Rows {
		record := []string{row.Date, string(row.Type), row.Category, row.Amount.String(), row.Description}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

const xlsxSheet = "Transactions"

// WriteXLSX writes the report as an Excel workbook with a single sheet.
func (r *Report) WriteXLSX(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(xlsxSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	for i, h := range csvHeader {
		cell := fmt.Sprintf("%c1", 'A'+i)
		if err := f.SetCellValue(xlsxSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for idx, row := range r.Rows {
		n := idx + 2
		f.SetCellValue(xlsxSheet, fmt.Sprintf("A%d", n), row.Date)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("B%d", n), string(row.Type))
		f.SetCellValue(xlsxSheet, fmt.Sprintf("C%d", n), row.Category)
		f.SetCellValue(xlsxSheet, fmt.Sprintf("D%d", n), row.Amount.Units())
		f.SetCellValue(xlsxSheet, fmt.Sprintf("E%d", n), row.Description)
	}

	f.SetColWidth(xlsxSheet, "A", "A", 12)
	f.SetColWidth(xlsxSheet, "B", "B", 10)
	f.SetColWidth(xlsxSheet, "C", "C", 18)
	f.SetColWidth(xlsxSheet, "D", "D", 12)
	f.SetColWidth(xlsxSheet, "E", "E", 40)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

var htmlTmpl = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Transaction report {{.Reference}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: left; }
th { background: #f0f0f0; }
td.amount { text-align: right; }
tfoot td { font-weight: bold; }
</style>
</head>
<body>
<h1>Transaction report</h1>
<p>Reference {{.Reference}}, generated {{.GeneratedAt.Format "2006-01-02 15:04"}} UTC{{if .From}}, from {{.From}}{{end}}{{if .To}} to {{.To}}{{end}}.</p>
<table>
<thead>
<tr><th>Date</th><th>Type</th><th>Category</th><th>Amount</th><th>Description</th></tr>
</thead>
<tbody>
{{range .Rows}}<tr><td>{{.Date}}</td><td>{{.Type}}</td><td>{{.Category}}</td><td class="amount">{{.Amount}}</td><td>{{.Description}}</td></tr>
{{end}}</tbody>
<tfoot>
<tr><td colspan="3">Income</td><td class="amount">{{.TotalIncome}}</td><td></td></tr>
<tr><td colspan="3">Expense</td><td class="amount">{{.TotalExpense}}</td><td></td></tr>
<tr><td colspan="3">Net</td><td class="amount">{{.Net}}</td><td></td></tr>
</tfoot>
</table>
</body>
</html>
`))

// WriteHTML writes the report as a standalone HTML page.
func (r *Report) WriteHTML(w io.Writer) error {
	return htmlTmpl.Execute(w, r)
}
