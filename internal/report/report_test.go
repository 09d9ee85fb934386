package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"finbook/internal/core"
)

func sampleRows() []Row {
	return []Row{
		{Date: "2026-01-05", Type: core.Income, Category: "Salary", Amount: core.Money{Cents: 300000}, Description: "January salary"},
		{Date: "2026-01-10", Type: core.Expense, Category: "Groceries", Amount: core.Money{Cents: 4550}, Description: "Weekly shop"},
		{Date: "2026-01-12", Type: core.Expense, Category: "Transport", Amount: core.Money{Cents: 1200}, Description: "Metro pass"},
	}
}

func TestNewComputesTotals(t *testing.T) {
	r := New(1, "2026-01-01", "2026-01-31", sampleRows())

	if r.Reference == "" {
		t.Error("expected a non-empty reference")
	}
	if r.TotalIncome.Cents != 300000 {
		t.Errorf("TotalIncome = %d, want 300000", r.TotalIncome.Cents)
	}
	if r.TotalExpense.Cents != 5750 {
		t.Errorf("TotalExpense = %d, want 5750", r.TotalExpense.Cents)
	}
	if r.Net().Cents != 294250 {
		t.Errorf("Net = %d, want 294250", r.Net().Cents)
	}
}

func TestWriteCSV(t *testing.T) {
	r := New(1, "", "", sampleRows())

	var buf bytes.Buffer
	if err := r.WriteCSV(&buf); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "\xEF\xBB\xBF") {
		t.Error("expected UTF-8 BOM prefix")
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(out, "\xEF\xBB\xBF")), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date,Type,Category,Amount,Description") {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(lines[2], "45.50") {
		t.Errorf("expected formatted amount in %q", lines[2])
	}
}

func TestWriteJSON(t *testing.T) {
	r := New(7, "2026-01-01", "2026-01-31", sampleRows())

	var buf bytes.Buffer
	if err := r.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var decoded struct {
		Reference    string  `json:"reference"`
		UserID       int64   `json:"user_id"`
		TotalIncome  float64 `json:"total_income"`
		TotalExpense float64 `json:"total_expense"`
		Rows         []struct {
			Amount float64 `json:"amount"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.UserID != 7 {
		t.Errorf("user_id = %d, want 7", decoded.UserID)
	}
	if decoded.TotalExpense != 57.50 {
		t.Errorf("total_expense = %v, want 57.50", decoded.TotalExpense)
	}
	if len(decoded.Rows) != 3 || decoded.Rows[1].Amount != 45.50 {
		t.Errorf("unexpected rows: %+v", decoded.Rows)
	}
}

func TestWriteXLSX(t *testing.T) {
	r := New(1, "", "", sampleRows())

	var buf bytes.Buffer
	if err := r.WriteXLSX(&buf); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	// XLSX files are zip archives.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("expected zip magic bytes")
	}
}

func TestWriteHTML(t *testing.T) {
	rows := sampleRows()
	rows[0].Description = "Salary <script>"
	r := New(1, "2026-01-01", "", rows)

	var buf bytes.Buffer
	if err := r.WriteHTML(&buf); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Groceries") {
		t.Error("expected category in output")
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected HTML escaping of description")
	}
	if !strings.Contains(out, "2942.50") {
		t.Error("expected net total in output")
	}
}
