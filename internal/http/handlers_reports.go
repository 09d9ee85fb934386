package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"finbook/internal/core"
	"finbook/internal/report"
	"finbook/internal/storage"
)

var reportContentTypes = map[string]string{
	"csv":  "text/csv; charset=utf-8",
	"json": "application/json",
	"xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	"html": "text/html; charset=utf-8",
}

// reportHandler builds a month export in the given format.
func (s *Server) reportHandler(format string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, err := userID(r)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}

		year, month, err := parseYearMonth(r, time.Now())
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}

		rep, err := s.buildMonthReport(r, uid, year, month)
		if err != nil {
			respondError(r.Context(), w, err)
			return
		}

		filename := fmt.Sprintf("transactions_%04d%02d.%s", year, month, format)
		w.Header().Set("Content-Type", reportContentTypes[format])
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

		switch format {
		case "csv":
			err = rep.WriteCSV(w)
		case "json":
			err = rep.WriteJSON(w)
		case "xlsx":
			err = rep.WriteXLSX(w)
		case "html":
			err = rep.WriteHTML(w)
		}
		if err != nil {
			// Headers are already out; all we can do is log.
			slog.ErrorContext(r.Context(), "Failed to write report",
				"format", format, "reference", rep.Reference, "error", err)
			return
		}

		slog.InfoContext(r.Context(), "Report downloaded",
			"user_id", uid,
			"format", format,
			"reference", rep.Reference,
			"rows", len(rep.Rows))
	}
}

func (s *Server) buildMonthReport(r *http.Request, uid int64, year, month int) (*report.Report, error) {
	first := core.NewDate(year, month, 1)
	last := core.Date{Time: first.AddDate(0, 1, -1)}

	// Page through storage so a busy month is never truncated.
	var transactions []core.Transaction
	for offset := 0; ; {
		page, err := s.storage.ListTransactions(r.Context(), uid, storage.TransactionFilter{
			From:   first,
			To:     last,
			Limit:  500,
			Offset: offset,
		})
		if err != nil {
			return nil, fmt.Errorf("list transactions: %w", err)
		}
		transactions = append(transactions, page...)
		if len(page) < 500 {
			break
		}
		offset += len(page)
	}

	categories, err := s.storage.ListCategories(r.Context(), uid)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	names := make(map[int64]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	rows := make([]report.Row, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, report.Row{
			Date:        t.Date.Format(dateLayout),
			Type:        t.Type,
			Category:    names[t.CategoryID],
			Amount:      t.Amount,
			Description: t.Description,
		})
	}

	return report.New(uid, first.Format(dateLayout), last.Format(dateLayout), rows), nil
}
