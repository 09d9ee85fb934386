package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finbook/internal/core"
)

// RecurringStore is the storage surface the processor needs.
type RecurringStore interface {
	ListActiveRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringTransaction, error)
	MarkRecurringExecuted(ctx context.Context, id int64, date core.Date) error
}

// TransactionCreator materializes a transaction from a template.
type TransactionCreator interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
}

// RecurringProcessor handles the automatic creation of transactions from
// recurring templates.
type RecurringProcessor struct {
	store   RecurringStore
	creator TransactionCreator
}

// NewRecurringProcessor creates a new recurring transaction processor
func NewRecurringProcessor(store RecurringStore, creator TransactionCreator) *RecurringProcessor {
	return &RecurringProcessor{
		store:   store,
		creator: creator,
	}
}

// ProcessDueTemplates materializes every active template that is due at the
// given time. One failing template never blocks the rest of the batch.
func (p *RecurringProcessor) ProcessDueTemplates(ctx context.Context, now time.Time) (int, error) {
	if p.store == nil || p.creator == nil {
		return 0, fmt.Errorf("processor not properly initialized")
	}

	today := core.NewDate(now.Year(), int(now.Month()), now.Day())
	templates, err := p.store.ListActiveRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("list active recurring transactions: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring transactions",
		"total_active", len(templates),
		"processing_date", now.Format("2006-01-02"))

	processedCount := 0

	for _, tmpl := range templates {
		checker, err := GetDuenessChecker(tmpl.Every)
		if err != nil {
			slog.ErrorContext(ctx, "Unknown frequency on template",
				"id", tmpl.ID,
				"frequency", tmpl.Every,
				"error", err)
			continue
		}

		if !checker.IsDue(tmpl.LastRun.Time, now, tmpl.StartDate) {
			continue
		}

		txn := core.Transaction{
			UserID:      tmpl.UserID,
			Type:        tmpl.Type,
			CategoryID:  tmpl.CategoryID,
			Amount:      tmpl.Amount,
			Description: tmpl.Description,
			Date:        today,
		}

		if _, err := p.creator.CreateTransaction(ctx, txn); err != nil {
			slog.ErrorContext(ctx, "Failed to create transaction from recurring template",
				"template_id", tmpl.ID,
				"description", tmpl.Description,
				"error", err)
			continue
		}

		if err := p.store.MarkRecurringExecuted(ctx, tmpl.ID, today); err != nil {
			slog.ErrorContext(ctx, "Failed to update last execution date",
				"template_id", tmpl.ID,
				"error", err)
			// Continue anyway, the transaction was created
		}

		processedCount++
		slog.InfoContext(ctx, "Created transaction from recurring template",
			"template_id", tmpl.ID,
			"description", tmpl.Description,
			"amount_cents", tmpl.Amount.Cents,
			"frequency", tmpl.Every)
	}

	slog.InfoContext(ctx, "Recurring transaction processing complete",
		"processed", processedCount,
		"total_checked", len(templates))

	return processedCount, nil
}
