package worker

import (
	"context"
	"fmt"
	"log/slog"

	"finbook/internal/amqp"
	"finbook/internal/sheets"
	"finbook/internal/storage"
)

// SyncWorker mirrors transactions from SQLite to the spreadsheet.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	mirror    sheets.MirrorWriter
	remover   sheets.MirrorRemover
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, mirror sheets.MirrorWriter, remover sheets.MirrorRemover, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		mirror:    mirror,
		remover:   remover,
		batchSize: batchSize,
	}
}

// HandleSyncMessage processes a single transaction sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.TransactionSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	row, err := w.storage.GetTransactionRow(ctx, msg.ID)
	if err != nil {
		return fmt.Errorf("get transaction from storage: %w", err)
	}

	return w.syncRow(ctx, row)
}

// ProcessPendingTransactions mirrors any transactions still waiting for sync.
// This is a backup mechanism in case AMQP messages are lost.
func (w *SyncWorker) ProcessPendingTransactions(ctx context.Context) error {
	pending, err := w.storage.ListUnsynced(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("list unsynced transactions: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending transactions", "count", len(pending))

	for _, row := range pending {
		if err := w.syncRow(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction", "id", row.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog when the worker starts.
// Useful to recover from missed AMQP messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.ListUnsynced(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("list unsynced transactions for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending transactions found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending transactions on startup, processing...",
		"count", len(pending))

	successCount := 0
	errorCount := 0

	for _, row := range pending {
		if err := w.syncRow(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync transaction during startup",
				"id", row.ID, "error", err)
			errorCount++
			continue
		}
		successCount++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", successCount,
		"errors", errorCount)

	return nil
}

// syncRow pushes a single row to the mirror. Deleted rows are removed from
// the sheet; everything else is appended (updates appear as a fresh row with
// the same ID after the old one is removed).
func (w *SyncWorker) syncRow(ctx context.Context, row storage.TransactionRow) error {
	if row.SyncStatus == storage.SyncPendingDelete || row.DeletedAt.Valid {
		return w.removeRow(ctx, row)
	}
	return w.appendRow(ctx, row)
}

func (w *SyncWorker) appendRow(ctx context.Context, row storage.TransactionRow) error {
	categoryName, err := w.storage.CategoryName(ctx, row.CategoryID)
	if err != nil {
		w.markFailed(ctx, row.ID)
		return fmt.Errorf("resolve category name: %w", err)
	}

	// Rows are keyed by transaction ID, so stale copies from earlier
	// versions must go before the current one is appended.
	if w.remover != nil {
		if err := w.remover.Remove(ctx, row.ID); err != nil {
			slog.WarnContext(ctx, "Failed to remove stale mirror row before append",
				"id", row.ID, "error", err)
		}
	}

	rec := sheets.Record{
		ID:          row.ID,
		UserID:      row.UserID,
		Date:        row.TxnDate,
		Type:        row.Type,
		Category:    categoryName,
		AmountCents: row.AmountCents,
		Description: row.Description,
	}

	ref, err := w.mirror.Append(ctx, rec)
	if err != nil {
		w.markFailed(ctx, row.ID)
		return fmt.Errorf("append to mirror: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, row.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", row.ID, "error", err)
		// The mirror write itself worked, so the message is done.
	}

	slog.InfoContext(ctx, "Successfully synced transaction",
		"id", row.ID,
		"sheets_ref", ref,
		"amount_cents", row.AmountCents)

	return nil
}

func (w *SyncWorker) removeRow(ctx context.Context, row storage.TransactionRow) error {
	if w.remover == nil {
		slog.WarnContext(ctx, "No mirror remover configured, skipping deletion",
			"id", row.ID)
		return w.storage.MarkSynced(ctx, row.ID)
	}

	if err := w.remover.Remove(ctx, row.ID); err != nil {
		w.markFailed(ctx, row.ID)
		return fmt.Errorf("remove from mirror: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, row.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to mark deletion as synced", "id", row.ID, "error", err)
	}

	slog.InfoContext(ctx, "Successfully removed transaction from mirror", "id", row.ID)
	return nil
}

func (w *SyncWorker) markFailed(ctx context.Context, id int64) {
	if err := w.storage.MarkSyncFailed(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to mark sync failure", "id", id, "error", err)
	}
}
