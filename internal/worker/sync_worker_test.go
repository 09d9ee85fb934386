package worker

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finbook/internal/amqp"
	"finbook/internal/core"
	"finbook/internal/sheets"
	"finbook/internal/storage"
)

type fakeMirror struct {
	appends []sheets.Record
	err     error
}

func (f *fakeMirror) Append(ctx context.Context, rec sheets.Record) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.appends = append(f.appends, rec)
	return "Transactions!A2:G2", nil
}

type fakeRemover struct {
	removed []int64
	err     error
}

func (f *fakeRemover) Remove(ctx context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, id)
	return nil
}

func newWorkerFixture(t *testing.T) (*storage.SQLiteRepository, *fakeMirror, *fakeRemover, *SyncWorker) {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	mirror := &fakeMirror{}
	remover := &fakeRemover{}
	return repo, mirror, remover, NewSyncWorker(repo, mirror, remover, 10)
}

func seedTransaction(t *testing.T, repo *storage.SQLiteRepository) core.Transaction {
	t.Helper()
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, "worker@example.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	cat, err := repo.CreateCategory(ctx, core.Category{UserID: user.ID, Name: "Groceries", Type: core.Expense})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	txn, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      user.ID,
		Type:        core.Expense,
		CategoryID:  cat.ID,
		Amount:      core.Money{Cents: 4550},
		Description: "Weekly shop",
		Date:        core.NewDate(2026, 8, 10),
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}
	return txn
}

func TestHandleSyncMessageAppends(t *testing.T) {
	repo, mirror, _, w := newWorkerFixture(t)
	txn := seedTransaction(t, repo)
	ctx := context.Background()

	msg := &amqp.TransactionSyncMessage{ID: txn.ID, Version: 1}
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	if len(mirror.appends) != 1 {
		t.Fatalf("got %d appends, want 1", len(mirror.appends))
	}
	rec := mirror.appends[0]
	if rec.ID != txn.ID || rec.Category != "Groceries" || rec.AmountCents != 4550 {
		t.Errorf("unexpected record: %+v", rec)
	}

	pending, err := repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnsynced: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("expected no pending rows after sync, got %d", len(pending))
	}
}

func TestHandleSyncMessageRemovesDeleted(t *testing.T) {
	repo, mirror, remover, w := newWorkerFixture(t)
	txn := seedTransaction(t, repo)
	ctx := context.Background()

	if err := repo.DeleteTransaction(ctx, txn.ID, txn.UserID); err != nil {
		t.Fatalf("delete transaction: %v", err)
	}

	msg := &amqp.TransactionSyncMessage{ID: txn.ID, Version: 3}
	if err := w.HandleSyncMessage(ctx, msg); err != nil {
		t.Fatalf("HandleSyncMessage: %v", err)
	}

	if len(remover.removed) != 1 || remover.removed[0] != txn.ID {
		t.Errorf("removed = %v, want [%d]", remover.removed, txn.ID)
	}
	if len(mirror.appends) != 0 {
		t.Errorf("deleted row must not be appended, got %d appends", len(mirror.appends))
	}
}

func TestAppendFailureMarksFailed(t *testing.T) {
	repo, mirror, _, w := newWorkerFixture(t)
	txn := seedTransaction(t, repo)
	ctx := context.Background()

	mirror.err = errors.New("quota exceeded")
	msg := &amqp.TransactionSyncMessage{ID: txn.ID, Version: 1}
	if err := w.HandleSyncMessage(ctx, msg); err == nil {
		t.Fatal("expected an error when the mirror rejects the append")
	}

	row, err := repo.GetTransactionRow(ctx, txn.ID)
	if err != nil {
		t.Fatalf("GetTransactionRow: %v", err)
	}
	if row.SyncStatus != storage.SyncFailed {
		t.Errorf("sync status = %q, want %q", row.SyncStatus, storage.SyncFailed)
	}
}

func TestFailedRowRetriedByPendingScan(t *testing.T) {
	repo, mirror, _, w := newWorkerFixture(t)
	txn := seedTransaction(t, repo)
	ctx := context.Background()

	mirror.err = errors.New("quota exceeded")
	if err := w.HandleSyncMessage(ctx, &amqp.TransactionSyncMessage{ID: txn.ID, Version: 1}); err == nil {
		t.Fatal("expected an error when the mirror rejects the append")
	}

	// The periodic scan picks the failed row back up once the mirror recovers.
	mirror.err = nil
	if err := w.ProcessPendingTransactions(ctx); err != nil {
		t.Fatalf("ProcessPendingTransactions: %v", err)
	}

	if len(mirror.appends) != 1 || mirror.appends[0].ID != txn.ID {
		t.Fatalf("expected the failed row to be retried, got %+v", mirror.appends)
	}
	row, err := repo.GetTransactionRow(ctx, txn.ID)
	if err != nil {
		t.Fatalf("GetTransactionRow: %v", err)
	}
	if row.SyncStatus != storage.SyncSynced {
		t.Errorf("sync status = %q, want %q", row.SyncStatus, storage.SyncSynced)
	}
}

func TestStartupSyncCheckDrainsBacklog(t *testing.T) {
	repo, mirror, _, w := newWorkerFixture(t)
	txn := seedTransaction(t, repo)
	ctx := context.Background()

	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("StartupSyncCheck: %v", err)
	}
	if len(mirror.appends) != 1 || mirror.appends[0].ID != txn.ID {
		t.Fatalf("expected the pending row to be mirrored, got %+v", mirror.appends)
	}

	// A second pass finds nothing left to do.
	if err := w.StartupSyncCheck(ctx); err != nil {
		t.Fatalf("second StartupSyncCheck: %v", err)
	}
	if len(mirror.appends) != 1 {
		t.Errorf("row mirrored twice")
	}
}
