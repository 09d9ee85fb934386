package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"finbook/internal/core"
)

func newTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewSQLiteRepository() error: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func seedUser(t *testing.T, repo *SQLiteRepository) int64 {
	t.Helper()
	u, err := repo.CreateUser(context.Background(), "test@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	return u.ID
}

func seedCategory(t *testing.T, repo *SQLiteRepository, userID int64, name string, typ core.TransactionType) int64 {
	t.Helper()
	c, err := repo.CreateCategory(context.Background(), core.Category{UserID: userID, Name: name, Type: typ})
	if err != nil {
		t.Fatalf("CreateCategory(%s) error: %v", name, err)
	}
	return c.ID
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.CreateUser(ctx, "dup@example.com", "hash"); err != nil {
		t.Fatalf("first CreateUser() error: %v", err)
	}
	if _, err := repo.CreateUser(ctx, "dup@example.com", "hash"); !errors.Is(err, ErrDuplicate) {
		t.Errorf("second CreateUser() = %v, want %v", err, ErrDuplicate)
	}
}

func TestDefaultSettingsCreatedWithUser(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)

	s, err := repo.GetSettings(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if s.Currency != "EUR" || s.Theme != "system" {
		t.Errorf("default settings = %+v, want EUR/system", s)
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	ctx := context.Background()

	want := core.UserSettings{UserID: userID, Currency: "USD", Locale: "en-GB", Theme: "dark"}
	if err := repo.SaveSettings(ctx, want); err != nil {
		t.Fatalf("SaveSettings() error: %v", err)
	}

	got, err := repo.GetSettings(ctx, userID)
	if err != nil {
		t.Fatalf("GetSettings() error: %v", err)
	}
	if got != want {
		t.Errorf("GetSettings() = %+v, want %+v", got, want)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	catID := seedCategory(t, repo, userID, "groceries", core.Expense)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID:      userID,
		Type:        core.Expense,
		CategoryID:  catID,
		Amount:      core.Money{Cents: 2500},
		Description: "weekly shop",
		Date:        core.NewDate(2026, 8, 10),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("created transaction has no ID")
	}

	got, err := repo.GetTransaction(ctx, created.ID, userID)
	if err != nil {
		t.Fatalf("GetTransaction() error: %v", err)
	}
	if got.Amount.Cents != 2500 || got.Date.Month() != 8 {
		t.Errorf("GetTransaction() = %+v", got)
	}

	got.Description = "monthly shop"
	got.Amount = core.Money{Cents: 3000}
	if err := repo.UpdateTransaction(ctx, got); err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}

	if err := repo.DeleteTransaction(ctx, created.ID, userID); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if _, err := repo.GetTransaction(ctx, created.ID, userID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetTransaction() after delete = %v, want %v", err, ErrNotFound)
	}
}

func TestListTransactionsFilters(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	food := seedCategory(t, repo, userID, "food", core.Expense)
	salary := seedCategory(t, repo, userID, "salary", core.Income)
	ctx := context.Background()

	seed := []core.Transaction{
		{UserID: userID, Type: core.Expense, CategoryID: food, Amount: core.Money{Cents: 1000}, Description: "lunch", Date: core.NewDate(2026, 7, 5)},
		{UserID: userID, Type: core.Expense, CategoryID: food, Amount: core.Money{Cents: 2000}, Description: "dinner", Date: core.NewDate(2026, 8, 5)},
		{UserID: userID, Type: core.Income, CategoryID: salary, Amount: core.Money{Cents: 300000}, Description: "august pay", Date: core.NewDate(2026, 8, 1)},
	}
	for _, tx := range seed {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed CreateTransaction() error: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter TransactionFilter
		want   int
	}{
		{name: "no filter", filter: TransactionFilter{}, want: 3},
		{name: "from august", filter: TransactionFilter{From: core.NewDate(2026, 8, 1)}, want: 2},
		{name: "july only", filter: TransactionFilter{From: core.NewDate(2026, 7, 1), To: core.NewDate(2026, 7, 31)}, want: 1},
		{name: "by category", filter: TransactionFilter{CategoryID: food}, want: 2},
		{name: "by type", filter: TransactionFilter{Type: core.Income}, want: 1},
		{name: "limit", filter: TransactionFilter{Limit: 2}, want: 2},
		{name: "offset past end", filter: TransactionFilter{Offset: 10}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.ListTransactions(ctx, userID, tt.filter)
			if err != nil {
				t.Fatalf("ListTransactions() error: %v", err)
			}
			if len(got) != tt.want {
				t.Errorf("ListTransactions() returned %d rows, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSyncStatusTracking(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	catID := seedCategory(t, repo, userID, "misc", core.Expense)
	ctx := context.Background()

	created, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID: userID, Type: core.Expense, CategoryID: catID,
		Amount: core.Money{Cents: 500}, Description: "coffee", Date: core.NewDate(2026, 8, 20),
	})
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	pending, err := repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnsynced() error: %v", err)
	}
	if len(pending) != 1 || pending[0].SyncStatus != SyncPending {
		t.Fatalf("ListUnsynced() = %+v, want one pending row", pending)
	}

	if err := repo.MarkSynced(ctx, created.ID); err != nil {
		t.Fatalf("MarkSynced() error: %v", err)
	}
	pending, err = repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnsynced() error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("ListUnsynced() after sync = %d rows, want 0", len(pending))
	}

	// Deleting re-queues the row as pending_delete
	if err := repo.DeleteTransaction(ctx, created.ID, userID); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	pending, err = repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnsynced() error: %v", err)
	}
	if len(pending) != 1 || pending[0].SyncStatus != SyncPendingDelete {
		t.Errorf("ListUnsynced() after delete = %+v, want one pending_delete row", pending)
	}

	// Failed rows stay in the scan so the periodic backstop retries them.
	if err := repo.MarkSyncFailed(ctx, created.ID); err != nil {
		t.Fatalf("MarkSyncFailed() error: %v", err)
	}
	pending, err = repo.ListUnsynced(ctx, 10)
	if err != nil {
		t.Fatalf("ListUnsynced() error: %v", err)
	}
	if len(pending) != 1 || pending[0].SyncStatus != SyncFailed {
		t.Errorf("ListUnsynced() after failure = %+v, want one failed row", pending)
	}
}

func TestBudgetUpsertAndSpent(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	catID := seedCategory(t, repo, userID, "transport", core.Expense)
	ctx := context.Background()

	b, err := repo.SaveBudget(ctx, core.Budget{
		UserID: userID, CategoryID: catID, Limit: core.Money{Cents: 10000}, Year: 2026, Month: 8,
	})
	if err != nil {
		t.Fatalf("SaveBudget() error: %v", err)
	}

	// Same category and month replaces the ceiling
	b2, err := repo.SaveBudget(ctx, core.Budget{
		UserID: userID, CategoryID: catID, Limit: core.Money{Cents: 20000}, Year: 2026, Month: 8,
	})
	if err != nil {
		t.Fatalf("SaveBudget() upsert error: %v", err)
	}
	if b2.ID != b.ID || b2.Limit.Cents != 20000 {
		t.Errorf("upsert = %+v, want same ID with new limit", b2)
	}

	for _, cents := range []int64{3000, 2000} {
		if _, err := repo.CreateTransaction(ctx, core.Transaction{
			UserID: userID, Type: core.Expense, CategoryID: catID,
			Amount: core.Money{Cents: cents}, Description: "ticket", Date: core.NewDate(2026, 8, 12),
		}); err != nil {
			t.Fatalf("CreateTransaction() error: %v", err)
		}
	}
	// Outside the budget month, must not count
	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID: userID, Type: core.Expense, CategoryID: catID,
		Amount: core.Money{Cents: 9999}, Description: "ticket", Date: core.NewDate(2026, 9, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	spent, err := repo.SpentForBudget(ctx, b2)
	if err != nil {
		t.Fatalf("SpentForBudget() error: %v", err)
	}
	if spent.Cents != 5000 {
		t.Errorf("SpentForBudget() = %d, want 5000", spent.Cents)
	}
}

func TestGoalContributions(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	ctx := context.Background()

	g, err := repo.CreateGoal(ctx, core.Goal{
		UserID: userID, Name: "vacation", Target: core.Money{Cents: 100000}, Deadline: core.NewDate(2027, 6, 1),
	})
	if err != nil {
		t.Fatalf("CreateGoal() error: %v", err)
	}

	if _, err := repo.AddContribution(ctx, g.ID, userID, core.GoalContribution{
		Amount: core.Money{Cents: 15000}, Date: core.NewDate(2026, 8, 1),
	}); err != nil {
		t.Fatalf("AddContribution() error: %v", err)
	}

	got, err := repo.GetGoal(ctx, g.ID, userID)
	if err != nil {
		t.Fatalf("GetGoal() error: %v", err)
	}
	if got.Saved.Cents != 15000 {
		t.Errorf("Saved = %d, want 15000", got.Saved.Cents)
	}

	contribs, err := repo.ListContributions(ctx, g.ID, userID)
	if err != nil {
		t.Fatalf("ListContributions() error: %v", err)
	}
	if len(contribs) != 1 {
		t.Fatalf("ListContributions() = %d rows, want 1", len(contribs))
	}

	// Another user cannot fund or read this goal
	other, err := repo.CreateUser(ctx, "other@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser() error: %v", err)
	}
	if _, err := repo.AddContribution(ctx, g.ID, other.ID, core.GoalContribution{
		Amount: core.Money{Cents: 100}, Date: core.NewDate(2026, 8, 2),
	}); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-user AddContribution() = %v, want %v", err, ErrNotFound)
	}
}

func TestCategoryDeleteInUse(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	catID := seedCategory(t, repo, userID, "rent", core.Expense)
	ctx := context.Background()

	if _, err := repo.CreateTransaction(ctx, core.Transaction{
		UserID: userID, Type: core.Expense, CategoryID: catID,
		Amount: core.Money{Cents: 80000}, Description: "august rent", Date: core.NewDate(2026, 8, 1),
	}); err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}

	if err := repo.DeleteCategory(ctx, catID, userID); !errors.Is(err, ErrCategoryInUse) {
		t.Errorf("DeleteCategory() = %v, want %v", err, ErrCategoryInUse)
	}
}

func TestRecurringLifecycle(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	catID := seedCategory(t, repo, userID, "subscriptions", core.Expense)
	ctx := context.Background()

	rt, err := repo.CreateRecurring(ctx, core.RecurringTransaction{
		UserID: userID, Type: core.Expense, CategoryID: catID,
		Amount: core.Money{Cents: 999}, Description: "streaming",
		StartDate: core.NewDate(2026, 1, 15), Every: core.Monthly,
	})
	if err != nil {
		t.Fatalf("CreateRecurring() error: %v", err)
	}
	if !rt.LastRun.IsZero() {
		t.Errorf("new template LastRun = %v, want zero", rt.LastRun)
	}

	active, err := repo.ListActiveRecurring(ctx, core.NewDate(2026, 8, 15))
	if err != nil {
		t.Fatalf("ListActiveRecurring() error: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("ListActiveRecurring() = %d rows, want 1", len(active))
	}

	// Before the start date the template is not active
	active, err = repo.ListActiveRecurring(ctx, core.NewDate(2025, 12, 1))
	if err != nil {
		t.Fatalf("ListActiveRecurring() error: %v", err)
	}
	if len(active) != 0 {
		t.Errorf("ListActiveRecurring() before start = %d rows, want 0", len(active))
	}

	if err := repo.MarkRecurringExecuted(ctx, rt.ID, core.NewDate(2026, 8, 15)); err != nil {
		t.Fatalf("MarkRecurringExecuted() error: %v", err)
	}
	got, err := repo.GetRecurring(ctx, rt.ID, userID)
	if err != nil {
		t.Fatalf("GetRecurring() error: %v", err)
	}
	if got.LastRun.IsZero() || got.LastRun.Day() != 15 {
		t.Errorf("LastRun = %v, want 2026-08-15", got.LastRun)
	}
}

func TestMonthOverview(t *testing.T) {
	repo := newTestRepo(t)
	userID := seedUser(t, repo)
	food := seedCategory(t, repo, userID, "food", core.Expense)
	salary := seedCategory(t, repo, userID, "salary", core.Income)
	ctx := context.Background()

	seed := []core.Transaction{
		{UserID: userID, Type: core.Income, CategoryID: salary, Amount: core.Money{Cents: 300000}, Description: "pay", Date: core.NewDate(2026, 8, 1)},
		{UserID: userID, Type: core.Expense, CategoryID: food, Amount: core.Money{Cents: 12000}, Description: "shop", Date: core.NewDate(2026, 8, 10)},
		{UserID: userID, Type: core.Expense, CategoryID: food, Amount: core.Money{Cents: 8000}, Description: "shop", Date: core.NewDate(2026, 8, 20)},
		// Different month, excluded
		{UserID: userID, Type: core.Expense, CategoryID: food, Amount: core.Money{Cents: 50000}, Description: "shop", Date: core.NewDate(2026, 7, 20)},
	}
	for _, tx := range seed {
		if _, err := repo.CreateTransaction(ctx, tx); err != nil {
			t.Fatalf("seed CreateTransaction() error: %v", err)
		}
	}

	ov, err := repo.MonthOverview(ctx, userID, 2026, 8)
	if err != nil {
		t.Fatalf("MonthOverview() error: %v", err)
	}
	if ov.Income.Cents != 300000 {
		t.Errorf("Income = %d, want 300000", ov.Income.Cents)
	}
	if ov.Expense.Cents != 20000 {
		t.Errorf("Expense = %d, want 20000", ov.Expense.Cents)
	}
	if ov.Net.Cents != 280000 {
		t.Errorf("Net = %d, want 280000", ov.Net.Cents)
	}
	if len(ov.ByCategory) != 2 {
		t.Errorf("ByCategory = %d entries, want 2", len(ov.ByCategory))
	}
}
