package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"finbook/internal/core"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicate     = errors.New("already exists")
	ErrCategoryInUse = errors.New("category has transactions")
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, queries: New(db)}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks database connectivity, used by readiness probes.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func wrapErr(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("%s: %w", op, ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func formatDate(d core.Date) string {
	return d.Time.Format(dateLayout)
}

func parseDate(s string) core.Date {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return core.Date{}
	}
	return core.Date{Time: t}
}

func nullDate(d core.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: formatDate(d), Valid: true}
}

func monthRange(year, month int) (string, string) {
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return first.Format(dateLayout), last.Format(dateLayout)
}

// --- users ---

// CreateUser stores a new account and its default settings in one transaction.
func (r *SQLiteRepository) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	u, err := q.CreateUser(ctx, email, passwordHash)
	if err != nil {
		return User{}, wrapErr("create user", err)
	}
	if err := q.UpsertSettings(ctx, UserSetting{
		UserID:   u.ID,
		Currency: "EUR",
		Locale:   "en-US",
		Theme:    "system",
	}); err != nil {
		return User{}, wrapErr("create default settings", err)
	}

	if err := tx.Commit(); err != nil {
		return User{}, fmt.Errorf("commit: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByEmail(ctx context.Context, email string) (User, error) {
	u, err := r.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return User{}, wrapErr("get user by email", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetUserByID(ctx context.Context, id int64) (User, error) {
	u, err := r.queries.GetUserByID(ctx, id)
	if err != nil {
		return User{}, wrapErr("get user", err)
	}
	return u, nil
}

// --- settings ---

func (r *SQLiteRepository) GetSettings(ctx context.Context, userID int64) (core.UserSettings, error) {
	s, err := r.queries.GetSettings(ctx, userID)
	if err != nil {
		return core.UserSettings{}, wrapErr("get settings", err)
	}
	return core.UserSettings{UserID: s.UserID, Currency: s.Currency, Locale: s.Locale, Theme: s.Theme}, nil
}

func (r *SQLiteRepository) SaveSettings(ctx context.Context, s core.UserSettings) error {
	err := r.queries.UpsertSettings(ctx, UserSetting{
		UserID:   s.UserID,
		Currency: s.Currency,
		Locale:   s.Locale,
		Theme:    s.Theme,
	})
	if err != nil {
		return wrapErr("save settings", err)
	}
	return nil
}

// --- categories ---

func categoryFromRow(c CategoryRow) core.Category {
	return core.Category{ID: c.ID, UserID: c.UserID, Name: c.Name, Type: core.TransactionType(c.Type)}
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	row, err := r.queries.CreateCategory(ctx, c.UserID, c.Name, string(c.Type))
	if err != nil {
		return core.Category{}, wrapErr("create category", err)
	}
	return categoryFromRow(row), nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id, userID int64) (core.Category, error) {
	row, err := r.queries.GetCategory(ctx, id, userID)
	if err != nil {
		return core.Category{}, wrapErr("get category", err)
	}
	return categoryFromRow(row), nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, userID int64) ([]core.Category, error) {
	rows, err := r.queries.ListCategories(ctx, userID)
	if err != nil {
		return nil, wrapErr("list categories", err)
	}
	out := make([]core.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) RenameCategory(ctx context.Context, id, userID int64, name string) error {
	n, err := r.queries.UpdateCategory(ctx, id, userID, name)
	if err != nil {
		return wrapErr("rename category", err)
	}
	if n == 0 {
		return fmt.Errorf("rename category: %w", ErrNotFound)
	}
	return nil
}

// DeleteCategory refuses to delete a category that still has transactions.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id, userID int64) error {
	count, err := r.queries.CountTransactionsByCategory(ctx, id)
	if err != nil {
		return wrapErr("count category transactions", err)
	}
	if count > 0 {
		return fmt.Errorf("delete category: %w", ErrCategoryInUse)
	}
	n, err := r.queries.DeleteCategory(ctx, id, userID)
	if err != nil {
		return wrapErr("delete category", err)
	}
	if n == 0 {
		return fmt.Errorf("delete category: %w", ErrNotFound)
	}
	return nil
}

// --- transactions ---

func transactionFromRow(t TransactionRow) core.Transaction {
	return core.Transaction{
		ID:          t.ID,
		UserID:      t.UserID,
		Type:        core.TransactionType(t.Type),
		CategoryID:  t.CategoryID,
		Amount:      core.Money{Cents: t.AmountCents},
		Description: t.Description,
		Date:        parseDate(t.TxnDate),
	}
}

func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	row, err := r.queries.CreateTransaction(ctx, CreateTransactionParams{
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		TxnDate:     formatDate(t.Date),
	})
	if err != nil {
		return core.Transaction{}, wrapErr("create transaction", err)
	}
	return transactionFromRow(row), nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id, userID int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id, userID)
	if err != nil {
		return core.Transaction{}, wrapErr("get transaction", err)
	}
	return transactionFromRow(row), nil
}

// TransactionFilter narrows ListTransactions results. Zero values mean
// no constraint.
type TransactionFilter struct {
	From       core.Date
	To         core.Date
	CategoryID int64
	Type       core.TransactionType
	Limit      int
	Offset     int
}

const defaultListLimit = 50
const maxListLimit = 500

func (r *SQLiteRepository) ListTransactions(ctx context.Context, userID int64, f TransactionFilter) ([]core.Transaction, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	p := ListTransactionsParams{
		UserID:     userID,
		CategoryID: f.CategoryID,
		Type:       string(f.Type),
		Limit:      int64(limit),
		Offset:     int64(f.Offset),
	}
	if !f.From.IsZero() {
		p.From = formatDate(f.From)
	}
	if !f.To.IsZero() {
		p.To = formatDate(f.To)
	}

	rows, err := r.queries.ListTransactions(ctx, p)
	if err != nil {
		return nil, wrapErr("list transactions", err)
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, transactionFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	n, err := r.queries.UpdateTransaction(ctx, UpdateTransactionParams{
		ID:          t.ID,
		UserID:      t.UserID,
		CategoryID:  t.CategoryID,
		Type:        string(t.Type),
		AmountCents: t.Amount.Cents,
		Description: t.Description,
		TxnDate:     formatDate(t.Date),
	})
	if err != nil {
		return wrapErr("update transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("update transaction: %w", ErrNotFound)
	}
	return nil
}

// DeleteTransaction soft-deletes so the sync worker can mirror the removal.
func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id, userID int64) error {
	n, err := r.queries.SoftDeleteTransaction(ctx, id, userID)
	if err != nil {
		return wrapErr("delete transaction", err)
	}
	if n == 0 {
		return fmt.Errorf("delete transaction: %w", ErrNotFound)
	}
	return nil
}

// GetTransactionRow returns the raw row regardless of owner or deletion
// state. Used by the sync worker.
func (r *SQLiteRepository) GetTransactionRow(ctx context.Context, id int64) (TransactionRow, error) {
	row, err := r.queries.GetTransactionByID(ctx, id)
	if err != nil {
		return TransactionRow{}, wrapErr("get transaction row", err)
	}
	return row, nil
}

// CategoryName resolves a category ID for mirroring and reports.
func (r *SQLiteRepository) CategoryName(ctx context.Context, id int64) (string, error) {
	name, err := r.queries.GetCategoryName(ctx, id)
	if err != nil {
		return "", wrapErr("get category name", err)
	}
	return name, nil
}

// ListUnsynced returns raw rows so the sync worker can see deletion state.
func (r *SQLiteRepository) ListUnsynced(ctx context.Context, limit int) ([]TransactionRow, error) {
	rows, err := r.queries.ListUnsyncedTransactions(ctx, int64(limit))
	if err != nil {
		return nil, wrapErr("list unsynced transactions", err)
	}
	return rows, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.SetTransactionSyncStatus(ctx, id, SyncSynced); err != nil {
		return wrapErr("mark synced", err)
	}
	return nil
}

func (r *SQLiteRepository) MarkSyncFailed(ctx context.Context, id int64) error {
	if err := r.queries.SetTransactionSyncStatus(ctx, id, SyncFailed); err != nil {
		return wrapErr("mark sync failed", err)
	}
	return nil
}

// --- aggregations ---

func (r *SQLiteRepository) MonthOverview(ctx context.Context, userID int64, year, month int) (core.MonthOverview, error) {
	from, to := monthRange(year, month)
	rows, err := r.queries.CategoryTotalsForRange(ctx, userID, from, to)
	if err != nil {
		return core.MonthOverview{}, wrapErr("month overview", err)
	}

	ov := core.MonthOverview{Year: year, Month: month}
	for _, row := range rows {
		ov.ByCategory = append(ov.ByCategory, core.CategoryAmount{
			Name:   row.Name,
			Type:   core.TransactionType(row.Type),
			Amount: core.Money{Cents: row.TotalCents},
		})
		if row.Type == string(core.Income) {
			ov.Income.Cents += row.TotalCents
		} else {
			ov.Expense.Cents += row.TotalCents
		}
	}
	ov.Net = core.Money{Cents: ov.Income.Cents - ov.Expense.Cents}
	return ov, nil
}

// SpentForBudget sums expense transactions of the budget's category in its month.
func (r *SQLiteRepository) SpentForBudget(ctx context.Context, b core.Budget) (core.Money, error) {
	from, to := monthRange(b.Year, b.Month)
	total, err := r.queries.SumExpensesByCategoryMonth(ctx, b.UserID, b.CategoryID, from, to)
	if err != nil {
		return core.Money{}, wrapErr("sum budget spend", err)
	}
	return core.Money{Cents: total}, nil
}

// --- recurring ---

func recurringFromRow(row RecurringRow) core.RecurringTransaction {
	rt := core.RecurringTransaction{
		ID:          row.ID,
		UserID:      row.UserID,
		Type:        core.TransactionType(row.Type),
		CategoryID:  row.CategoryID,
		Amount:      core.Money{Cents: row.AmountCents},
		Description: row.Description,
		StartDate:   parseDate(row.StartDate),
		Every:       core.Frequency(row.Frequency),
	}
	if row.EndDate.Valid {
		rt.EndDate = parseDate(row.EndDate.String)
	}
	if row.LastExecutionDate.Valid {
		rt.LastRun = parseDate(row.LastExecutionDate.String)
	}
	return rt
}

func (r *SQLiteRepository) CreateRecurring(ctx context.Context, rt core.RecurringTransaction) (core.RecurringTransaction, error) {
	row, err := r.queries.CreateRecurring(ctx, CreateRecurringParams{
		UserID:      rt.UserID,
		CategoryID:  rt.CategoryID,
		Type:        string(rt.Type),
		AmountCents: rt.Amount.Cents,
		Description: rt.Description,
		StartDate:   formatDate(rt.StartDate),
		EndDate:     nullDate(rt.EndDate),
		Frequency:   string(rt.Every),
	})
	if err != nil {
		return core.RecurringTransaction{}, wrapErr("create recurring", err)
	}
	return recurringFromRow(row), nil
}

func (r *SQLiteRepository) GetRecurring(ctx context.Context, id, userID int64) (core.RecurringTransaction, error) {
	row, err := r.queries.GetRecurring(ctx, id, userID)
	if err != nil {
		return core.RecurringTransaction{}, wrapErr("get recurring", err)
	}
	return recurringFromRow(row), nil
}

func (r *SQLiteRepository) ListRecurringByUser(ctx context.Context, userID int64) ([]core.RecurringTransaction, error) {
	rows, err := r.queries.ListRecurringByUser(ctx, userID)
	if err != nil {
		return nil, wrapErr("list recurring", err)
	}
	out := make([]core.RecurringTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, recurringFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) ListActiveRecurring(ctx context.Context, asOf core.Date) ([]core.RecurringTransaction, error) {
	rows, err := r.queries.ListActiveRecurring(ctx, formatDate(asOf))
	if err != nil {
		return nil, wrapErr("list active recurring", err)
	}
	out := make([]core.RecurringTransaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, recurringFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateRecurring(ctx context.Context, rt core.RecurringTransaction) error {
	n, err := r.queries.UpdateRecurring(ctx, UpdateRecurringParams{
		ID:          rt.ID,
		UserID:      rt.UserID,
		CategoryID:  rt.CategoryID,
		Type:        string(rt.Type),
		AmountCents: rt.Amount.Cents,
		Description: rt.Description,
		StartDate:   formatDate(rt.StartDate),
		EndDate:     nullDate(rt.EndDate),
		Frequency:   string(rt.Every),
	})
	if err != nil {
		return wrapErr("update recurring", err)
	}
	if n == 0 {
		return fmt.Errorf("update recurring: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteRecurring(ctx context.Context, id, userID int64) error {
	n, err := r.queries.DeleteRecurring(ctx, id, userID)
	if err != nil {
		return wrapErr("delete recurring", err)
	}
	if n == 0 {
		return fmt.Errorf("delete recurring: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) MarkRecurringExecuted(ctx context.Context, id int64, date core.Date) error {
	if err := r.queries.SetRecurringLastExecution(ctx, id, formatDate(date)); err != nil {
		return wrapErr("mark recurring executed", err)
	}
	return nil
}

// --- budgets ---

func budgetFromRow(b BudgetRow) core.Budget {
	return core.Budget{
		ID:         b.ID,
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		Limit:      core.Money{Cents: b.LimitCents},
		Year:       int(b.Year),
		Month:      int(b.Month),
	}
}

// SaveBudget creates the budget or replaces the ceiling for an existing
// category and month combination.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	row, err := r.queries.UpsertBudget(ctx, UpsertBudgetParams{
		UserID:     b.UserID,
		CategoryID: b.CategoryID,
		LimitCents: b.Limit.Cents,
		Year:       int64(b.Year),
		Month:      int64(b.Month),
	})
	if err != nil {
		return core.Budget{}, wrapErr("save budget", err)
	}
	return budgetFromRow(row), nil
}

func (r *SQLiteRepository) GetBudget(ctx context.Context, id, userID int64) (core.Budget, error) {
	row, err := r.queries.GetBudget(ctx, id, userID)
	if err != nil {
		return core.Budget{}, wrapErr("get budget", err)
	}
	return budgetFromRow(row), nil
}

func (r *SQLiteRepository) ListBudgetsForMonth(ctx context.Context, userID int64, year, month int) ([]core.Budget, error) {
	rows, err := r.queries.ListBudgetsForMonth(ctx, userID, int64(year), int64(month))
	if err != nil {
		return nil, wrapErr("list budgets", err)
	}
	out := make([]core.Budget, 0, len(rows))
	for _, row := range rows {
		out = append(out, budgetFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteBudget(ctx context.Context, id, userID int64) error {
	n, err := r.queries.DeleteBudget(ctx, id, userID)
	if err != nil {
		return wrapErr("delete budget", err)
	}
	if n == 0 {
		return fmt.Errorf("delete budget: %w", ErrNotFound)
	}
	return nil
}

// --- goals ---

func goalFromRow(g GoalRow) core.Goal {
	goal := core.Goal{
		ID:     g.ID,
		UserID: g.UserID,
		Name:   g.Name,
		Target: core.Money{Cents: g.TargetCents},
		Saved:  core.Money{Cents: g.SavedCents},
	}
	if g.Deadline.Valid {
		goal.Deadline = parseDate(g.Deadline.String)
	}
	return goal
}

func (r *SQLiteRepository) CreateGoal(ctx context.Context, g core.Goal) (core.Goal, error) {
	row, err := r.queries.CreateGoal(ctx, CreateGoalParams{
		UserID:      g.UserID,
		Name:        g.Name,
		TargetCents: g.Target.Cents,
		Deadline:    nullDate(g.Deadline),
	})
	if err != nil {
		return core.Goal{}, wrapErr("create goal", err)
	}
	return goalFromRow(row), nil
}

func (r *SQLiteRepository) GetGoal(ctx context.Context, id, userID int64) (core.Goal, error) {
	row, err := r.queries.GetGoal(ctx, id, userID)
	if err != nil {
		return core.Goal{}, wrapErr("get goal", err)
	}
	return goalFromRow(row), nil
}

func (r *SQLiteRepository) ListGoals(ctx context.Context, userID int64) ([]core.Goal, error) {
	rows, err := r.queries.ListGoals(ctx, userID)
	if err != nil {
		return nil, wrapErr("list goals", err)
	}
	out := make([]core.Goal, 0, len(rows))
	for _, row := range rows {
		out = append(out, goalFromRow(row))
	}
	return out, nil
}

func (r *SQLiteRepository) UpdateGoal(ctx context.Context, g core.Goal) error {
	n, err := r.queries.UpdateGoal(ctx, UpdateGoalParams{
		ID:          g.ID,
		UserID:      g.UserID,
		Name:        g.Name,
		TargetCents: g.Target.Cents,
		Deadline:    nullDate(g.Deadline),
	})
	if err != nil {
		return wrapErr("update goal", err)
	}
	if n == 0 {
		return fmt.Errorf("update goal: %w", ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteGoal(ctx context.Context, id, userID int64) error {
	n, err := r.queries.DeleteGoal(ctx, id, userID)
	if err != nil {
		return wrapErr("delete goal", err)
	}
	if n == 0 {
		return fmt.Errorf("delete goal: %w", ErrNotFound)
	}
	return nil
}

// AddContribution records the contribution and bumps the goal's saved total
// in one transaction. Ownership is checked first so one user cannot fund
// another user's goal.
func (r *SQLiteRepository) AddContribution(ctx context.Context, goalID, userID int64, c core.GoalContribution) (core.GoalContribution, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return core.GoalContribution{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	if _, err := q.GetGoal(ctx, goalID, userID); err != nil {
		return core.GoalContribution{}, wrapErr("get goal", err)
	}

	row, err := q.AddContribution(ctx, goalID, c.Amount.Cents, formatDate(c.Date))
	if err != nil {
		return core.GoalContribution{}, wrapErr("add contribution", err)
	}
	if err := q.AddToGoalSaved(ctx, goalID, c.Amount.Cents); err != nil {
		return core.GoalContribution{}, wrapErr("update goal saved", err)
	}

	if err := tx.Commit(); err != nil {
		return core.GoalContribution{}, fmt.Errorf("commit: %w", err)
	}

	return core.GoalContribution{
		ID:     row.ID,
		GoalID: row.GoalID,
		Amount: core.Money{Cents: row.AmountCents},
		Date:   parseDate(row.ContribDate),
	}, nil
}

func (r *SQLiteRepository) ListContributions(ctx context.Context, goalID, userID int64) ([]core.GoalContribution, error) {
	if _, err := r.queries.GetGoal(ctx, goalID, userID); err != nil {
		return nil, wrapErr("get goal", err)
	}

	rows, err := r.queries.ListContributions(ctx, goalID)
	if err != nil {
		return nil, wrapErr("list contributions", err)
	}
	out := make([]core.GoalContribution, 0, len(rows))
	for _, row := range rows {
		out = append(out, core.GoalContribution{
			ID:     row.ID,
			GoalID: row.GoalID,
			Amount: core.Money{Cents: row.AmountCents},
			Date:   parseDate(row.ContribDate),
		})
	}
	return out, nil
}
