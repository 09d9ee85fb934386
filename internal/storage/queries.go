package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries holds every SQL statement used by the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns a Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// Sync states for the transactions.sync_status column.
const (
	SyncPending       = "pending"
	SyncSynced        = "synced"
	SyncFailed        = "failed"
	SyncPendingDelete = "pending_delete"
)

// --- users ---

const createUser = `
INSERT INTO users (email, password_hash)
VALUES (?, ?)
RETURNING id, email, password_hash, created_at
`

func (q *Queries) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, createUser, email, passwordHash).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByEmail = `
SELECT id, email, password_hash, created_at FROM users WHERE email = ?
`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByEmail, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

const getUserByID = `
SELECT id, email, password_hash, created_at FROM users WHERE id = ?
`

func (q *Queries) GetUserByID(ctx context.Context, id int64) (User, error) {
	var u User
	err := q.db.QueryRowContext(ctx, getUserByID, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, err
}

// --- user settings ---

const upsertSettings = `
INSERT INTO user_settings (user_id, currency, locale, theme)
VALUES (?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
    currency = excluded.currency,
    locale = excluded.locale,
    theme = excluded.theme
`

func (q *Queries) UpsertSettings(ctx context.Context, s UserSetting) error {
	_, err := q.db.ExecContext(ctx, upsertSettings, s.UserID, s.Currency, s.Locale, s.Theme)
	return err
}

const getSettings = `
SELECT user_id, currency, locale, theme FROM user_settings WHERE user_id = ?
`

func (q *Queries) GetSettings(ctx context.Context, userID int64) (UserSetting, error) {
	var s UserSetting
	err := q.db.QueryRowContext(ctx, getSettings, userID).
		Scan(&s.UserID, &s.Currency, &s.Locale, &s.Theme)
	return s, err
}

// --- categories ---

const createCategory = `
INSERT INTO categories (user_id, name, type)
VALUES (?, ?, ?)
RETURNING id, user_id, name, type
`

func (q *Queries) CreateCategory(ctx context.Context, userID int64, name, typ string) (CategoryRow, error) {
	var c CategoryRow
	err := q.db.QueryRowContext(ctx, createCategory, userID, name, typ).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	return c, err
}

const getCategory = `
SELECT id, user_id, name, type FROM categories WHERE id = ? AND user_id = ?
`

func (q *Queries) GetCategory(ctx context.Context, id, userID int64) (CategoryRow, error) {
	var c CategoryRow
	err := q.db.QueryRowContext(ctx, getCategory, id, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type)
	return c, err
}

const listCategories = `
SELECT id, user_id, name, type FROM categories WHERE user_id = ? ORDER BY type, name
`

func (q *Queries) ListCategories(ctx context.Context, userID int64) ([]CategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, listCategories, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryRow
	for rows.Next() {
		var c CategoryRow
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

const updateCategory = `
UPDATE categories SET name = ? WHERE id = ? AND user_id = ?
`

func (q *Queries) UpdateCategory(ctx context.Context, id, userID int64, name string) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateCategory, name, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteCategory = `
DELETE FROM categories WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteCategory(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteCategory, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const countTransactionsByCategory = `
SELECT COUNT(*) FROM transactions WHERE category_id = ? AND deleted_at IS NULL
`

func (q *Queries) CountTransactionsByCategory(ctx context.Context, categoryID int64) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countTransactionsByCategory, categoryID).Scan(&n)
	return n, err
}

// --- transactions ---

type CreateTransactionParams struct {
	UserID      int64
	CategoryID  int64
	Type        string
	AmountCents int64
	Description string
	TxnDate     string
}

const createTransaction = `
INSERT INTO transactions (user_id, category_id, type, amount_cents, description, txn_date)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, user_id, category_id, type, amount_cents, description, txn_date, sync_status, deleted_at, created_at
`

func (q *Queries) CreateTransaction(ctx context.Context, p CreateTransactionParams) (TransactionRow, error) {
	var t TransactionRow
	err := q.db.QueryRowContext(ctx, createTransaction,
		p.UserID, p.CategoryID, p.Type, p.AmountCents, p.Description, p.TxnDate).
		Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.AmountCents,
			&t.Description, &t.TxnDate, &t.SyncStatus, &t.DeletedAt, &t.CreatedAt)
	return t, err
}

const getTransaction = `
SELECT id, user_id, category_id, type, amount_cents, description, txn_date, sync_status, deleted_at, created_at
FROM transactions
WHERE id = ? AND user_id = ? AND deleted_at IS NULL
`

func (q *Queries) GetTransaction(ctx context.Context, id, userID int64) (TransactionRow, error) {
	var t TransactionRow
	err := q.db.QueryRowContext(ctx, getTransaction, id, userID).
		Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.AmountCents,
			&t.Description, &t.TxnDate, &t.SyncStatus, &t.DeletedAt, &t.CreatedAt)
	return t, err
}

type ListTransactionsParams struct {
	UserID     int64
	From       string // inclusive, empty means unbounded
	To         string // inclusive, empty means unbounded
	CategoryID int64  // 0 means any
	Type       string // empty means any
	Limit      int64
	Offset     int64
}

const listTransactions = `
SELECT id, user_id, category_id, type, amount_cents, description, txn_date, sync_status, deleted_at, created_at
FROM transactions
WHERE user_id = ?
  AND deleted_at IS NULL
  AND (? = '' OR txn_date >= ?)
  AND (? = '' OR txn_date <= ?)
  AND (? = 0 OR category_id = ?)
  AND (? = '' OR type = ?)
ORDER BY txn_date DESC, id DESC
LIMIT ? OFFSET ?
`

func (q *Queries) ListTransactions(ctx context.Context, p ListTransactionsParams) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions,
		p.UserID,
		p.From, p.From,
		p.To, p.To,
		p.CategoryID, p.CategoryID,
		p.Type, p.Type,
		p.Limit, p.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.AmountCents,
			&t.Description, &t.TxnDate, &t.SyncStatus, &t.DeletedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

type UpdateTransactionParams struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Type        string
	AmountCents int64
	Description string
	TxnDate     string
}

const updateTransaction = `
UPDATE transactions
SET category_id = ?, type = ?, amount_cents = ?, description = ?, txn_date = ?, sync_status = ?
WHERE id = ? AND user_id = ? AND deleted_at IS NULL
`

func (q *Queries) UpdateTransaction(ctx context.Context, p UpdateTransactionParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateTransaction,
		p.CategoryID, p.Type, p.AmountCents, p.Description, p.TxnDate, SyncPending,
		p.ID, p.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const softDeleteTransaction = `
UPDATE transactions
SET deleted_at = CURRENT_TIMESTAMP, sync_status = ?
WHERE id = ? AND user_id = ? AND deleted_at IS NULL
`

func (q *Queries) SoftDeleteTransaction(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, softDeleteTransaction, SyncPendingDelete, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const listUnsyncedTransactions = `
SELECT id, user_id, category_id, type, amount_cents, description, txn_date, sync_status, deleted_at, created_at
FROM transactions
WHERE sync_status IN (?, ?, ?)
ORDER BY id
LIMIT ?
`

// ListUnsyncedTransactions returns rows the mirror has not confirmed yet.
// Failed rows are included so the periodic scan retries them.
func (q *Queries) ListUnsyncedTransactions(ctx context.Context, limit int64) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listUnsyncedTransactions, SyncPending, SyncPendingDelete, SyncFailed, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TransactionRow
	for rows.Next() {
		var t TransactionRow
		if err := rows.Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.AmountCents,
			&t.Description, &t.TxnDate, &t.SyncStatus, &t.DeletedAt, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

const getTransactionByID = `
SELECT id, user_id, category_id, type, amount_cents, description, txn_date, sync_status, deleted_at, created_at
FROM transactions
WHERE id = ?
`

// GetTransactionByID returns the row regardless of owner or deletion state.
// Used by the sync worker, which mirrors deletions too.
func (q *Queries) GetTransactionByID(ctx context.Context, id int64) (TransactionRow, error) {
	var t TransactionRow
	err := q.db.QueryRowContext(ctx, getTransactionByID, id).
		Scan(&t.ID, &t.UserID, &t.CategoryID, &t.Type, &t.AmountCents,
			&t.Description, &t.TxnDate, &t.SyncStatus, &t.DeletedAt, &t.CreatedAt)
	return t, err
}

const getCategoryName = `
SELECT name FROM categories WHERE id = ?
`

func (q *Queries) GetCategoryName(ctx context.Context, id int64) (string, error) {
	var name string
	err := q.db.QueryRowContext(ctx, getCategoryName, id).Scan(&name)
	return name, err
}

const setTransactionSyncStatus = `
UPDATE transactions SET sync_status = ? WHERE id = ?
`

func (q *Queries) SetTransactionSyncStatus(ctx context.Context, id int64, status string) error {
	_, err := q.db.ExecContext(ctx, setTransactionSyncStatus, status, id)
	return err
}

// --- aggregations ---

const sumExpensesByCategoryMonth = `
SELECT COALESCE(SUM(amount_cents), 0)
FROM transactions
WHERE user_id = ?
  AND category_id = ?
  AND type = 'expense'
  AND deleted_at IS NULL
  AND txn_date >= ? AND txn_date <= ?
`

func (q *Queries) SumExpensesByCategoryMonth(ctx context.Context, userID, categoryID int64, from, to string) (int64, error) {
	var total int64
	err := q.db.QueryRowContext(ctx, sumExpensesByCategoryMonth, userID, categoryID, from, to).Scan(&total)
	return total, err
}

const categoryTotalsForRange = `
SELECT c.name, c.type, SUM(t.amount_cents)
FROM transactions t
JOIN categories c ON c.id = t.category_id
WHERE t.user_id = ?
  AND t.deleted_at IS NULL
  AND t.txn_date >= ? AND t.txn_date <= ?
GROUP BY c.id
ORDER BY c.type, SUM(t.amount_cents) DESC
`

func (q *Queries) CategoryTotalsForRange(ctx context.Context, userID int64, from, to string) ([]CategoryTotalRow, error) {
	rows, err := q.db.QueryContext(ctx, categoryTotalsForRange, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CategoryTotalRow
	for rows.Next() {
		var r CategoryTotalRow
		if err := rows.Scan(&r.Name, &r.Type, &r.TotalCents); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// --- recurring transactions ---

type CreateRecurringParams struct {
	UserID      int64
	CategoryID  int64
	Type        string
	AmountCents int64
	Description string
	StartDate   string
	EndDate     sql.NullString
	Frequency   string
}

const createRecurring = `
INSERT INTO recurring_transactions (user_id, category_id, type, amount_cents, description, start_date, end_date, frequency)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id, user_id, category_id, type, amount_cents, description, start_date, end_date, frequency, last_execution_date
`

func (q *Queries) CreateRecurring(ctx context.Context, p CreateRecurringParams) (RecurringRow, error) {
	var r RecurringRow
	err := q.db.QueryRowContext(ctx, createRecurring,
		p.UserID, p.CategoryID, p.Type, p.AmountCents, p.Description,
		p.StartDate, p.EndDate, p.Frequency).
		Scan(&r.ID, &r.UserID, &r.CategoryID, &r.Type, &r.AmountCents,
			&r.Description, &r.StartDate, &r.EndDate, &r.Frequency, &r.LastExecutionDate)
	return r, err
}

const getRecurring = `
SELECT id, user_id, category_id, type, amount_cents, description, start_date, end_date, frequency, last_execution_date
FROM recurring_transactions
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetRecurring(ctx context.Context, id, userID int64) (RecurringRow, error) {
	var r RecurringRow
	err := q.db.QueryRowContext(ctx, getRecurring, id, userID).
		Scan(&r.ID, &r.UserID, &r.CategoryID, &r.Type, &r.AmountCents,
			&r.Description, &r.StartDate, &r.EndDate, &r.Frequency, &r.LastExecutionDate)
	return r, err
}

const listRecurringByUser = `
SELECT id, user_id, category_id, type, amount_cents, description, start_date, end_date, frequency, last_execution_date
FROM recurring_transactions
WHERE user_id = ?
ORDER BY id
`

func (q *Queries) ListRecurringByUser(ctx context.Context, userID int64) ([]RecurringRow, error) {
	return q.scanRecurring(q.db.QueryContext(ctx, listRecurringByUser, userID))
}

const listActiveRecurring = `
SELECT id, user_id, category_id, type, amount_cents, description, start_date, end_date, frequency, last_execution_date
FROM recurring_transactions
WHERE start_date <= ?
  AND (end_date IS NULL OR end_date >= ?)
ORDER BY id
`

// ListActiveRecurring returns every template, across all users, whose window
// contains the given date. Used by the recurring worker.
func (q *Queries) ListActiveRecurring(ctx context.Context, date string) ([]RecurringRow, error) {
	return q.scanRecurring(q.db.QueryContext(ctx, listActiveRecurring, date, date))
}

func (q *Queries) scanRecurring(rows *sql.Rows, err error) ([]RecurringRow, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RecurringRow
	for rows.Next() {
		var r RecurringRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.CategoryID, &r.Type, &r.AmountCents,
			&r.Description, &r.StartDate, &r.EndDate, &r.Frequency, &r.LastExecutionDate); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type UpdateRecurringParams struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Type        string
	AmountCents int64
	Description string
	StartDate   string
	EndDate     sql.NullString
	Frequency   string
}

const updateRecurring = `
UPDATE recurring_transactions
SET category_id = ?, type = ?, amount_cents = ?, description = ?, start_date = ?, end_date = ?, frequency = ?
WHERE id = ? AND user_id = ?
`

func (q *Queries) UpdateRecurring(ctx context.Context, p UpdateRecurringParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateRecurring,
		p.CategoryID, p.Type, p.AmountCents, p.Description, p.StartDate, p.EndDate, p.Frequency, p.ID, p.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteRecurring = `
DELETE FROM recurring_transactions WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteRecurring(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteRecurring, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const setRecurringLastExecution = `
UPDATE recurring_transactions SET last_execution_date = ? WHERE id = ?
`

func (q *Queries) SetRecurringLastExecution(ctx context.Context, id int64, date string) error {
	_, err := q.db.ExecContext(ctx, setRecurringLastExecution, date, id)
	return err
}

// --- budgets ---

type UpsertBudgetParams struct {
	UserID     int64
	CategoryID int64
	LimitCents int64
	Year       int64
	Month      int64
}

const upsertBudget = `
INSERT INTO budgets (user_id, category_id, limit_cents, year, month)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (user_id, category_id, year, month) DO UPDATE SET
    limit_cents = excluded.limit_cents
RETURNING id, user_id, category_id, limit_cents, year, month
`

func (q *Queries) UpsertBudget(ctx context.Context, p UpsertBudgetParams) (BudgetRow, error) {
	var b BudgetRow
	err := q.db.QueryRowContext(ctx, upsertBudget,
		p.UserID, p.CategoryID, p.LimitCents, p.Year, p.Month).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.LimitCents, &b.Year, &b.Month)
	return b, err
}

const getBudget = `
SELECT id, user_id, category_id, limit_cents, year, month
FROM budgets
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetBudget(ctx context.Context, id, userID int64) (BudgetRow, error) {
	var b BudgetRow
	err := q.db.QueryRowContext(ctx, getBudget, id, userID).
		Scan(&b.ID, &b.UserID, &b.CategoryID, &b.LimitCents, &b.Year, &b.Month)
	return b, err
}

const listBudgetsForMonth = `
SELECT id, user_id, category_id, limit_cents, year, month
FROM budgets
WHERE user_id = ? AND year = ? AND month = ?
ORDER BY category_id
`

func (q *Queries) ListBudgetsForMonth(ctx context.Context, userID, year, month int64) ([]BudgetRow, error) {
	rows, err := q.db.QueryContext(ctx, listBudgetsForMonth, userID, year, month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BudgetRow
	for rows.Next() {
		var b BudgetRow
		if err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.LimitCents, &b.Year, &b.Month); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const deleteBudget = `
DELETE FROM budgets WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteBudget(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteBudget, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// --- goals ---

type CreateGoalParams struct {
	UserID      int64
	Name        string
	TargetCents int64
	Deadline    sql.NullString
}

const createGoal = `
INSERT INTO goals (user_id, name, target_cents, deadline)
VALUES (?, ?, ?, ?)
RETURNING id, user_id, name, target_cents, saved_cents, deadline, created_at
`

func (q *Queries) CreateGoal(ctx context.Context, p CreateGoalParams) (GoalRow, error) {
	var g GoalRow
	err := q.db.QueryRowContext(ctx, createGoal, p.UserID, p.Name, p.TargetCents, p.Deadline).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetCents, &g.SavedCents, &g.Deadline, &g.CreatedAt)
	return g, err
}

const getGoal = `
SELECT id, user_id, name, target_cents, saved_cents, deadline, created_at
FROM goals
WHERE id = ? AND user_id = ?
`

func (q *Queries) GetGoal(ctx context.Context, id, userID int64) (GoalRow, error) {
	var g GoalRow
	err := q.db.QueryRowContext(ctx, getGoal, id, userID).
		Scan(&g.ID, &g.UserID, &g.Name, &g.TargetCents, &g.SavedCents, &g.Deadline, &g.CreatedAt)
	return g, err
}

const listGoals = `
SELECT id, user_id, name, target_cents, saved_cents, deadline, created_at
FROM goals
WHERE user_id = ?
ORDER BY id
`

func (q *Queries) ListGoals(ctx context.Context, userID int64) ([]GoalRow, error) {
	rows, err := q.db.QueryContext(ctx, listGoals, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []GoalRow
	for rows.Next() {
		var g GoalRow
		if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.TargetCents, &g.SavedCents, &g.Deadline, &g.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type UpdateGoalParams struct {
	ID          int64
	UserID      int64
	Name        string
	TargetCents int64
	Deadline    sql.NullString
}

const updateGoal = `
UPDATE goals
SET name = ?, target_cents = ?, deadline = ?
WHERE id = ? AND user_id = ?
`

func (q *Queries) UpdateGoal(ctx context.Context, p UpdateGoalParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, updateGoal, p.Name, p.TargetCents, p.Deadline, p.ID, p.UserID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const deleteGoal = `
DELETE FROM goals WHERE id = ? AND user_id = ?
`

func (q *Queries) DeleteGoal(ctx context.Context, id, userID int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, deleteGoal, id, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

const addContribution = `
INSERT INTO goal_contributions (goal_id, amount_cents, contrib_date)
VALUES (?, ?, ?)
RETURNING id, goal_id, amount_cents, contrib_date
`

func (q *Queries) AddContribution(ctx context.Context, goalID, amountCents int64, date string) (ContributionRow, error) {
	var c ContributionRow
	err := q.db.QueryRowContext(ctx, addContribution, goalID, amountCents, date).
		Scan(&c.ID, &c.GoalID, &c.AmountCents, &c.ContribDate)
	return c, err
}

const addToGoalSaved = `
UPDATE goals SET saved_cents = saved_cents + ? WHERE id = ?
`

func (q *Queries) AddToGoalSaved(ctx context.Context, goalID, amountCents int64) error {
	_, err := q.db.ExecContext(ctx, addToGoalSaved, amountCents, goalID)
	return err
}

const listContributions = `
SELECT id, goal_id, amount_cents, contrib_date
FROM goal_contributions
WHERE goal_id = ?
ORDER BY contrib_date
`

func (q *Queries) ListContributions(ctx context.Context, goalID int64) ([]ContributionRow, error) {
	rows, err := q.db.QueryContext(ctx, listContributions, goalID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ContributionRow
	for rows.Next() {
		var c ContributionRow
		if err := rows.Scan(&c.ID, &c.GoalID, &c.AmountCents, &c.ContribDate); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
