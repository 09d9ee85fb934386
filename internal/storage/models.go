package storage

import "database/sql"

// Row types mirroring the database schema. Dates are stored as
// ISO strings (YYYY-MM-DD); conversion to domain types happens in the
// repository layer.

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    string
}

type UserSetting struct {
	UserID   int64
	Currency string
	Locale   string
	Theme    string
}

type CategoryRow struct {
	ID     int64
	UserID int64
	Name   string
	Type   string
}

type TransactionRow struct {
	ID          int64
	UserID      int64
	CategoryID  int64
	Type        string
	AmountCents int64
	Description string
	TxnDate     string
	SyncStatus  string
	DeletedAt   sql.NullString
	CreatedAt   string
}

type RecurringRow struct {
	ID                int64
	UserID            int64
	CategoryID        int64
	Type              string
	AmountCents       int64
	Description       string
	StartDate         string
	EndDate           sql.NullString
	Frequency         string
	LastExecutionDate sql.NullString
}

type BudgetRow struct {
	ID         int64
	UserID     int64
	CategoryID int64
	LimitCents int64
	Year       int64
	Month      int64
}

type GoalRow struct {
	ID          int64
	UserID      int64
	Name        string
	TargetCents int64
	SavedCents  int64
	Deadline    sql.NullString
	CreatedAt   string
}

type ContributionRow struct {
	ID          int64
	GoalID      int64
	AmountCents int64
	ContribDate string
}

// CategoryTotalRow is one line of the per-category month aggregation.
type CategoryTotalRow struct {
	Name       string
	Type       string
	TotalCents int64
}
