package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

const (
	Daily   Frequency = "daily"
	Weekly  Frequency = "weekly"
	Monthly Frequency = "monthly"
	Yearly  Frequency = "yearly"
)

type (
	TransactionType string

	Frequency string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Transaction is a user-recorded income or expense event. Amounts are
	// stored positive; the sign is carried by Type.
	Transaction struct {
		ID          int64
		UserID      int64
		Type        TransactionType
		CategoryID  int64
		Amount      Money
		Description string
		Date        Date
	}

	// Category is a user-defined label for transactions, typed income or expense.
	Category struct {
		ID     int64
		UserID int64
		Name   string
		Type   TransactionType
	}

	// Budget is a per-category spending ceiling for a single month.
	Budget struct {
		ID         int64
		UserID     int64
		CategoryID int64
		Limit      Money
		Year       int
		Month      int // 1-12
	}

	// Goal is a target savings amount with optional deadline.
	Goal struct {
		ID       int64
		UserID   int64
		Name     string
		Target   Money
		Saved    Money
		Deadline Date // zero value means no deadline
	}

	// GoalContribution records an amount added toward a goal on a given date.
	GoalContribution struct {
		ID     int64
		GoalID int64
		Amount Money
		Date   Date
	}

	// RecurringTransaction is a template that the recurring worker
	// materializes into real transactions.
	RecurringTransaction struct {
		ID          int64
		UserID      int64
		Type        TransactionType
		CategoryID  int64
		Amount      Money
		Description string
		StartDate   Date
		EndDate     Date // zero value means open-ended
		Every       Frequency
		LastRun     Date // zero value means never executed
	}

	// UserSettings holds per-user presentation preferences.
	UserSettings struct {
		UserID   int64
		Currency string
		Locale   string
		Theme    string
	}
)

var (
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidType          = errors.New("invalid transaction type")
	ErrInvalidFrequency     = errors.New("invalid frequency")
	ErrEmptyDescription     = errors.New("empty description")
	ErrEmptyName            = errors.New("empty name")
	ErrMissingCategory      = errors.New("missing category")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidMonth         = errors.New("invalid month")
	ErrDateOrder            = errors.New("end date must not precede start date")
	ErrDeadlinePast         = errors.New("deadline must be in the future")
	ErrInvalidCurrency      = errors.New("unsupported currency")
	ErrInvalidTheme         = errors.New("unsupported theme")
	ErrCategoryTypeMismatch = errors.New("category type does not match transaction type")
)

// SupportedCurrencies lists the currencies accepted in user settings.
var SupportedCurrencies = []string{"EUR", "USD", "GBP", "JPY", "CHF"}

func (t TransactionType) Valid() bool {
	return t == Income || t == Expense
}

func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as an int in 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if t.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	return nil
}

// Signed returns the amount with the sign implied by the transaction type:
// positive for income, negative for expenses.
func (t Transaction) Signed() int64 {
	if t.Type == Expense {
		return -t.Amount.Cents
	}
	return t.Amount.Cents
}

func (c Category) Validate() error {
	if len(strings.TrimSpace(c.Name)) == 0 {
		return ErrEmptyName
	}
	if len(c.Name) > 64 {
		return errors.New("name too long (max 64 characters)")
	}
	if !c.Type.Valid() {
		return ErrInvalidType
	}
	return nil
}

func (b Budget) Validate() error {
	if b.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := b.Limit.Validate(); err != nil {
		return err
	}
	if b.Month < 1 || b.Month > 12 {
		return ErrInvalidMonth
	}
	if b.Year < 1970 || b.Year > 9999 {
		return ErrInvalidDate
	}
	return nil
}

func (g Goal) Validate(now time.Time) error {
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if len(g.Name) > 100 {
		return errors.New("name too long (max 100 characters)")
	}
	if err := g.Target.Validate(); err != nil {
		return err
	}
	if g.Saved.Cents < 0 {
		return ErrInvalidAmount
	}
	if !g.Deadline.IsZero() && !g.Deadline.After(now) {
		return ErrDeadlinePast
	}
	return nil
}

func (r RecurringTransaction) Validate() error {
	if !r.Type.Valid() {
		return ErrInvalidType
	}
	if err := r.Amount.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(r.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(r.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if r.CategoryID <= 0 {
		return ErrMissingCategory
	}
	if err := r.StartDate.Validate(); err != nil {
		return errors.New("invalid start date: " + err.Error())
	}
	if !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate.Time) {
		return ErrDateOrder
	}
	if !r.Every.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

func (s UserSettings) Validate() error {
	found := false
	for _, c := range SupportedCurrencies {
		if s.Currency == c {
			found = true
			break
		}
	}
	if !found {
		return ErrInvalidCurrency
	}
	switch s.Theme {
	case "light", "dark", "system":
	default:
		return ErrInvalidTheme
	}
	if s.Locale == "" {
		return errors.New("empty locale")
	}
	return nil
}
