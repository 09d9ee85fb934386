package core

import (
	"errors"
	"testing"
	"time"
)

func validTransaction() Transaction {
	return Transaction{
		UserID:      1,
		Type:        Expense,
		CategoryID:  3,
		Amount:      Money{Cents: 1250},
		Description: "groceries",
		Date:        NewDate(2026, 8, 15),
	}
}

func TestTransactionValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		wantErr error
	}{
		{name: "valid", mutate: func(*Transaction) {}},
		{name: "bad type", mutate: func(tx *Transaction) { tx.Type = "transfer" }, wantErr: ErrInvalidType},
		{name: "zero amount", mutate: func(tx *Transaction) { tx.Amount.Cents = 0 }, wantErr: ErrInvalidAmount},
		{name: "negative amount", mutate: func(tx *Transaction) { tx.Amount.Cents = -100 }, wantErr: ErrInvalidAmount},
		{name: "blank description", mutate: func(tx *Transaction) { tx.Description = "   " }, wantErr: ErrEmptyDescription},
		{name: "no category", mutate: func(tx *Transaction) { tx.CategoryID = 0 }, wantErr: ErrMissingCategory},
		{name: "zero date", mutate: func(tx *Transaction) { tx.Date = Date{} }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTransaction()
			tt.mutate(&tx)
			err := tx.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestTransactionSigned(t *testing.T) {
	tx := validTransaction()
	if got := tx.Signed(); got != -1250 {
		t.Errorf("expense Signed() = %d, want -1250", got)
	}
	tx.Type = Income
	if got := tx.Signed(); got != 1250 {
		t.Errorf("income Signed() = %d, want 1250", got)
	}
}

func TestBudgetValidate(t *testing.T) {
	base := Budget{UserID: 1, CategoryID: 2, Limit: Money{Cents: 50000}, Year: 2026, Month: 8}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid budget rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Budget)
		wantErr error
	}{
		{name: "month zero", mutate: func(b *Budget) { b.Month = 0 }, wantErr: ErrInvalidMonth},
		{name: "month thirteen", mutate: func(b *Budget) { b.Month = 13 }, wantErr: ErrInvalidMonth},
		{name: "no category", mutate: func(b *Budget) { b.CategoryID = 0 }, wantErr: ErrMissingCategory},
		{name: "zero limit", mutate: func(b *Budget) { b.Limit.Cents = 0 }, wantErr: ErrInvalidAmount},
		{name: "year out of range", mutate: func(b *Budget) { b.Year = 1800 }, wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := base
			tt.mutate(&b)
			if err := b.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGoalValidate(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	g := Goal{UserID: 1, Name: "vacation", Target: Money{Cents: 200000}}
	if err := g.Validate(now); err != nil {
		t.Fatalf("goal without deadline rejected: %v", err)
	}

	g.Deadline = NewDate(2027, 6, 1)
	if err := g.Validate(now); err != nil {
		t.Fatalf("goal with future deadline rejected: %v", err)
	}

	g.Deadline = NewDate(2026, 1, 1)
	if err := g.Validate(now); !errors.Is(err, ErrDeadlinePast) {
		t.Errorf("past deadline: got %v, want %v", err, ErrDeadlinePast)
	}

	g = Goal{UserID: 1, Name: "  ", Target: Money{Cents: 100}}
	if err := g.Validate(now); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name: got %v, want %v", err, ErrEmptyName)
	}
}

func TestRecurringTransactionValidate(t *testing.T) {
	base := RecurringTransaction{
		UserID:      1,
		Type:        Expense,
		CategoryID:  2,
		Amount:      Money{Cents: 999},
		Description: "streaming subscription",
		StartDate:   NewDate(2026, 1, 1),
		Every:       Monthly,
	}
	if err := base.Validate(); err != nil {
		t.Fatalf("valid template rejected: %v", err)
	}

	r := base
	r.EndDate = NewDate(2025, 12, 31)
	if err := r.Validate(); !errors.Is(err, ErrDateOrder) {
		t.Errorf("end before start: got %v, want %v", err, ErrDateOrder)
	}

	r = base
	r.Every = "fortnightly"
	if err := r.Validate(); !errors.Is(err, ErrInvalidFrequency) {
		t.Errorf("bad frequency: got %v, want %v", err, ErrInvalidFrequency)
	}
}

func TestUserSettingsValidate(t *testing.T) {
	s := UserSettings{UserID: 1, Currency: "EUR", Locale: "it-IT", Theme: "dark"}
	if err := s.Validate(); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}

	s.Currency = "XYZ"
	if err := s.Validate(); !errors.Is(err, ErrInvalidCurrency) {
		t.Errorf("bad currency: got %v, want %v", err, ErrInvalidCurrency)
	}

	s.Currency = "USD"
	s.Theme = "neon"
	if err := s.Validate(); !errors.Is(err, ErrInvalidTheme) {
		t.Errorf("bad theme: got %v, want %v", err, ErrInvalidTheme)
	}
}
