package services

import (
	"context"
	"errors"
	"testing"

	"finbook/internal/core"
)

type fakeStore struct {
	categories map[int64]core.Category
	created    []core.Transaction
	updated    []core.Transaction
	deleted    []int64
	createErr  error
}

func (f *fakeStore) CreateTransaction(_ context.Context, t core.Transaction) (core.Transaction, error) {
	if f.createErr != nil {
		return core.Transaction{}, f.createErr
	}
	t.ID = int64(len(f.created) + 1)
	f.created = append(f.created, t)
	return t, nil
}

func (f *fakeStore) UpdateTransaction(_ context.Context, t core.Transaction) error {
	f.updated = append(f.updated, t)
	return nil
}

func (f *fakeStore) DeleteTransaction(_ context.Context, id, _ int64) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeStore) GetCategory(_ context.Context, id, userID int64) (core.Category, error) {
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return core.Category{}, errors.New("not found")
	}
	return c, nil
}

type fakePublisher struct {
	published []int64
	versions  []int64
	err       error
}

func (f *fakePublisher) PublishTransactionSync(_ context.Context, id, version int64) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, id)
	f.versions = append(f.versions, version)
	return nil
}

func validServiceTransaction() core.Transaction {
	return core.Transaction{
		UserID:      1,
		Type:        core.Expense,
		CategoryID:  10,
		Amount:      core.Money{Cents: 1500},
		Description: "lunch",
		Date:        core.NewDate(2026, 8, 20),
	}
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		categories: map[int64]core.Category{
			10: {ID: 10, UserID: 1, Name: "food", Type: core.Expense},
			11: {ID: 11, UserID: 1, Name: "salary", Type: core.Income},
		},
	}
}

func TestCreateTransactionPublishesSync(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	created, err := svc.CreateTransaction(context.Background(), validServiceTransaction())
	if err != nil {
		t.Fatalf("CreateTransaction() error: %v", err)
	}
	if created.ID == 0 {
		t.Error("created transaction has no ID")
	}
	if len(pub.published) != 1 || pub.published[0] != created.ID {
		t.Errorf("published = %v, want [%d]", pub.published, created.ID)
	}
	if pub.versions[0] != syncVersionCreate {
		t.Errorf("version = %d, want %d", pub.versions[0], syncVersionCreate)
	}
}

func TestCreateTransactionPublishFailureIsNotFatal(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewTransactionService(store, pub)

	if _, err := svc.CreateTransaction(context.Background(), validServiceTransaction()); err != nil {
		t.Fatalf("CreateTransaction() should succeed despite publish failure, got: %v", err)
	}
	if len(store.created) != 1 {
		t.Error("transaction was not saved")
	}
}

func TestCreateTransactionNilPublisher(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, nil)

	if _, err := svc.CreateTransaction(context.Background(), validServiceTransaction()); err != nil {
		t.Fatalf("CreateTransaction() with nil publisher error: %v", err)
	}
}

func TestCreateTransactionCategoryTypeMismatch(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, &fakePublisher{})

	tx := validServiceTransaction()
	tx.CategoryID = 11 // income category on an expense
	if _, err := svc.CreateTransaction(context.Background(), tx); !errors.Is(err, core.ErrCategoryTypeMismatch) {
		t.Errorf("CreateTransaction() = %v, want %v", err, core.ErrCategoryTypeMismatch)
	}
	if len(store.created) != 0 {
		t.Error("mismatched transaction was saved")
	}
}

func TestCreateTransactionInvalidInput(t *testing.T) {
	store := newFakeStore()
	svc := NewTransactionService(store, &fakePublisher{})

	tx := validServiceTransaction()
	tx.Amount.Cents = 0
	if _, err := svc.CreateTransaction(context.Background(), tx); !errors.Is(err, core.ErrInvalidAmount) {
		t.Errorf("CreateTransaction() = %v, want %v", err, core.ErrInvalidAmount)
	}
}

func TestDeleteTransactionPublishesDelete(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	if err := svc.DeleteTransaction(context.Background(), 5, 1); err != nil {
		t.Fatalf("DeleteTransaction() error: %v", err)
	}
	if len(store.deleted) != 1 || store.deleted[0] != 5 {
		t.Errorf("deleted = %v, want [5]", store.deleted)
	}
	if len(pub.versions) != 1 || pub.versions[0] != syncVersionDelete {
		t.Errorf("versions = %v, want [%d]", pub.versions, syncVersionDelete)
	}
}

func TestUpdateTransactionPublishesUpdate(t *testing.T) {
	store := newFakeStore()
	pub := &fakePublisher{}
	svc := NewTransactionService(store, pub)

	tx := validServiceTransaction()
	tx.ID = 3
	if err := svc.UpdateTransaction(context.Background(), tx); err != nil {
		t.Fatalf("UpdateTransaction() error: %v", err)
	}
	if len(store.updated) != 1 {
		t.Error("transaction was not updated")
	}
	if len(pub.versions) != 1 || pub.versions[0] != syncVersionUpdate {
		t.Errorf("versions = %v, want [%d]", pub.versions, syncVersionUpdate)
	}
}
