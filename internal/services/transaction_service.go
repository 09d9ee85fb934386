package services

import (
	"context"
	"fmt"
	"log/slog"

	"finbook/internal/core"
)

// Versions carried by sync messages so the worker can log what changed.
const (
	syncVersionCreate = 1
	syncVersionUpdate = 2
	syncVersionDelete = 3
)

// TransactionStore is the storage surface the service needs.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id, userID int64) error
	GetCategory(ctx context.Context, id, userID int64) (core.Category, error)
}

// SyncPublisher publishes transaction change notifications for the mirror worker.
type SyncPublisher interface {
	PublishTransactionSync(ctx context.Context, id, version int64) error
}

// TransactionService orchestrates transaction writes across SQLite and AMQP.
type TransactionService struct {
	store     TransactionStore
	publisher SyncPublisher
}

func NewTransactionService(store TransactionStore, publisher SyncPublisher) *TransactionService {
	return &TransactionService{
		store:     store,
		publisher: publisher,
	}
}

// CreateTransaction validates and saves a transaction, then publishes a sync
// message. A publish failure never fails the request; the periodic catch-up
// scan picks the row up later.
func (s *TransactionService) CreateTransaction(ctx context.Context, t core.Transaction) (core.Transaction, error) {
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if err := s.checkCategory(ctx, t); err != nil {
		return core.Transaction{}, err
	}

	created, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}

	s.publishSync(ctx, created.ID, syncVersionCreate)
	return created, nil
}

// UpdateTransaction validates and persists changes to an existing transaction.
func (s *TransactionService) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if err := s.checkCategory(ctx, t); err != nil {
		return err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.publishSync(ctx, t.ID, syncVersionUpdate)
	return nil
}

// DeleteTransaction soft-deletes locally and notifies the mirror worker.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id, userID int64) error {
	if err := s.store.DeleteTransaction(ctx, id, userID); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.publishSync(ctx, id, syncVersionDelete)
	return nil
}

// checkCategory verifies the category belongs to the user and matches the
// transaction's type.
func (s *TransactionService) checkCategory(ctx context.Context, t core.Transaction) error {
	cat, err := s.store.GetCategory(ctx, t.CategoryID, t.UserID)
	if err != nil {
		return fmt.Errorf("resolve category: %w", err)
	}
	if cat.Type != t.Type {
		return core.ErrCategoryTypeMismatch
	}
	return nil
}

func (s *TransactionService) publishSync(ctx context.Context, id int64, version int64) {
	if s.publisher == nil {
		slog.WarnContext(ctx, "AMQP client not available, skipping sync message")
		return
	}
	if err := s.publisher.PublishTransactionSync(ctx, id, version); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "version", version, "error", err)
		// Don't fail the request, the transaction is saved locally
	}
}
