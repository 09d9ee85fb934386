package amqp

import (
	"encoding/json"
	"time"
)

// TransactionSyncMessage is the compact message published after every
// transaction write. It carries only the ID and version; the worker fetches
// the full row from the database before mirroring it.
type TransactionSyncMessage struct {
	ID        int64     `json:"id"`
	Version   int64     `json:"version"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTransactionSyncMessage creates a new sync message with just ID and version
func NewTransactionSyncMessage(id, version int64) *TransactionSyncMessage {
	return &TransactionSyncMessage{
		ID:        id,
		Version:   version,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionSyncMessageFromJSON creates a message from JSON bytes
func TransactionSyncMessageFromJSON(data []byte) (*TransactionSyncMessage, error) {
	var msg TransactionSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
