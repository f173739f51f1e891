package events

import (
	"encoding/json"
	"fmt"
	"time"
)

// TransactionsChanged is published by the backend whenever a user's
// transaction set is mutated. The front end reacts by invalidating its
// snapshot cache; it never reads transaction payloads off the wire.
type TransactionsChanged struct {
	UserID    string    `json:"user_id"`
	ChangedAt time.Time `json:"changed_at"`
}

// NewTransactionsChanged creates a change event for the given user.
func NewTransactionsChanged(userID string) *TransactionsChanged {
	return &TransactionsChanged{
		UserID:    userID,
		ChangedAt: time.Now().UTC(),
	}
}

// ToJSON serializes the message for publishing.
func (m *TransactionsChanged) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionsChangedFromJSON deserializes a change event.
func TransactionsChangedFromJSON(data []byte) (*TransactionsChanged, error) {
	var m TransactionsChanged
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("unmarshal transactions-changed message: %w", err)
	}
	return &m, nil
}
