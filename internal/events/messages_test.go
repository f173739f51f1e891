package events

import (
	"testing"
	"time"
)

func TestTransactionsChangedRoundTrip(t *testing.T) {
	msg := NewTransactionsChanged("user-1")
	if msg.UserID != "user-1" {
		t.Fatalf("UserID = %q", msg.UserID)
	}
	if time.Since(msg.ChangedAt) > time.Minute {
		t.Fatalf("ChangedAt not recent: %v", msg.ChangedAt)
	}

	raw, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	got, err := TransactionsChangedFromJSON(raw)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	if got.UserID != msg.UserID || !got.ChangedAt.Equal(msg.ChangedAt) {
		t.Fatalf("round trip mismatch: %+v vs %+v", got, msg)
	}
}

func TestTransactionsChangedFromJSONInvalid(t *testing.T) {
	if _, err := TransactionsChangedFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
