// Package api defines the ports to the external finance backend.
//
// All business data (balances, persistence, filtering) lives behind these
// interfaces; this application only ever holds transient snapshots of it.
package api

import (
	"context"

	"finview/internal/core"
)

// Session is the opaque backend session token carried by the browser cookie.
// It is threaded explicitly through every call rather than read from any
// ambient state. The zero value means "no session".
type Session string

// Profile is the authenticated user's profile as reported by the backend.
// Currency is the user's display currency preference.
type Profile struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

// ProfileInput is the payload for updating the user's profile, including the
// display currency preference.
type ProfileInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Currency string `json:"currency"`
}

// TransactionFilters narrows a transaction listing. Zero-valued fields are
// omitted from the request. The report view never sets any of these: it
// always requests the full set.
type TransactionFilters struct {
	AccountID string
	Category  string
	StartDate string // YYYY-MM-DD
	EndDate   string // YYYY-MM-DD
}

// IsZero reports whether no filter is set.
func (f TransactionFilters) IsZero() bool {
	return f == TransactionFilters{}
}

// Ports for the outbound backend adapter.
type (
	TransactionLister interface {
		// ListTransactions returns transactions in the backend's order.
		ListTransactions(ctx context.Context, s Session, f TransactionFilters) ([]core.Transaction, error)
	}

	TransactionWriter interface {
		CreateTransaction(ctx context.Context, s Session, in core.TransactionInput) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, s Session, id string, in core.TransactionInput) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, s Session, id string) error
	}

	AccountLister interface {
		ListAccounts(ctx context.Context, s Session) ([]core.Account, error)
	}

	AccountWriter interface {
		CreateAccount(ctx context.Context, s Session, in core.AccountInput) (core.Account, error)
		UpdateAccount(ctx context.Context, s Session, id string, in core.AccountInput) (core.Account, error)
		DeleteAccount(ctx context.Context, s Session, id string) error
	}

	// Authenticator delegates session handling to the backend. This
	// application never designs the auth protocol; it relays credentials and
	// carries the resulting token.
	Authenticator interface {
		Register(ctx context.Context, name, email, password string) (Profile, Session, error)
		Login(ctx context.Context, email, password string) (Profile, Session, error)
		Logout(ctx context.Context, s Session) error
		GetProfile(ctx context.Context, s Session) (Profile, error)
		UpdateProfile(ctx context.Context, s Session, in ProfileInput) (Profile, error)
	}
)
