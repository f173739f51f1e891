// Package memory is an in-process backend used for demos and tests. It
// implements the same ports as the REST client and ignores sessions.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"finview/internal/api"
	"finview/internal/core"
)

type Store struct {
	mu       sync.Mutex
	accounts []core.Account
	txs      []core.Transaction
	profile  api.Profile
	nextID   int
}

func New(accounts []core.Account, txs []core.Transaction) *Store {
	return &Store{
		accounts: append([]core.Account(nil), accounts...),
		txs:      append([]core.Transaction(nil), txs...),
		profile:  api.Profile{Name: "Demo User", Email: "demo@example.com", Currency: "USD"},
		nextID:   1,
	}
}

// NewFromFiles seeds the store from accounts.json and transactions.json in
// the given directory. Missing or malformed seed files leave the store empty.
func NewFromFiles(base string) *Store {
	var accounts []core.Account
	var txs []core.Transaction
	readJSON(filepath.Join(base, "accounts.json"), &accounts)
	readJSON(filepath.Join(base, "transactions.json"), &txs)
	return New(accounts, txs)
}

func readJSON(path string, out any) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(raw, out)
}

func (s *Store) newID(prefix string) string {
	id := fmt.Sprintf("%s:%d", prefix, s.nextID)
	s.nextID++
	return id
}

// ListTransactions implements api.TransactionLister.
func (s *Store) ListTransactions(_ context.Context, _ api.Session, f api.TransactionFilters) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Transactions carry only the joined account name, so the account filter
	// resolves the id to a name first. An unknown id matches nothing.
	accountName := ""
	if f.AccountID != "" {
		for _, a := range s.accounts {
			if a.ID == f.AccountID {
				accountName = a.Name
				break
			}
		}
	}

	out := make([]core.Transaction, 0, len(s.txs))
	for _, t := range s.txs {
		if f.AccountID != "" && (t.Account == nil || t.Account.Name != accountName || accountName == "") {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.StartDate != "" && t.Date.ISO() < f.StartDate {
			continue
		}
		if f.EndDate != "" && t.Date.ISO() > f.EndDate {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

// CreateTransaction implements api.TransactionWriter.
func (s *Store) CreateTransaction(_ context.Context, _ api.Session, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	var ref *core.AccountRef
	for _, a := range s.accounts {
		if a.ID == in.AccountID {
			ref = &core.AccountRef{Name: a.Name, Type: a.Type}
			break
		}
	}

	var date core.Date
	if t, err := parseISO(in.Date); err == nil {
		date = t
	}

	tx := core.Transaction{
		ID:          s.newID("tx"),
		Amount:      in.Amount,
		Type:        in.Type,
		Category:    in.Category,
		Date:        date,
		Description: in.Description,
		Account:     ref,
	}
	s.txs = append(s.txs, tx)
	return tx, nil
}

// UpdateTransaction implements api.TransactionWriter.
func (s *Store) UpdateTransaction(_ context.Context, _ api.Session, id string, in core.TransactionInput) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.txs {
		if t.ID != id {
			continue
		}
		t.Amount = in.Amount
		t.Type = in.Type
		t.Category = in.Category
		t.Description = in.Description
		if d, err := parseISO(in.Date); err == nil {
			t.Date = d
		}
		s.txs[i] = t
		return t, nil
	}
	return core.Transaction{}, fmt.Errorf("transaction %s not found", id)
}

// DeleteTransaction implements api.TransactionWriter.
func (s *Store) DeleteTransaction(_ context.Context, _ api.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.txs {
		if t.ID == id {
			s.txs = append(s.txs[:i], s.txs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("transaction %s not found", id)
}

// ListAccounts implements api.AccountLister.
func (s *Store) ListAccounts(_ context.Context, _ api.Session) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Account(nil), s.accounts...), nil
}

// CreateAccount implements api.AccountWriter.
func (s *Store) CreateAccount(_ context.Context, _ api.Session, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	a := core.Account{
		ID:             s.newID("acct"),
		Name:           in.Name,
		Type:           in.Type,
		CurrentBalance: in.InitialBalance,
	}
	s.accounts = append(s.accounts, a)
	return a, nil
}

// UpdateAccount implements api.AccountWriter.
func (s *Store) UpdateAccount(_ context.Context, _ api.Session, id string, in core.AccountInput) (core.Account, error) {
	if err := in.Validate(); err != nil {
		return core.Account{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.ID != id {
			continue
		}
		a.Name = in.Name
		a.Type = in.Type
		s.accounts[i] = a
		return a, nil
	}
	return core.Account{}, fmt.Errorf("account %s not found", id)
}

// DeleteAccount implements api.AccountWriter.
func (s *Store) DeleteAccount(_ context.Context, _ api.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, a := range s.accounts {
		if a.ID == id {
			s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("account %s not found", id)
}

// Register implements api.Authenticator. The demo store has a single profile;
// registering overwrites it and signs in.
func (s *Store) Register(_ context.Context, name, email, _ string) (api.Profile, api.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.profile.Name = name
	}
	if email != "" {
		s.profile.Email = email
	}
	return s.profile, api.Session("demo"), nil
}

// Login implements api.Authenticator. Any credentials are accepted; the demo
// session is a fixed token.
func (s *Store) Login(_ context.Context, email, _ string) (api.Profile, api.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if email != "" {
		s.profile.Email = email
	}
	return s.profile, api.Session("demo"), nil
}

// Logout implements api.Authenticator.
func (s *Store) Logout(context.Context, api.Session) error { return nil }

// GetProfile implements api.Authenticator.
func (s *Store) GetProfile(context.Context, api.Session) (api.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, nil
}

// UpdateProfile implements api.Authenticator. Empty fields keep their current
// value, matching the partial-update behavior of the real backend.
func (s *Store) UpdateProfile(_ context.Context, _ api.Session, in api.ProfileInput) (api.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Name != "" {
		s.profile.Name = in.Name
	}
	if in.Email != "" {
		s.profile.Email = in.Email
	}
	if in.Currency != "" {
		s.profile.Currency = in.Currency
	}
	return s.profile, nil
}

func parseISO(s string) (core.Date, error) {
	var d core.Date
	if err := d.UnmarshalJSON([]byte(`"` + s + `"`)); err != nil {
		return core.Date{}, err
	}
	return d, nil
}
