package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finview/internal/api"
	"finview/internal/core"
)

func seedStore() *Store {
	accounts := []core.Account{
		{ID: "acc-1", Name: "Everyday", Type: core.Checking, CurrentBalance: 500},
	}
	txs := []core.Transaction{
		{ID: "tx-1", Amount: 20, Type: core.Expense, Category: "Food", Date: core.NewDate(2024, 1, 5),
			Account: &core.AccountRef{Name: "Everyday", Type: core.Checking}},
		{ID: "tx-2", Amount: 30, Type: core.Expense, Category: "Transport", Date: core.NewDate(2024, 2, 5)},
		{ID: "tx-3", Amount: 100, Type: core.Income, Category: "Salary", Date: core.NewDate(2024, 2, 1)},
	}
	return New(accounts, txs)
}

func TestListTransactionsFilters(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	all, err := s.ListTransactions(ctx, "", api.TransactionFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d transactions, want 3", len(all))
	}

	byCategory, _ := s.ListTransactions(ctx, "", api.TransactionFilters{Category: "Food"})
	if len(byCategory) != 1 || byCategory[0].ID != "tx-1" {
		t.Errorf("category filter = %v", byCategory)
	}

	byRange, _ := s.ListTransactions(ctx, "", api.TransactionFilters{
		StartDate: "2024-02-01",
		EndDate:   "2024-02-28",
	})
	if len(byRange) != 2 {
		t.Errorf("date range filter returned %d, want 2", len(byRange))
	}
}

func TestListTransactionsByAccount(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	// The filter carries an account id; matches go through the joined name.
	byAccount, err := s.ListTransactions(ctx, "", api.TransactionFilters{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(byAccount) != 1 || byAccount[0].ID != "tx-1" {
		t.Errorf("account filter = %v, want tx-1 only", byAccount)
	}

	none, _ := s.ListTransactions(ctx, "", api.TransactionFilters{AccountID: "acc-unknown"})
	if len(none) != 0 {
		t.Errorf("unknown account id matched %d transactions, want 0", len(none))
	}
}

func TestCreateTransactionJoinsAccount(t *testing.T) {
	s := seedStore()

	tx, err := s.CreateTransaction(context.Background(), "", core.TransactionInput{
		Amount:    15,
		Type:      core.Expense,
		Category:  "Food",
		Date:      "2024-03-01",
		AccountID: "acc-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tx.ID == "" {
		t.Error("expected generated id")
	}
	if tx.Account == nil || tx.Account.Name != "Everyday" {
		t.Errorf("account ref = %v, want Everyday", tx.Account)
	}
	if tx.Date.ISO() != "2024-03-01" {
		t.Errorf("date = %q", tx.Date.ISO())
	}
}

func TestCreateTransactionValidates(t *testing.T) {
	s := seedStore()
	_, err := s.CreateTransaction(context.Background(), "", core.TransactionInput{
		Amount: -1, Type: core.Expense, Category: "Food", Date: "2024-03-01", AccountID: "acc-1",
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	if err := s.DeleteTransaction(ctx, "", "tx-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "", "tx-1"); err == nil {
		t.Error("expected not-found error on second delete")
	}

	remaining, _ := s.ListTransactions(ctx, "", api.TransactionFilters{})
	if len(remaining) != 2 {
		t.Errorf("got %d transactions after delete, want 2", len(remaining))
	}
}

func TestAccountLifecycle(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	created, err := s.CreateAccount(ctx, "", core.AccountInput{
		Name: "Rainy Day", Type: core.Savings, InitialBalance: 1000,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := s.UpdateAccount(ctx, "", created.ID, core.AccountInput{
		Name: "Emergency Fund", Type: core.Savings,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "Emergency Fund" {
		t.Errorf("name = %q", updated.Name)
	}

	if err := s.DeleteAccount(ctx, "", created.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	accounts, _ := s.ListAccounts(ctx, "")
	if len(accounts) != 1 {
		t.Errorf("got %d accounts, want 1", len(accounts))
	}
}

func TestLoginAndProfile(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	profile, sess, err := s.Login(ctx, "me@example.com", "anything")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess == "" {
		t.Error("expected a session token")
	}
	if profile.Email != "me@example.com" {
		t.Errorf("email = %q", profile.Email)
	}

	got, err := s.GetProfile(ctx, sess)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Currency != "USD" {
		t.Errorf("currency = %q, want USD", got.Currency)
	}
}

func TestRegisterSignsIn(t *testing.T) {
	s := seedStore()

	profile, sess, err := s.Register(context.Background(), "Ada", "ada@example.com", "pw")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess == "" {
		t.Error("expected a session token")
	}
	if profile.Name != "Ada" || profile.Email != "ada@example.com" {
		t.Errorf("profile = %+v", profile)
	}
}

func TestUpdateProfilePartial(t *testing.T) {
	s := seedStore()
	ctx := context.Background()

	updated, err := s.UpdateProfile(ctx, "demo", api.ProfileInput{Currency: "EUR"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Currency != "EUR" {
		t.Errorf("currency = %q, want EUR", updated.Currency)
	}
	if updated.Name == "" || updated.Email == "" {
		t.Errorf("empty fields should keep their current value, got %+v", updated)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "accounts.json"),
		`[{"id":"acc-1","name":"Everyday","type":"Checking","currentBalance":250}]`)
	writeFile(t, filepath.Join(dir, "transactions.json"),
		`[{"id":"tx-1","amount":9.5,"type":"Expense","category":"Food","date":"2024-01-02"}]`)

	s := NewFromFiles(dir)

	accounts, _ := s.ListAccounts(context.Background(), "")
	if len(accounts) != 1 || accounts[0].CurrentBalance != 250 {
		t.Errorf("accounts = %v", accounts)
	}
	txs, _ := s.ListTransactions(context.Background(), "", api.TransactionFilters{})
	if len(txs) != 1 || txs[0].Date.ISO() != "2024-01-02" {
		t.Errorf("transactions = %v", txs)
	}
}

func TestNewFromFilesMissingDir(t *testing.T) {
	s := NewFromFiles(filepath.Join(t.TempDir(), "nope"))
	txs, err := s.ListTransactions(context.Background(), "", api.TransactionFilters{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(txs) != 0 {
		t.Errorf("expected empty store, got %d transactions", len(txs))
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}
