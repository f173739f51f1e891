package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	Expense  TransactionType = "Expense"
	Income   TransactionType = "Income"
	Transfer TransactionType = "Transfer"
)

const (
	Checking   AccountType = "Checking"
	Savings    AccountType = "Savings"
	CreditCard AccountType = "Credit Card"
	Cash       AccountType = "Cash"
	Investment AccountType = "Investment"
	Other      AccountType = "Other"
)

type (
	// TransactionType is one of the three transaction kinds. Only Expense
	// counts toward spending aggregation.
	TransactionType string

	AccountType string

	// Date is a calendar date without time-of-day semantics. It accepts both
	// plain dates and full RFC3339 timestamps when decoding API payloads.
	Date struct {
		time.Time
	}

	// AccountRef is the account summary joined onto a transaction. It is used
	// for display and export only, never mutated here.
	AccountRef struct {
		Name string      `json:"name"`
		Type AccountType `json:"type"`
	}

	// Transaction is a read-only snapshot of a backend transaction record.
	// Amount is an unsigned magnitude; the sign is inferred from Type.
	Transaction struct {
		ID          string          `json:"id"`
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        Date            `json:"date"`
		Description string          `json:"description,omitempty"`
		Account     *AccountRef     `json:"account,omitempty"`
	}

	// Account is a read-only snapshot of a backend account record.
	Account struct {
		ID             string      `json:"id"`
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		CurrentBalance float64     `json:"currentBalance"`
	}

	// TransactionInput is the payload for creating or updating a transaction
	// through the backend API.
	TransactionInput struct {
		Amount      float64         `json:"amount"`
		Type        TransactionType `json:"type"`
		Category    string          `json:"category"`
		Date        string          `json:"date"`
		Description string          `json:"description,omitempty"`
		AccountID   string          `json:"accountId"`
	}

	// AccountInput is the payload for creating or updating an account.
	AccountInput struct {
		Name           string      `json:"name"`
		Type           AccountType `json:"type"`
		InitialBalance float64     `json:"initialBalance"`
	}
)

var (
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyCategory    = errors.New("empty category")
	ErrEmptyAccount     = errors.New("empty account reference")
	ErrEmptyAccountName = errors.New("empty account name")
	ErrInvalidDate      = errors.New("invalid date")
)

func (t TransactionType) IsValid() bool {
	switch t {
	case Expense, Income, Transfer:
		return true
	}
	return false
}

func (a AccountType) IsValid() bool {
	switch a {
	case Checking, Savings, CreditCard, Cash, Investment, Other:
		return true
	}
	return false
}

// TransactionTypes lists every valid transaction type in form display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{Expense, Income, Transfer}
}

// AccountTypes lists every valid account type in form display order.
func AccountTypes() []AccountType {
	return []AccountType{Checking, Savings, CreditCard, Cash, Investment, Other}
}

// SuggestedCategories returns the suggested category set for a transaction
// type. These are suggestions only; free-form categories are never rejected.
func SuggestedCategories(t TransactionType) []string {
	switch t {
	case Expense:
		return []string{"Food", "Transport", "Housing", "Utilities", "Entertainment", "Shopping", "Health", "Education", "Other"}
	case Income:
		return []string{"Salary", "Freelance", "Investment", "Gift", "Other"}
	case Transfer:
		return []string{"Between Accounts"}
	}
	return nil
}

const dateLayout = "2006-01-02"

// shortDateLayout matches the en-US locale-default short date used for
// transaction rows and CSV export.
const shortDateLayout = "1/2/2006"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON decodes either "2006-01-02" or a full RFC3339 timestamp.
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		d.Time = time.Time{}
		return nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return ErrInvalidDate
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

// Short returns the date formatted as a short display date (e.g. "2/10/2024").
func (d Date) Short() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(shortDateLayout)
}

// ISO returns the date formatted as YYYY-MM-DD.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

// Validate checks a transaction input before it is sent to the backend.
// Enforcement proper is the backend's job; this only catches payloads the
// backend would reject anyway.
func (in TransactionInput) Validate() error {
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	if in.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(in.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(in.AccountID) == "" {
		return ErrEmptyAccount
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks an account input before it is sent to the backend.
func (in AccountInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyAccountName
	}
	if !in.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

// DisplayLabel returns the text shown for a transaction row: the description,
// falling back to the category when the description is empty.
func (t Transaction) DisplayLabel() string {
	if strings.TrimSpace(t.Description) != "" {
		return t.Description
	}
	return t.Category
}
