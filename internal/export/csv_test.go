package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finview/internal/core"
)

func TestWriteTransactionsCSVSingleRow(t *testing.T) {
	txs := []core.Transaction{
		{
			ID:          "t1",
			Amount:      42.5,
			Type:        core.Expense,
			Category:    "Food",
			Date:        core.NewDate(2024, 2, 10),
			Description: "Groceries",
			Account:     &core.AccountRef{Name: "Everyday", Type: core.Checking},
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteTransactionsCSV(&sb, txs))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Date,Amount,Type,Category,Description,Account Name,Account Type", lines[0])
	assert.Equal(t, `"2/10/2024","42.50","Expense","Food","Groceries","Everyday","Checking"`, lines[1])
}

func TestWriteTransactionsCSVMissingAccount(t *testing.T) {
	txs := []core.Transaction{
		{
			Amount:   7,
			Type:     core.Income,
			Category: "Gift",
			Date:     core.NewDate(2023, 12, 25),
		},
	}

	var sb strings.Builder
	require.NoError(t, WriteTransactionsCSV(&sb, txs))

	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	// No account joined: name and type are empty quoted fields.
	assert.Equal(t, `"12/25/2023","7.00","Income","Gift","","",""`, lines[1])
}

func TestWriteTransactionsCSVFullDump(t *testing.T) {
	// Export includes every transaction type, not just expenses.
	txs := []core.Transaction{
		{Amount: 1, Type: core.Expense, Category: "Food", Date: core.NewDate(2024, 1, 1)},
		{Amount: 2, Type: core.Income, Category: "Salary", Date: core.NewDate(2024, 1, 2)},
		{Amount: 3, Type: core.Transfer, Category: "Between Accounts", Date: core.NewDate(2024, 1, 3)},
	}

	var sb strings.Builder
	require.NoError(t, WriteTransactionsCSV(&sb, txs))
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	assert.Len(t, lines, 4)
}

func TestWriteTransactionsCSVEmptyList(t *testing.T) {
	var sb strings.Builder
	err := WriteTransactionsCSV(&sb, nil)

	require.ErrorIs(t, err, ErrNoTransactions)
	assert.Empty(t, sb.String(), "no partial output on empty export")
}
