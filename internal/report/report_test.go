package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"finview/internal/core"
)

func tx(typ core.TransactionType, category string, amount float64, year, month, day int) core.Transaction {
	return core.Transaction{
		Type:     typ,
		Category: category,
		Amount:   amount,
		Date:     core.NewDate(year, month, day),
	}
}

func TestBuildSeriesFiltersNonExpense(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "Food", 25, 2024, 1, 10),
		tx(core.Income, "Salary", 5000, 2024, 1, 1),
		tx(core.Transfer, "Between Accounts", 300, 2024, 1, 2),
		tx(core.Expense, "Food", 15, 2024, 1, 20),
		tx(core.Expense, "Transport", 8.5, 2024, 1, 21),
	}

	r := BuildSeries(txs, nil)

	require.Equal(t, []string{"Food", "Transport"}, r.Category.Labels)
	assert.Equal(t, []float64{40, 8.5}, r.Category.Values)
	require.Equal(t, []string{"Jan 2024"}, r.Monthly.Labels)
	assert.Equal(t, []float64{48.5}, r.Monthly.Values)
}

func TestBuildSeriesMonthlyChronologicalOrder(t *testing.T) {
	// Date-shuffled input whose lexical label order would be wrong:
	// "Feb 2024" sorts before "Jan 2023" as a string.
	txs := []core.Transaction{
		tx(core.Expense, "Food", 10, 2024, 2, 10),
		tx(core.Expense, "Food", 20, 2023, 1, 5),
		tx(core.Expense, "Food", 30, 2024, 1, 20),
	}

	r := BuildSeries(txs, nil)

	assert.Equal(t, []string{"Jan 2023", "Jan 2024", "Feb 2024"}, r.Monthly.Labels)
	assert.Equal(t, []float64{20, 30, 10}, r.Monthly.Values)
}

func TestBuildSeriesPaletteCycles(t *testing.T) {
	palette := []string{"#111", "#222", "#333"}
	var txs []core.Transaction
	for i, cat := range []string{"a", "b", "c", "d", "e"} {
		txs = append(txs, tx(core.Expense, cat, float64(i+1), 2024, 3, i+1))
	}

	r := BuildSeries(txs, palette)

	require.Len(t, r.Colors, 5)
	assert.Equal(t, []string{"#111", "#222", "#333", "#111", "#222"}, r.Colors)

	// Default palette applies when none is supplied.
	d := BuildSeries(txs[:1], nil)
	require.Len(t, d.Colors, 1)
	assert.Equal(t, DefaultPalette[0], d.Colors[0])
}

func TestBuildSeriesEmptyInput(t *testing.T) {
	r := BuildSeries(nil, nil)

	assert.Empty(t, r.Category.Labels)
	assert.Empty(t, r.Category.Values)
	assert.Empty(t, r.Monthly.Labels)
	assert.Empty(t, r.Monthly.Values)
	assert.Empty(t, r.Colors)

	// No zero-padding: a list with no expenses behaves like an empty list.
	r = BuildSeries([]core.Transaction{tx(core.Income, "Salary", 100, 2024, 1, 1)}, nil)
	assert.Empty(t, r.Category.Labels)
	assert.Empty(t, r.Monthly.Labels)
}

func TestBuildSeriesIdempotent(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "Food", 12.34, 2024, 5, 2),
		tx(core.Expense, "Housing", 950, 2024, 4, 28),
		tx(core.Expense, "Food", 7.66, 2024, 5, 9),
	}

	first := BuildSeries(txs, nil)
	second := BuildSeries(txs, nil)

	assert.Equal(t, first, second)
}

func TestTotalExpenses(t *testing.T) {
	txs := []core.Transaction{
		tx(core.Expense, "Food", 10, 2024, 1, 1),
		tx(core.Income, "Salary", 999, 2024, 1, 1),
		tx(core.Expense, "Transport", 2.5, 2024, 1, 2),
	}
	assert.Equal(t, 12.5, TotalExpenses(txs))
	assert.Zero(t, TotalExpenses(nil))
}
