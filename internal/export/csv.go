// Package export serializes transaction lists for file download.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"finview/internal/core"
)

// Filename is the download name offered to the browser.
const Filename = "transactions.csv"

// ContentType is the MIME type of the exported file.
const ContentType = "text/csv; charset=utf-8"

// ErrNoTransactions signals an export request over an empty list. No file is
// produced in that case; the caller shows a notice instead.
var ErrNoTransactions = errors.New("no transactions to export")

// header is joined unquoted, matching the established file shape.
var header = []string{"Date", "Amount", "Type", "Category", "Description", "Account Name", "Account Type"}

// WriteTransactionsCSV writes the full transaction list as CSV. It is always
// a complete dump: any report-level filter is deliberately ignored. Every
// row field is wrapped in double quotes without escaping embedded quotes;
// downstream consumers depend on this exact shape, so it is preserved rather
// than fixed. Amounts are written as the raw stored magnitude with two
// decimals; the sign is not re-derived from the transaction type.
func WriteTransactionsCSV(w io.Writer, txs []core.Transaction) error {
	if len(txs) == 0 {
		return ErrNoTransactions
	}

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')

	for _, t := range txs {
		accountName, accountType := "", ""
		if t.Account != nil {
			accountName = t.Account.Name
			accountType = string(t.Account.Type)
		}
		fields := []string{
			t.Date.Short(),
			fmt.Sprintf("%.2f", t.Amount),
			string(t.Type),
			t.Category,
			t.Description,
			accountName,
			accountType,
		}
		for i, f := range fields {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(f)
			b.WriteByte('"')
		}
		b.WriteByte('\n')
	}

	_, err := io.WriteString(w, b.String())
	return err
}
