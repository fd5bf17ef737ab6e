// Package models provides the data structures used throughout the
// forecasting pipeline.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionRecord is one row of the categorized ledger the pipeline
// consumes. It arrives from the upstream categorizer with a resolved date,
// an opaque category label and a signed amount; negative amounts are
// expenses. Records are read-only to the forecasting core.
type TransactionRecord struct {
	Date      time.Time       `json:"date"`
	Category  string          `json:"category"`
	NetAmount decimal.Decimal `json:"net_amount"`
}

// IsExpense reports whether the record represents spending.
func (t TransactionRecord) IsExpense() bool {
	return t.NetAmount.IsNegative()
}

// ExpenseAmount returns the positive spend amount as a float64 for the
// numeric pipeline. Zero for non-expense records.
func (t TransactionRecord) ExpenseAmount() float64 {
	if !t.IsExpense() {
		return 0
	}
	return t.NetAmount.Abs().InexactFloat64()
}
