package utils

import (
	"github.com/shopspring/decimal"
)

// FormatAmount formats a money amount with two decimal places for display on
// rendered bills and receipts. All amounts in this system are a single
// currency; precision is fixed at 2.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}
