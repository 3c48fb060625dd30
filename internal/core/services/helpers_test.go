package services_test

import (
	"github.com/shopspring/decimal"
)

func intPtr(i int) *int { return &i }

func strPtr(s string) *string { return &s }

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}
