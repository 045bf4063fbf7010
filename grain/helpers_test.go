package grain_test

import (
	"github.com/shopspring/decimal"
)

// Shared fixture helpers for the grain package tests.

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func decEq(a decimal.Decimal, s string) bool {
	return a.Equal(dec(s))
}
