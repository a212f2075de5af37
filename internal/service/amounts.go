package service

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scales of the stored columns. Input is checked against them before any
// write so Postgres never rounds a value the service already accepted.
const (
	quantityScale = 3                         // decimal(14,3)
	rateScale     = 2                         // decimal(14,2)
	amountScale   = quantityScale + rateScale // decimal(19,5), holds any quantity × rate exactly
	cashScale     = 2                         // hand-entered cash-flow amounts
)

var (
	maxQuantity = decimal.New(1, 14-quantityScale)
	maxRate     = decimal.New(1, 14-rateScale)
	maxAmount   = decimal.New(1, 19-amountScale)
)

// checkNumber rejects values with more than scale decimal places or an
// absolute value of limit or more.
func checkNumber(field string, d decimal.Decimal, scale int32, limit decimal.Decimal) error {
	if !d.Equal(d.Truncate(scale)) {
		return &ValidationError{
			Msg:    "invalid " + field,
			Fields: map[string]string{field: fmt.Sprintf("must have at most %d decimal places", scale)},
		}
	}
	if !d.Abs().LessThan(limit) {
		return &ValidationError{
			Msg:    "invalid " + field,
			Fields: map[string]string{field: "must be less than " + limit.String()},
		}
	}
	return nil
}
