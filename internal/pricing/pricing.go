// Package pricing computes stay totals from a nightly rate.
package pricing

import (
	"fmt"
	"time"

	apperrors "elitestay/internal/errors"
	"elitestay/internal/models"

	"github.com/shopspring/decimal"
)

const day = 24 * time.Hour

// Nights returns the whole number of nights between two dates, truncated.
func Nights(checkin, checkout time.Time) int {
	return int(checkout.Sub(checkin) / day)
}

// CalculateTotal returns nights × rate with two fractional digits.
func CalculateTotal(checkin, checkout time.Time, rate decimal.Decimal) (decimal.Decimal, error) {
	if !checkout.After(checkin) {
		return decimal.Zero, apperrors.ErrInvalidDateRange
	}
	if rate.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: negative nightly rate %s", apperrors.ErrValidation, rate)
	}
	nights := Nights(checkin, checkout)
	return rate.Mul(decimal.NewFromInt(int64(nights))).Round(2), nil
}

// ParseDate parses a single date in DateLayout.
func ParseDate(field, value string) (time.Time, error) {
	t, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s %q", apperrors.ErrValidation, field, value)
	}
	return t, nil
}

// ParseStay parses a checkin/checkout pair in DateLayout and checks ordering.
func ParseStay(checkin, checkout string) (time.Time, time.Time, error) {
	in, err := ParseDate("checkin date", checkin)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	out, err := ParseDate("checkout date", checkout)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !out.After(in) {
		return time.Time{}, time.Time{}, apperrors.ErrInvalidDateRange
	}
	return in, out, nil
}
