// Package pricing derives booking totals from a daily rate and a date
// range. Tax rate and stamp fee come in as explicit parameters so the
// calculator stays pure; policy values live in configuration.
package pricing

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"fleetrental-backend/internal/domain"
	"fleetrental-backend/internal/money"
)

// Quote is the monetary breakdown snapshotted onto a booking.
type Quote struct {
	DurationDays int32        `json:"duration_days"`
	DailyRate    money.Amount `json:"daily_rate"`
	Subtotal     money.Amount `json:"subtotal"`
	TaxAmount    money.Amount `json:"tax_amount"`
	StampFee     money.Amount `json:"stamp_fee"`
	TotalAmount  money.Amount `json:"total_amount"`
}

// Calculate prices a rental of the given range at the given daily rate.
// Duration is the whole-day difference rounded up, minimum one day.
// All four monetary outputs round half away from zero to the minor
// unit, which keeps subtotal + tax + stampFee == total exact.
func Calculate(dailyRate money.Amount, start, end time.Time, taxRatePercent decimal.Decimal, stampFee money.Amount) (Quote, error) {
	if !start.Before(end) {
		return Quote{}, domain.ErrInvalidDateRange
	}

	days := int32(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		days = 1
	}

	subtotal := dailyRate.MulInt(int64(days))
	tax := subtotal.ApplyPercent(taxRatePercent)

	return Quote{
		DurationDays: days,
		DailyRate:    dailyRate,
		Subtotal:     subtotal,
		TaxAmount:    tax,
		StampFee:     stampFee,
		TotalAmount:  subtotal + tax + stampFee,
	}, nil
}
