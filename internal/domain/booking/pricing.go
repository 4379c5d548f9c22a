package booking

import (
	"math"

	"github.com/unimentor/service-booking/internal/platform/domain"
)

// DefaultPlatformFeeRate is the fallback marketplace fee when configuration
// does not supply one.
const DefaultPlatformFeeRate = 0.05

// Quote is the monetary breakdown for a session. All values keep full
// floating-point precision; rounding happens only at presentation time via
// RoundCents.
type Quote struct {
	HourlyRate      float64
	DurationMinutes int
	FeeRate         float64
	Subtotal        float64
	PlatformFee     float64
	Total           float64
}

// NewQuote computes the price breakdown for a session. The fee rate is an
// explicit input so every call site draws from one configured source of truth.
func NewQuote(hourlyRate float64, durationMinutes int, feeRate float64) (Quote, error) {
	if hourlyRate <= 0 {
		return Quote{}, domain.NewInvalidInputError("hourly rate must be positive")
	}
	if durationMinutes <= 0 {
		return Quote{}, domain.NewInvalidInputError("duration must be positive")
	}
	if feeRate < 0 {
		return Quote{}, domain.NewInvalidInputError("fee rate must not be negative")
	}

	subtotal := hourlyRate * float64(durationMinutes) / 60
	fee := subtotal * feeRate
	return Quote{
		HourlyRate:      hourlyRate,
		DurationMinutes: durationMinutes,
		FeeRate:         feeRate,
		Subtotal:        subtotal,
		PlatformFee:     fee,
		Total:           subtotal + fee,
	}, nil
}

// MentorEarnings returns the mentor's share: the fee is charged on top to the
// student, so the mentor keeps the full subtotal.
func (q Quote) MentorEarnings() float64 {
	return q.Subtotal
}

// RoundCents rounds a monetary value to 2 decimal places for presentation.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
