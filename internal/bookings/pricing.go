package bookings

import "math"

// minorUnitDigits maps ISO 4217 currencies with a non-standard minor unit.
// Everything else uses two digits.
var minorUnitDigits = map[string]int{
	"JPY": 0,
	"KRW": 0,
	"VND": 0,
	"BHD": 3,
	"KWD": 3,
	"OMR": 3,
}

// PriceBreakdown is the result of pricing a booking.
type PriceBreakdown struct {
	Subtotal float64 `json:"subtotal"`
	Fee      float64 `json:"fee"`
	Total    float64 `json:"total"`
}

// ComputePrice prices a booking: subtotal is unit price times quantity, the
// platform fee is the subtotal times the fee rate rounded half-up to the
// currency's minor unit, and the total is their sum. The same function runs
// at creation and confirmation so the amounts can never drift.
func ComputePrice(unitPrice float64, quantity int, feeRate float64, currency string) PriceBreakdown {
	subtotal := unitPrice * float64(quantity)
	fee := roundHalfUp(subtotal*feeRate, minorUnits(currency))

	return PriceBreakdown{
		Subtotal: subtotal,
		Fee:      fee,
		Total:    subtotal + fee,
	}
}

func minorUnits(currency string) int {
	if digits, ok := minorUnitDigits[currency]; ok {
		return digits
	}
	return 2
}

// roundHalfUp rounds to the given number of decimal digits, halves away
// from zero.
func roundHalfUp(amount float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	return math.Round(amount*scale) / scale
}
