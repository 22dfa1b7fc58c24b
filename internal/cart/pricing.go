// Package cart implements the trader cart: variant resolution, line
// management with price/quantity bounds, and write-through persistence.
package cart

// PriceStep is the granularity of trader selling prices, in Iraqi dinars.
// Every selling price is a multiple of this step.
const PriceStep = 250

// RoundToStep rounds price to the nearest multiple of PriceStep, halves
// rounding up. Rounding is idempotent: rounding an already-rounded price
// returns it unchanged. Negative inputs round to zero.
func RoundToStep(price int) int {
	if price < 0 {
		return 0
	}
	return (price + PriceStep/2) / PriceStep * PriceStep
}

// WithinBounds reports whether price lies in [min, max].
func WithinBounds(price, min, max int) bool {
	return price >= min && price <= max
}
