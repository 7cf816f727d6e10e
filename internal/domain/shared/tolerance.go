package shared

import "math"

// QuantityTolerance absorbs floating-point drift from repeated absorb/extract.
// Every quantity comparison in the facility core goes through it.
const QuantityTolerance = 1e-6

// IsNegligible reports whether a quantity is indistinguishable from zero
func IsNegligible(qty float64) bool {
	return math.Abs(qty) <= QuantityTolerance
}

// ExceedsQuantity reports whether a is greater than b beyond the tolerance
func ExceedsQuantity(a, b float64) bool {
	return a-b > QuantityTolerance
}

// QuantitiesEqual reports whether a and b are equal within the tolerance
func QuantitiesEqual(a, b float64) bool {
	return math.Abs(a-b) <= QuantityTolerance
}
