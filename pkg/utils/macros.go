package utils

import "golang.org/x/exp/constraints"

// BoolToString renders b as a single flag digit, "1" or "0".
func BoolToString(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// Clamp limits value to the closed range [min, max].
func Clamp[T constraints.Integer | constraints.Float](min, value, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
