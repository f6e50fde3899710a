package common

import "math"

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// RoundPtr rounds v and returns a pointer to the result, for optional output fields.
func RoundPtr(v float64, places int) *float64 {
	return Ptr(Round(v, places))
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
