// Package utils holds small generic slice helpers shared by the game packages.
package utils

// FindIndex returns the position of item in slice, or -1.
func FindIndex[T comparable](slice []T, item T) int {
	for i, v := range slice {
		if v == item {
			return i
		}
	}
	return -1
}

// Filter returns the elements of slice for which keep is true, in order.
func Filter[T any](slice []T, keep func(T) bool) []T {
	var out []T
	for _, v := range slice {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
