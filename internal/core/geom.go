// Package core provides terminal-independent building blocks for the Reversi platform:
// a colored character buffer, semantic input actions and small numeric helpers.
// It contains no Bubble Tea dependency so that drawing code stays testable.
package core

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Wrap maps val into [0, n) cyclically. n must be positive.
func Wrap(val, n int) int {
	val %= n
	if val < 0 {
		val += n
	}
	return val
}
