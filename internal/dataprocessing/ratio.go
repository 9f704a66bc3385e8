package dataprocessing

// Share returns numerator / (numerator + denominator), or 0 when both are zero
func Share(numerator, denominator int64) float64 {
	total := numerator + denominator
	if total == 0 {
		return 0
	}
	return float64(numerator) / float64(total)
}

// SafeRatio returns a / b, or 0 when b is zero
func SafeRatio(a, b int64) float64 {
	if b == 0 {
		return 0
	}
	return float64(a) / float64(b)
}

// Percent returns 100 * part / whole, or 0 when whole is zero
func Percent(part, whole int64) float64 {
	return 100 * SafeRatio(part, whole)
}
