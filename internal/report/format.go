// internal/report/format.go
package report

import "fmt"

// FormatSize renders a byte count with two decimals in the first unit
// where the value falls under 1024: 1536 -> "1.50 KB".
func FormatSize(n float64) string {
	for _, unit := range []string{"B", "KB", "MB", "GB", "TB"} {
		if n < 1024 {
			return fmt.Sprintf("%.2f %s", n, unit)
		}
		n /= 1024
	}
	return fmt.Sprintf("%.2f PB", n)
}

// EstimateBytes extrapolates linearly: numPairs at the observed average.
func EstimateBytes(numPairs int, avgPairBytes float64) float64 {
	return float64(numPairs) * avgPairBytes
}

// EstimateSize is EstimateBytes rendered for display.
func EstimateSize(numPairs int, avgPairBytes float64) string {
	return FormatSize(EstimateBytes(numPairs, avgPairBytes))
}
