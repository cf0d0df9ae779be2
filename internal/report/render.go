// internal/report/render.go
package report

import (
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("=", 60)

// Render prints the storage statistics block and, when at least one
// pair was saved, the extrapolation table.
func Render(w io.Writer, s Snapshot) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "STORAGE STATISTICS")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Images generated: %d pairs (%d total files)\n", s.PairsSaved, s.PairsSaved*2)
	fmt.Fprintf(w, "Total size: %s\n", FormatSize(float64(s.TotalBytes)))

	if s.PairsSaved > 0 {
		avg := s.AvgPairBytes()
		fmt.Fprintf(w, "Average per pair: %s\n", FormatSize(avg))

		if len(s.Estimates) > 0 {
			fmt.Fprintln(w)
			fmt.Fprintln(w, rule)
			fmt.Fprintln(w, "STORAGE ESTIMATES FOR DIFFERENT QUANTITIES")
			fmt.Fprintln(w, rule)
			for _, n := range s.Estimates {
				fmt.Fprintf(w, "%6d image pairs: ~%10s\n", n, EstimateSize(n, avg))
			}
		}
	}

	fmt.Fprintln(w, rule)
}
