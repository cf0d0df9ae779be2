// internal/report/snapshot.go
package report

// Snapshot is exactly what the reporter is allowed to render.
// It carries observed values only; no estimation state.
type Snapshot struct {
	SessionID string
	MapName   string
	OutputDir string

	RGBFrames  int
	SegFrames  int
	PairsSaved int
	TotalBytes int64

	// Extrapolation quantities for the estimates table.
	Estimates []int
}

// AvgPairBytes is the observed average pair size.
// Zero when nothing was saved.
func (s Snapshot) AvgPairBytes() float64 {
	if s.PairsSaved == 0 {
		return 0
	}
	return float64(s.TotalBytes) / float64(s.PairsSaved)
}
