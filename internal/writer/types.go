// internal/writer/types.go
package writer

import "github.com/drivesim/simcap/internal/capture"

// PairResult records one saved pair on disk.
type PairResult struct {
	Index    int
	RGBPath  string
	SegPath  string
	RGBBytes int64
	SegBytes int64
}

// Bytes is the combined on-disk size of the pair.
func (p PairResult) Bytes() int64 {
	return p.RGBBytes + p.SegBytes
}

// Result summarizes a save run.
type Result struct {
	Saved      []PairResult
	TotalBytes int64
}

// Writer persists captured frame pairs as PNG files.
type Writer interface {
	SaveAll(pairs []capture.FramePair) (Result, error)
}
