// internal/writer/writer.go
package writer

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/edaniels/golog"

	"github.com/drivesim/simcap/internal/capture"
	"github.com/drivesim/simcap/internal/simclient"
)

// On-disk layout, fixed: <out>/rgb/rgb_NNNNNN.png and
// <out>/segmentation/seg_NNNNNN.png, indices zero-padded to six digits.
const (
	rgbSubdir = "rgb"
	segSubdir = "segmentation"
)

type imageWriter struct {
	rgbDir string
	segDir string
	logger golog.Logger
}

// SaveAll writes every pair, indexed sequentially from zero.
// A failed pair is skipped and reported; later pairs still save.
func (w *imageWriter) SaveAll(pairs []capture.FramePair) (Result, error) {
	var res Result
	var errs []string

	for i, p := range pairs {
		pr, err := w.savePair(i, p)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		res.Saved = append(res.Saved, pr)
		res.TotalBytes += pr.Bytes()
		w.logger.Debugf("saved %d/%d image pairs", len(res.Saved), len(pairs))
	}

	if len(errs) > 0 {
		return res, errors.New(strings.Join(errs, " | "))
	}
	return res, nil
}

func (w *imageWriter) savePair(i int, p capture.FramePair) (PairResult, error) {
	pr := PairResult{
		Index:   i,
		RGBPath: filepath.Join(w.rgbDir, fmt.Sprintf("rgb_%06d.png", i)),
		SegPath: filepath.Join(w.segDir, fmt.Sprintf("seg_%06d.png", i)),
	}

	var err error
	if pr.RGBBytes, err = saveFrame(pr.RGBPath, p.RGB); err != nil {
		return PairResult{}, fmt.Errorf("writer: pair %d rgb: %w", i, err)
	}
	if pr.SegBytes, err = saveFrame(pr.SegPath, p.Seg); err != nil {
		return PairResult{}, fmt.Errorf("writer: pair %d seg: %w", i, err)
	}
	return pr, nil
}

// saveFrame normalizes whatever codec the simulator delivered to PNG
// and reports the written size.
func saveFrame(path string, f simclient.Frame) (int64, error) {
	img, err := imaging.Decode(bytes.NewReader(f.Data))
	if err != nil {
		return 0, fmt.Errorf("decode frame %d: %w", f.Number, err)
	}

	if err := imaging.Save(img, path); err != nil {
		return 0, fmt.Errorf("save: %w", err)
	}

	st, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat: %w", err)
	}
	return st.Size(), nil
}
