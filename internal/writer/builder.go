// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/edaniels/golog"
)

// Build creates the output directory tree and returns a Writer bound to it.
func Build(outputDir string, logger golog.Logger) (Writer, error) {
	if outputDir == "" {
		return nil, errors.New("writer: output dir required")
	}
	if logger == nil {
		logger = golog.NewLogger("writer")
	}

	rgbDir := filepath.Join(outputDir, rgbSubdir)
	segDir := filepath.Join(outputDir, segSubdir)

	for _, dir := range []string{rgbDir, segDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("writer: create %s: %w", dir, err)
		}
	}

	return &imageWriter{
		rgbDir: rgbDir,
		segDir: segDir,
		logger: logger,
	}, nil
}
