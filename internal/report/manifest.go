// internal/report/manifest.go
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file written into the output directory.
const ManifestName = "manifest.yaml"

// Manifest is the persisted record of one capture run.
type Manifest struct {
	SessionID  string    `yaml:"session_id"`
	CreatedAt  time.Time `yaml:"created_at"`
	MapName    string    `yaml:"map"`
	RGBFrames  int       `yaml:"rgb_frames"`
	SegFrames  int       `yaml:"seg_frames"`
	PairsSaved int       `yaml:"pairs_saved"`
	TotalBytes int64     `yaml:"total_bytes"`
	AvgBytes   float64   `yaml:"avg_pair_bytes"`
}

// WriteManifest records the run summary next to the images.
func WriteManifest(s Snapshot) (string, error) {
	m := Manifest{
		SessionID:  s.SessionID,
		CreatedAt:  time.Now().UTC(),
		MapName:    s.MapName,
		RGBFrames:  s.RGBFrames,
		SegFrames:  s.SegFrames,
		PairsSaved: s.PairsSaved,
		TotalBytes: s.TotalBytes,
		AvgBytes:   s.AvgPairBytes(),
	}

	raw, err := yaml.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("report: marshal manifest: %w", err)
	}

	path := filepath.Join(s.OutputDir, ManifestName)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("report: write manifest: %w", err)
	}
	return path, nil
}
