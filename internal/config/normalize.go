// internal/config/normalize.go
package config

import "path/filepath"

// defaultEstimates are the extrapolation quantities reported after a run
// when none are configured.
var defaultEstimates = []int{100, 500, 1000, 5000, 10000}

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	// Clean the output path so joined file names stay tidy.
	cfg.Output.Dir = filepath.Clean(cfg.Output.Dir)

	// Default extrapolation table.
	if len(cfg.Output.Estimates) == 0 {
		cfg.Output.Estimates = append([]int(nil), defaultEstimates...)
	}
}
