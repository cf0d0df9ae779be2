// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the capture session configuration.
// Built once from defaults + optional YAML file + flag overrides,
// then immutable for the run.
type Config struct {
	Simulator SimulatorConfig `yaml:"simulator"`
	Capture   CaptureConfig   `yaml:"capture"`
	Camera    CameraConfig    `yaml:"camera"`
	Output    OutputConfig    `yaml:"output"`
}

// ---- SIMULATOR ----

type SimulatorConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
}

// Endpoint returns the host:port address of the simulator server.
func (s SimulatorConfig) Endpoint() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout returns the dial/request timeout.
func (s SimulatorConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutMs) * time.Millisecond
}

// ---- CAPTURE ----

type CaptureConfig struct {
	NumImages   int `yaml:"num_images"`
	IntervalMs  int `yaml:"interval_ms"`
	StabilizeMs int `yaml:"stabilize_ms"`
	GraceMs     int `yaml:"grace_ms"`
}

// Interval returns the delay between capture ticks.
func (c CaptureConfig) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Stabilize returns the settle delay before the first capture tick.
func (c CaptureConfig) Stabilize() time.Duration {
	return time.Duration(c.StabilizeMs) * time.Millisecond
}

// Grace returns the trailing wait for in-flight frames.
func (c CaptureConfig) Grace() time.Duration {
	return time.Duration(c.GraceMs) * time.Millisecond
}

// ---- CAMERA ----

type CameraConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	FOV    float64 `yaml:"fov"`
}

// ---- OUTPUT ----

type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Estimates []int  `yaml:"estimates"`
}

// Default returns the configuration used when no file and no flags are given.
func Default() *Config {
	return &Config{
		Simulator: SimulatorConfig{
			Host:      "127.0.0.1",
			Port:      2000,
			TimeoutMs: 10000,
		},
		Capture: CaptureConfig{
			NumImages:   10,
			IntervalMs:  500,
			StabilizeMs: 2000,
			GraceMs:     1000,
		},
		Camera: CameraConfig{
			Width:  800,
			Height: 600,
			FOV:    90,
		},
		Output: OutputConfig{
			Dir: "output",
		},
	}
}

// Load reads a YAML config file over the defaults.
// Missing keys keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}
