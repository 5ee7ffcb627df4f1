// Package config loads tracker tuning parameters from JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig holds optional tracker parameters. Nil fields fall back to
// the defaults returned by the Get* accessors, so partial files are safe.
type TuningConfig struct {
	ParticleCount       *int     `json:"particle_count,omitempty"`
	LikelihoodThreshold *float64 `json:"likelihood_threshold,omitempty"`
	KeepDivisor         *int     `json:"keep_divisor,omitempty"`
	Workers             *int     `json:"workers,omitempty"`
	Seed                *uint64  `json:"seed,omitempty"` // 0 seeds from the clock
	ReseedOnEmpty       *bool    `json:"reseed_on_empty,omitempty"`
	FrameInterval       *int     `json:"frame_interval,omitempty"`
}

// Defaults.
const (
	DefaultParticleCount       = 10000
	DefaultLikelihoodThreshold = 0.9
	DefaultKeepDivisor         = 100
)

const maxFileSize = 1 * 1024 * 1024 // 1MB

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file.
// The file must have a .json extension and be at most 1MB.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyTuningConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *TuningConfig) Validate() error {
	if c.ParticleCount != nil && *c.ParticleCount <= 0 {
		return fmt.Errorf("particle_count must be positive, got %d", *c.ParticleCount)
	}
	if c.LikelihoodThreshold != nil {
		if *c.LikelihoodThreshold < 0 || *c.LikelihoodThreshold > 1 {
			return fmt.Errorf("likelihood_threshold must be between 0 and 1, got %f", *c.LikelihoodThreshold)
		}
	}
	if c.KeepDivisor != nil && *c.KeepDivisor <= 0 {
		return fmt.Errorf("keep_divisor must be positive, got %d", *c.KeepDivisor)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	if c.FrameInterval != nil && *c.FrameInterval < 0 {
		return fmt.Errorf("frame_interval must be non-negative, got %d", *c.FrameInterval)
	}
	return nil
}

// GetParticleCount returns the particle_count value or the default.
func (c *TuningConfig) GetParticleCount() int {
	if c.ParticleCount == nil {
		return DefaultParticleCount
	}
	return *c.ParticleCount
}

// GetLikelihoodThreshold returns the likelihood_threshold value or the default.
func (c *TuningConfig) GetLikelihoodThreshold() float64 {
	if c.LikelihoodThreshold == nil {
		return DefaultLikelihoodThreshold
	}
	return *c.LikelihoodThreshold
}

// GetKeepDivisor returns the keep_divisor value or the default.
func (c *TuningConfig) GetKeepDivisor() int {
	if c.KeepDivisor == nil {
		return DefaultKeepDivisor
	}
	return *c.KeepDivisor
}

// GetWorkers returns the workers value, 0 meaning GOMAXPROCS.
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// GetSeed returns the seed value, 0 meaning seed from the clock.
func (c *TuningConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetReseedOnEmpty returns the reseed_on_empty value or the default.
func (c *TuningConfig) GetReseedOnEmpty() bool {
	if c.ReseedOnEmpty == nil {
		return true
	}
	return *c.ReseedOnEmpty
}

// GetFrameInterval returns the frame_interval value or the default.
func (c *TuningConfig) GetFrameInterval() int {
	if c.FrameInterval == nil {
		return 0
	}
	return *c.FrameInterval
}
