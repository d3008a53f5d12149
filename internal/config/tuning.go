package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TuningConfig represents the tunable parameters of the posture pipeline.
// Fields are pointers so a partial JSON file only overrides what it names;
// the Get* accessors supply defaults for everything else.
type TuningConfig struct {
	// Skeleton geometry params
	SkeletonPoints *int     `json:"skeleton_points,omitempty"`
	EdgeFraction   *float64 `json:"edge_fraction,omitempty"`

	// Bend counter params
	GaussianAlpha *float64 `json:"gaussian_alpha,omitempty"`

	// Wavelength params
	WavelengthSamples   *int     `json:"wavelength_samples,omitempty"`
	FFTSize             *int     `json:"fft_size,omitempty"`
	WavelengthCapFactor *float64 `json:"wavelength_cap_factor,omitempty"`
	SecondaryPeakRatio  *float64 `json:"secondary_peak_ratio,omitempty"`

	// Coiling params
	CoilMinSeconds *float64 `json:"coil_min_seconds,omitempty"`

	// Pipeline params
	Workers *int `json:"workers,omitempty"`
}

// EmptyTuningConfig returns a TuningConfig with all fields set to nil.
func EmptyTuningConfig() *TuningConfig {
	return &TuningConfig{}
}

// LoadTuningConfig loads a TuningConfig from a JSON file. Fields omitted
// from the file retain their defaults, so partial configs are safe.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
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

// Validate checks that the configuration values are usable.
func (c *TuningConfig) Validate() error {
	if c.SkeletonPoints != nil && *c.SkeletonPoints < 3 {
		return fmt.Errorf("skeleton_points must be at least 3, got %d", *c.SkeletonPoints)
	}
	if c.EdgeFraction != nil {
		if *c.EdgeFraction <= 0 || *c.EdgeFraction >= 0.5 {
			return fmt.Errorf("edge_fraction must be in (0, 0.5), got %f", *c.EdgeFraction)
		}
	}
	if c.GaussianAlpha != nil && *c.GaussianAlpha <= 0 {
		return fmt.Errorf("gaussian_alpha must be positive, got %f", *c.GaussianAlpha)
	}
	if c.WavelengthSamples != nil && *c.WavelengthSamples < 4 {
		return fmt.Errorf("wavelength_samples must be at least 4, got %d", *c.WavelengthSamples)
	}
	if c.FFTSize != nil {
		n := *c.FFTSize
		if n < 8 || n&(n-1) != 0 {
			return fmt.Errorf("fft_size must be a power of two >= 8, got %d", n)
		}
	}
	if c.WavelengthCapFactor != nil && *c.WavelengthCapFactor <= 0 {
		return fmt.Errorf("wavelength_cap_factor must be positive, got %f", *c.WavelengthCapFactor)
	}
	if c.SecondaryPeakRatio != nil {
		if *c.SecondaryPeakRatio <= 0 || *c.SecondaryPeakRatio > 1 {
			return fmt.Errorf("secondary_peak_ratio must be in (0, 1], got %f", *c.SecondaryPeakRatio)
		}
	}
	if c.CoilMinSeconds != nil && *c.CoilMinSeconds < 0 {
		return fmt.Errorf("coil_min_seconds must be non-negative, got %f", *c.CoilMinSeconds)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}
	return nil
}

// GetSkeletonPoints returns the skeleton_points value or the default.
func (c *TuningConfig) GetSkeletonPoints() int {
	if c.SkeletonPoints == nil {
		return 49
	}
	return *c.SkeletonPoints
}

// GetEdgeFraction returns the edge_fraction value or the default.
func (c *TuningConfig) GetEdgeFraction() float64 {
	if c.EdgeFraction == nil {
		return 1.0 / 12.0
	}
	return *c.EdgeFraction
}

// GetGaussianAlpha returns the gaussian_alpha value or the default.
func (c *TuningConfig) GetGaussianAlpha() float64 {
	if c.GaussianAlpha == nil {
		return 2.5
	}
	return *c.GaussianAlpha
}

// GetWavelengthSamples returns the wavelength_samples value or the default.
func (c *TuningConfig) GetWavelengthSamples() int {
	if c.WavelengthSamples == nil {
		return 48
	}
	return *c.WavelengthSamples
}

// GetFFTSize returns the fft_size value or the default.
func (c *TuningConfig) GetFFTSize() int {
	if c.FFTSize == nil {
		return 512
	}
	return *c.FFTSize
}

// GetWavelengthCapFactor returns the wavelength_cap_factor value or the default.
func (c *TuningConfig) GetWavelengthCapFactor() float64 {
	if c.WavelengthCapFactor == nil {
		return 2.0
	}
	return *c.WavelengthCapFactor
}

// GetSecondaryPeakRatio returns the secondary_peak_ratio value or the default.
func (c *TuningConfig) GetSecondaryPeakRatio() float64 {
	if c.SecondaryPeakRatio == nil {
		return 0.5
	}
	return *c.SecondaryPeakRatio
}

// GetCoilMinSeconds returns the coil_min_seconds value or the default.
func (c *TuningConfig) GetCoilMinSeconds() float64 {
	if c.CoilMinSeconds == nil {
		return 0.2
	}
	return *c.CoilMinSeconds
}

// GetWorkers returns the workers value or the default. A value of 0 means
// the pipeline should pick a worker count itself (one per CPU).
func (c *TuningConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}
