// Package config holds the tessellation driver's typed configuration,
// loaded from an optional YAML file and overlaid with CLI flags, in a
// "defaults struct + YAML unmarshal over it" shape.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the strongly typed replacement for the source's heterogeneous
// key-value configuration bag; its fields are exactly the keys spec.md §6
// lists.
type Config struct {
	K                 int  `yaml:"k"`
	CPUNThreads       int  `yaml:"cpu_nthreads"`
	GPUNDSize         int  `yaml:"gpu_ndsize"`
	ChunkSize         int  `yaml:"chunksize"`
	UseChunking       bool `yaml:"use_chunking"`
	UseRecompute      bool `yaml:"use_recompute"`
	KNNGridResolution int  `yaml:"knn_grid_resolution"`
	CCPMaxSize        int  `yaml:"cc_p_maxsize"`
	CCTMaxSize        int  `yaml:"cc_t_maxsize"`
}

// Default returns the configuration the driver falls back to when no
// file and no flag overrides a given field.
func Default() Config {
	return Config{
		K:                 15,
		CPUNThreads:       0,
		GPUNDSize:         64,
		ChunkSize:         4096,
		UseChunking:       false,
		UseRecompute:      false,
		KNNGridResolution: 8,
		CCPMaxSize:        64,
		CCTMaxSize:        128,
	}
}

// Load reads a YAML configuration file at path and overlays it onto
// Default(). A missing file is not an error; the defaults are returned
// unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports whether the configuration's numeric fields are within
// the ranges the rest of the module assumes (positive grid resolution,
// capacities large enough to hold the initial unit cube, and so on).
func (c Config) Validate() error {
	if c.K <= 0 {
		return fmt.Errorf("k must be positive, got %d", c.K)
	}
	if c.KNNGridResolution <= 0 {
		return fmt.Errorf("knn_grid_resolution must be positive, got %d", c.KNNGridResolution)
	}
	if c.CCPMaxSize < 6 {
		return fmt.Errorf("cc_p_maxsize must be at least 6, got %d", c.CCPMaxSize)
	}
	if c.CCTMaxSize < 8 {
		return fmt.Errorf("cc_t_maxsize must be at least 8, got %d", c.CCTMaxSize)
	}
	if c.CPUNThreads < 0 {
		return fmt.Errorf("cpu_nthreads must be >= 0, got %d", c.CPUNThreads)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunksize must be positive, got %d", c.ChunkSize)
	}
	return nil
}
