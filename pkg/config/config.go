// Package config provides configuration loading for the framegrab CLI and
// embedding applications.
package config

import (
	"os"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Environment variable names honored by ApplyEnv.
const (
	EnvBackend       = "SUBFAST_BACKEND"
	EnvAdapterVendor = "SUBFAST_ADAPTER_VENDOR"
)

// Config represents the full configuration.
type Config struct {
	// Backend selects the decode platform ("sim" or "mp4").
	Backend string `yaml:"backend"`

	// AdapterVendor forces adapter selection to a PCI vendor ID. It is
	// handed explicitly to device selection, never read ambiently by
	// the core.
	AdapterVendor *uint32 `yaml:"adapter_vendor"`

	// LogLevel: debug, info, warn, error, quiet.
	LogLevel string `yaml:"log_level"`

	Sim SimConfig `yaml:"sim"`
}

// SimConfig shapes the synthetic backend's stream.
type SimConfig struct {
	Width      uint32 `yaml:"width"`
	Height     uint32 `yaml:"height"`
	FrameCount uint64 `yaml:"frame_count"`
	FPSNum     uint32 `yaml:"fps_num"`
	FPSDen     uint32 `yaml:"fps_den"`

	// GPUSurfaces switches the synthetic stream to GPU-resident
	// delivery with a staged readback copy.
	GPUSurfaces bool `yaml:"gpu_surfaces"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Backend:  "mp4",
		LogLevel: "info",
		Sim: SimConfig{
			Width:      640,
			Height:     360,
			FrameCount: 120,
			FPSNum:     60,
			FPSDen:     1,
		},
	}
}

// Load reads a yaml config file over the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, errors.Wrap(err, "read config")
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables onto the config. Vendor values
// accept decimal or 0x-prefixed hex.
func (c *Config) ApplyEnv() error {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvAdapterVendor); v != "" {
		parsed, err := strconv.ParseUint(v, 0, 32)
		if err != nil {
			return errors.Wrapf(err, "parse %s", EnvAdapterVendor)
		}
		vendor := uint32(parsed)
		c.AdapterVendor = &vendor
	}
	return nil
}
