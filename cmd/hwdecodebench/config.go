package main

import (
	"fmt"
	"os"

	"github.com/xaionaro-go/hwdecoder/codec"
	"github.com/xaionaro-go/hwdecoder/types"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Decoder     codec.Options    `yaml:"decoder"`
	Resolution  types.Resolution `yaml:"resolution"`
	Frames      int              `yaml:"frames"`
	ResizeEvery int              `yaml:"resize_every"`
	ToAstiav    bool             `yaml:"to_astiav"`
}

func DefaultConfig() Config {
	return Config{
		Decoder:    codec.DefaultOptions(),
		Resolution: types.Resolution{Width: 1920, Height: 1080},
		Frames:     300,
	}
}

func (cfg Config) Validate() error {
	if cfg.Resolution.IsZero() {
		return fmt.Errorf("the resolution is not set")
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("the amount of frames should be positive, but it is %d", cfg.Frames)
	}
	if cfg.ResizeEvery < 0 {
		return fmt.Errorf("resize_every should not be negative, but it is %d", cfg.ResizeEvery)
	}
	return nil
}

// loadConfig reads the YAML file at path on top of the defaults.
func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("unable to read the config '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse the config '%s': %w", path, err)
	}
	return cfg, nil
}
