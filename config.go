package deskkit

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type LogConfig struct {
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Dir   string `yaml:"dir"`
	JSON  bool   `yaml:"json"`
}

type SysmonConfig struct {
	DiskPath       string        `yaml:"disk_path" validate:"required"`
	SampleInterval time.Duration `yaml:"sample_interval" validate:"gt=0,lte=1m"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr" validate:"omitempty,hostname_port"`
}

type Config struct {
	JournalPath string        `yaml:"journal_path" validate:"required"`
	Log         LogConfig     `yaml:"log"`
	Sysmon      SysmonConfig  `yaml:"sysmon"`
	Metrics     MetricsConfig `yaml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		JournalPath: DefaultJournalPath,
		Log:         LogConfig{Level: "info"},
		Sysmon: SysmonConfig{
			DiskPath:       DefaultDiskPath(),
			SampleInterval: DefaultSampleInterval,
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// LoadConfig reads a YAML config on top of the defaults. An empty path or a
// missing file yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read the config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse the config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
