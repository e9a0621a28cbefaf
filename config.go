package datamodel

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents file based engine configuration
type Config struct {
	Mode           string   `yaml:"mode,omitempty"`
	UnknownFields  string   `yaml:"unknownFields,omitempty"`
	Nulls          string   `yaml:"nulls,omitempty"`
	DateLayouts    []string `yaml:"dateLayouts,omitempty"`
	DelimitedLists bool     `yaml:"delimitedLists,omitempty"`
}

// LoadConfigFile loads and parses a YAML configuration file from the given path.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return LoadConfig(data)
}

// LoadConfig parses YAML data into a Config
func LoadConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if _, err := cfg.Options(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Options returns engine options, policies left empty follow the mode defaults
func (c *Config) Options() ([]Option, error) {
	var result []Option
	switch strings.ToLower(c.Mode) {
	case "", "lenient":
	case "strict":
		result = append(result, WithMode(ModeStrict))
	default:
		return nil, fmt.Errorf("invalid mode: %v, expected strict or lenient", c.Mode)
	}
	switch strings.ToLower(c.UnknownFields) {
	case "":
	case "ignore":
		result = append(result, WithUnknownFieldPolicy(IgnoreUnknown))
	case "error":
		result = append(result, WithUnknownFieldPolicy(ErrorOnUnknown))
	case "allow":
		result = append(result, WithUnknownFieldPolicy(AllowUnknown))
	default:
		return nil, fmt.Errorf("invalid unknownFields: %v, expected ignore, error or allow", c.UnknownFields)
	}
	switch strings.ToLower(c.Nulls) {
	case "":
	case "compat":
		result = append(result, WithNullPolicy(CompatNulls))
	case "strict":
		result = append(result, WithNullPolicy(StrictNulls))
	default:
		return nil, fmt.Errorf("invalid nulls: %v, expected compat or strict", c.Nulls)
	}
	if len(c.DateLayouts) > 0 {
		result = append(result, WithDateLayout(c.DateLayouts...))
	}
	if c.DelimitedLists {
		result = append(result, WithDelimitedLists(true))
	}
	return result, nil
}
