// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"trackrec.yaml",
	"trackrec.yml",
	"/etc/trackrec/config.yaml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "TRACKREC_CONFIG"

// EnvPrefix is stripped from environment variables before mapping.
const EnvPrefix = "TRACKREC_"

// FlagKeys maps command-line flag names to koanf paths. Flags missing from
// this map (seed selection, search limits) are command inputs rather than
// configuration and are never merged.
var FlagKeys = map[string]string{
	"data":            "dataset.path",
	"dataset-format":  "dataset.format",
	"delimiter":       "dataset.delimiter",
	"table":           "dataset.table",
	"subset":          "dataset.subset",
	"sample-seed":     "dataset.sample_seed",
	"k":               "engine.k",
	"metric":          "engine.metric",
	"index":           "engine.index",
	"fallback-seed":   "engine.fallback_seed",
	"no-cache":        "cache.enabled",
	"top":             "output.top",
	"format":          "output.format",
	"out":             "output.path",
	"include-seed":    "output.include_seed",
	"host":            "server.host",
	"port":            "server.port",
	"reload-interval": "server.reload_interval",
	"log-level":       "logging.level",
	"log-format":      "logging.format",
}

// invertedFlags holds boolean flags whose value is the negation of the key.
var invertedFlags = map[string]bool{
	"no-cache": true,
}

// LoadOptions carries the inputs Load layers on top of defaults.
type LoadOptions struct {
	// ConfigPath, when set, must point at a readable YAML file.
	ConfigPath string

	// Flags is the parsed flag set of the running command, may be nil.
	Flags *pflag.FlagSet

	// Overrides are applied last, keyed by koanf path.
	Overrides map[string]any
}

// Load builds the configuration from every layer and validates it.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	configPath, err := resolveConfigFile(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if opts.Flags != nil {
		fs := opts.Flags
		provider := posflag.ProviderWithFlag(fs, ".", k, func(f *pflag.Flag) (string, interface{}) {
			key, ok := FlagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			val := posflag.FlagVal(fs, f)
			if invertedFlags[f.Name] {
				if b, isBool := val.(bool); isBool {
					val = !b
				}
			}
			return key, val
		})
		if err := k.Load(provider, nil); err != nil {
			return nil, fmt.Errorf("failed to load command-line flags: %w", err)
		}
	}

	for path, val := range opts.Overrides {
		if err := k.Set(path, val); err != nil {
			return nil, fmt.Errorf("failed to set %s: %w", path, err)
		}
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// resolveConfigFile returns the file to load, or "" when none exists.
// An explicitly requested path that does not exist is an error.
func resolveConfigFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file %s: %w", explicit, err)
		}
		return explicit, nil
	}

	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath, nil
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", nil
}

var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields splits comma-separated strings coming from env vars.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps TRACKREC_-stripped, lowercased variable names to koanf
// paths. Unlisted variables are ignored so stray TRACKREC_* values cannot
// create unknown keys.
var envMappings = map[string]string{
	"data_path":      "dataset.path",
	"data_format":    "dataset.format",
	"data_delimiter": "dataset.delimiter",
	"data_table":     "dataset.table",
	"subset":         "dataset.subset",
	"sample_seed":    "dataset.sample_seed",

	"k":             "engine.k",
	"metric":        "engine.metric",
	"index":         "engine.index",
	"max_n":         "engine.max_n",
	"fallback_seed": "engine.fallback_seed",

	"cache_enabled":     "cache.enabled",
	"cache_max_entries": "cache.max_entries",

	"top":           "output.top",
	"output_format": "output.format",
	"output_path":   "output.path",
	"include_seed":  "output.include_seed",

	"http_host":           "server.host",
	"http_port":           "server.port",
	"read_timeout":        "server.read_timeout",
	"write_timeout":       "server.write_timeout",
	"shutdown_timeout":    "server.shutdown_timeout",
	"cors_origins":        "server.cors_origins",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",
	"reload_interval":     "server.reload_interval",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable to a koanf path.
//
// Examples:
//   - TRACKREC_DATA_PATH -> dataset.path
//   - TRACKREC_K -> engine.k
//   - TRACKREC_HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return envMappings[key]
}
