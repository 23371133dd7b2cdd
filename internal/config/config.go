// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package config loads trackrec configuration with Koanf v2.
//
// Sources are layered, highest priority last:
//
//  1. Built-in defaults (this file)
//  2. Optional YAML file (TRACKREC_CONFIG, ./trackrec.yaml, /etc/trackrec/config.yaml)
//  3. Environment variables (TRACKREC_*)
//  4. Command-line flags that were explicitly set
//
// The merged result is unmarshalled into Config and validated before use.
package config

import "time"

// Config is the complete trackrec configuration.
type Config struct {
	Dataset DatasetConfig `koanf:"dataset"`
	Engine  EngineConfig  `koanf:"engine"`
	Cache   CacheConfig   `koanf:"cache"`
	Output  OutputConfig  `koanf:"output"`
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
}

// DatasetConfig describes where tracks are read from and how they are sampled.
type DatasetConfig struct {
	// Path is the tabular source. Required for every command.
	Path string `koanf:"path"`

	// Format selects the reader: auto, csv, duckdb or sqlite.
	// auto picks by file extension.
	Format string `koanf:"format" validate:"oneof=auto csv duckdb sqlite"`

	// Delimiter is the field separator for csv sources.
	Delimiter string `koanf:"delimiter" validate:"len=1"`

	// Table is the table name read by the sqlite source.
	Table string `koanf:"table" validate:"required"`

	// Subset samples this many rows after cleaning; 0 keeps every row.
	Subset int `koanf:"subset" validate:"gte=0"`

	// SampleSeed seeds the subsample so identical inputs give identical samples.
	SampleSeed uint64 `koanf:"sample_seed"`
}

// EngineConfig tunes the recommendation engine.
type EngineConfig struct {
	// K is the neighbor budget per query, capped by corpus size.
	K int `koanf:"k" validate:"gte=1"`

	// Metric is the distance metric: cosine, euclidean or manhattan.
	Metric string `koanf:"metric" validate:"oneof=cosine euclidean manhattan"`

	// Index is the neighbor index kind: brute or kdtree.
	Index string `koanf:"index" validate:"oneof=brute kdtree"`

	// MaxN bounds the result count a caller may request.
	MaxN int `koanf:"max_n" validate:"gte=1"`

	// FallbackSeed seeds the random seed-track pick used when no seed is given.
	FallbackSeed uint64 `koanf:"fallback_seed"`
}

// CacheConfig controls the per-engine result cache.
type CacheConfig struct {
	Enabled    bool `koanf:"enabled"`
	MaxEntries int  `koanf:"max_entries" validate:"gte=1"`
}

// OutputConfig controls how CLI results are rendered.
type OutputConfig struct {
	// Top is the default number of recommendations.
	Top int `koanf:"top" validate:"gte=1"`

	// Format is table, csv or json for stdout.
	Format string `koanf:"format" validate:"oneof=table csv json"`

	// Path, when set, also writes the results as CSV to this file.
	Path string `koanf:"path"`

	// IncludeSeed keeps the seed itself in single-seed results.
	IncludeSeed bool `koanf:"include_seed"`
}

// ServerConfig configures `trackrec serve`.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// RateLimitRequests is the per-IP budget per RateLimitWindow; 0 disables limiting.
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`

	// ReloadInterval re-reads the dataset and refits the engine on this
	// period; 0 loads once at startup.
	ReloadInterval time.Duration `koanf:"reload_interval" validate:"gte=0"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// Defaults returns the built-in configuration.
//
// The sample and fallback seeds are fixed so that repeated runs over the same
// file give the same subsample and the same fallback seed track.
func Defaults() *Config {
	return &Config{
		Dataset: DatasetConfig{
			Format:     "auto",
			Delimiter:  ",",
			Table:      "tracks",
			Subset:     0,
			SampleSeed: 42,
		},
		Engine: EngineConfig{
			K:            200,
			Metric:       "cosine",
			Index:        "brute",
			MaxN:         500,
			FallbackSeed: 7,
		},
		Cache: CacheConfig{
			Enabled:    true,
			MaxEntries: 1024,
		},
		Output: OutputConfig{
			Top:    10,
			Format: "table",
		},
		Server: ServerConfig{
			Host:              "127.0.0.1",
			Port:              8089,
			ReadTimeout:       10 * time.Second,
			WriteTimeout:      30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 120,
			RateLimitWindow:   time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
