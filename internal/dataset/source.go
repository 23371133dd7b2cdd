// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// Field is one raw cell. Valid is false for SQL NULL and short CSV rows.
type Field struct {
	Value string
	Valid bool
}

// Table is the raw, untyped content of a source: a header and its rows.
type Table struct {
	Columns []string
	Rows    [][]Field
}

// Source produces a raw table. Every source goes through the same cleaning
// in Loader.Load, so they differ only in how bytes become cells.
type Source interface {
	// Name identifies the source in errors and logs.
	Name() string
	Read(ctx context.Context) (*Table, error)
}

// Source formats accepted by NewSource.
const (
	FormatAuto   = "auto"
	FormatCSV    = "csv"
	FormatDuckDB = "duckdb"
	FormatSQLite = "sqlite"
)

// SourceConfig selects and configures a Source.
type SourceConfig struct {
	Path      string
	Format    string
	Delimiter string
	Table     string
}

// NewSource builds the Source for cfg. FormatAuto chooses by extension:
// .parquet reads through DuckDB, .db/.sqlite/.sqlite3 through SQLite and
// everything else as delimited text.
func NewSource(cfg SourceConfig) (Source, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("dataset path is empty")
	}

	delim := ','
	if cfg.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(cfg.Delimiter)
		if size != len(cfg.Delimiter) || r == utf8.RuneError {
			return nil, fmt.Errorf("delimiter %q must be a single character", cfg.Delimiter)
		}
		delim = r
	}

	format := strings.ToLower(cfg.Format)
	if format == "" || format == FormatAuto {
		format = detectFormat(cfg.Path)
	}

	switch format {
	case FormatCSV:
		return &CSVSource{Path: cfg.Path, Delimiter: delim}, nil
	case FormatDuckDB:
		return &DuckDBSource{Path: cfg.Path, Delimiter: delim}, nil
	case FormatSQLite:
		table := cfg.Table
		if table == "" {
			table = "tracks"
		}
		return &SQLiteSource{Path: cfg.Path, Table: table}, nil
	default:
		return nil, fmt.Errorf("unknown dataset format %q", cfg.Format)
	}
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet", ".pq":
		return FormatDuckDB
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}
