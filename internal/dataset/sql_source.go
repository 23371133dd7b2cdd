// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver for parquet and CSV scans
	_ "github.com/mattn/go-sqlite3"    // SQLite driver for track tables
)

// DuckDBSource scans a Parquet or CSV file through an in-memory DuckDB.
type DuckDBSource struct {
	Path      string
	Delimiter rune
}

// Name returns the file path.
func (s *DuckDBSource) Name() string { return s.Path }

// Read runs read_parquet or read_csv over the file. CSV columns are read as
// VARCHAR so cleaning sees exactly the same cells as CSVSource would.
func (s *DuckDBSource) Read(ctx context.Context) (*Table, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer db.Close() //nolint:errcheck // in-memory database

	return queryTable(ctx, db, s.scanQuery())
}

func (s *DuckDBSource) scanQuery() string {
	path := quoteLiteral(s.Path)
	switch strings.ToLower(filepath.Ext(s.Path)) {
	case ".parquet", ".pq":
		return "SELECT * FROM read_parquet(" + path + ")"
	default:
		delim := s.Delimiter
		if delim == 0 {
			delim = ','
		}
		return fmt.Sprintf("SELECT * FROM read_csv(%s, header = true, all_varchar = true, delim = %s)",
			path, quoteLiteral(string(delim)))
	}
}

// SQLiteSource reads every row of one table from a SQLite database.
type SQLiteSource struct {
	Path  string
	Table string
}

// Name returns "path:table".
func (s *SQLiteSource) Name() string { return s.Path + ":" + s.Table }

// Read opens the database read-only and selects the whole table.
func (s *SQLiteSource) Read(ctx context.Context) (*Table, error) {
	db, err := sql.Open("sqlite3", "file:"+s.Path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.Path, err)
	}
	defer db.Close() //nolint:errcheck // read-only database

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", s.Path, err)
	}
	return queryTable(ctx, db, "SELECT * FROM "+quoteIdent(s.Table))
}

func queryTable(ctx context.Context, db *sql.DB, query string) (*Table, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	defer rows.Close() //nolint:errcheck // error surfaced via rows.Err

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	tbl := &Table{Columns: cols}
	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(tbl.Rows)+1, err)
		}
		row := make([]Field, len(cols))
		for i, v := range vals {
			row[i] = fieldFromValue(v)
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tbl, nil
}

// fieldFromValue renders a driver value the way it would appear in a CSV cell.
func fieldFromValue(v any) Field {
	switch t := v.(type) {
	case nil:
		return Field{}
	case string:
		return Field{Value: t, Valid: true}
	case []byte:
		return Field{Value: string(t), Valid: true}
	case float64:
		return Field{Value: strconv.FormatFloat(t, 'g', -1, 64), Valid: true}
	case float32:
		return Field{Value: strconv.FormatFloat(float64(t), 'g', -1, 32), Valid: true}
	case int64:
		return Field{Value: strconv.FormatInt(t, 10), Valid: true}
	case int32:
		return Field{Value: strconv.FormatInt(int64(t), 10), Valid: true}
	case int16:
		return Field{Value: strconv.FormatInt(int64(t), 10), Valid: true}
	case int8:
		return Field{Value: strconv.FormatInt(int64(t), 10), Valid: true}
	case int:
		return Field{Value: strconv.Itoa(t), Valid: true}
	case uint64:
		return Field{Value: strconv.FormatUint(t, 10), Valid: true}
	case uint32:
		return Field{Value: strconv.FormatUint(uint64(t), 10), Valid: true}
	case bool:
		return Field{Value: strconv.FormatBool(t), Valid: true}
	case time.Time:
		return Field{Value: t.Format(time.RFC3339), Valid: true}
	default:
		return Field{Value: fmt.Sprint(t), Valid: true}
	}
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
