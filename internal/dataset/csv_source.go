// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// CSVSource reads delimited text with a header row.
type CSVSource struct {
	Path      string
	Delimiter rune
}

// Name returns the file path.
func (s *CSVSource) Name() string { return s.Path }

// Read parses the whole file. Ragged rows are accepted; absent trailing
// cells become invalid fields.
func (s *CSVSource) Read(ctx context.Context) (*Table, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Path, err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	return ReadCSV(ctx, f, s.Delimiter)
}

// ReadCSV parses delimited text from r.
func ReadCSV(ctx context.Context, r io.Reader, delimiter rune) (*Table, error) {
	cr := csv.NewReader(r)
	if delimiter != 0 {
		cr.Comma = delimiter
	}
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	tbl := &Table{Columns: header}
	for line := 2; ; line++ {
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}

		row := make([]Field, len(header))
		for i := range row {
			if i < len(rec) {
				row[i] = Field{Value: rec[i], Valid: true}
			}
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl, nil
}
