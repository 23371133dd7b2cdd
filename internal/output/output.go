// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

// Package output renders recommendation and search results as an aligned
// text table, CSV or JSON.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/recommend"
)

// Format selects a renderer.
type Format string

const (
	FormatTable Format = "table"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
)

// ParseFormat resolves a format name; the empty string selects FormatTable.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q", name)
	}
}

// Columns returns the result columns in output order. popularity is only
// present when the corpus carries it.
func Columns(hasPopularity bool) []string {
	cols := []string{"rank", "track_name", "artist_name", "track_id"}
	if hasPopularity {
		cols = append(cols, "popularity")
	}
	return append(cols, "similarity", "distance")
}

// TrackColumns are the columns of a search result.
var TrackColumns = []string{"track_name", "artist_name", "track_id"}

// WriteRows renders recommendation rows in the given format.
func WriteRows(w io.Writer, format Format, rows []recommend.Row, hasPopularity bool) error {
	switch format {
	case FormatCSV:
		return writeCSV(w, Columns(hasPopularity), rowRecords(rows, hasPopularity))
	case FormatJSON:
		return writeJSON(w, jsonRows(rows, hasPopularity))
	default:
		return writeTable(w, Columns(hasPopularity), rowRecords(rows, hasPopularity))
	}
}

// WriteTracks renders search hits in the given format.
func WriteTracks(w io.Writer, format Format, tracks []dataset.Track) error {
	switch format {
	case FormatJSON:
		out := make([]trackJSON, len(tracks))
		for i, t := range tracks {
			out[i] = trackJSON{TrackName: t.Name, ArtistName: t.Artist, TrackID: t.ID}
		}
		return writeJSON(w, out)
	case FormatCSV:
		return writeCSV(w, TrackColumns, trackRecords(tracks))
	default:
		return writeTable(w, TrackColumns, trackRecords(tracks))
	}
}

// WriteCSVFile saves recommendation rows as CSV at path, replacing any
// existing file.
func WriteCSVFile(path string, rows []recommend.Row, hasPopularity bool) (err error) {
	f, err := os.Create(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()
	return WriteRows(f, FormatCSV, rows, hasPopularity)
}

func rowRecords(rows []recommend.Row, hasPopularity bool) [][]string {
	out := make([][]string, len(rows))
	for i := range rows {
		r := &rows[i]
		rec := []string{strconv.Itoa(r.Rank), r.TrackName, r.ArtistName, r.TrackID}
		if hasPopularity {
			rec = append(rec, formatPopularity(r.Popularity))
		}
		out[i] = append(rec, formatFloat(r.Similarity), formatFloat(r.Distance))
	}
	return out
}

func trackRecords(tracks []dataset.Track) [][]string {
	out := make([][]string, len(tracks))
	for i, t := range tracks {
		out[i] = []string{t.Name, t.Artist, t.ID}
	}
	return out
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatPopularity(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func writeTable(w io.Writer, header []string, records [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(tw, strings.Join(header, "\t")); err != nil {
		return err
	}
	for _, rec := range records {
		if _, err := fmt.Fprintln(tw, strings.Join(sanitize(rec), "\t")); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// sanitize keeps tabs and newlines in names from breaking table alignment.
func sanitize(rec []string) []string {
	out := make([]string, len(rec))
	for i, s := range rec {
		out[i] = strings.Map(func(r rune) rune {
			if r == '\t' || r == '\n' || r == '\r' {
				return ' '
			}
			return r
		}, s)
	}
	return out
}

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

type trackJSON struct {
	TrackName  string `json:"track_name"`
	ArtistName string `json:"artist_name"`
	TrackID    string `json:"track_id"`
}

// rowJSON fixes the key order to the column order.
type rowJSON struct {
	Rank       int      `json:"rank"`
	TrackName  string   `json:"track_name"`
	ArtistName string   `json:"artist_name"`
	TrackID    string   `json:"track_id"`
	Popularity *float64 `json:"popularity,omitempty"`
	Similarity float64  `json:"similarity"`
	Distance   float64  `json:"distance"`
}

func jsonRows(rows []recommend.Row, hasPopularity bool) []rowJSON {
	out := make([]rowJSON, len(rows))
	for i := range rows {
		r := &rows[i]
		out[i] = rowJSON{
			Rank:       r.Rank,
			TrackName:  r.TrackName,
			ArtistName: r.ArtistName,
			TrackID:    r.TrackID,
			Similarity: r.Similarity,
			Distance:   r.Distance,
		}
		if hasPopularity {
			out[i].Popularity = r.Popularity
		}
	}
	return out
}
