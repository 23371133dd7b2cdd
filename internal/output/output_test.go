// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package output

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/trackrec/internal/dataset"
	"github.com/tomtom215/trackrec/internal/recommend"
)

func popularity(v float64) *float64 { return &v }

func sampleRows() []recommend.Row {
	return []recommend.Row{
		{Rank: 1, TrackName: "Shape of You", ArtistName: "Ed Sheeran", TrackID: "id1", Popularity: popularity(87), Similarity: 0.98, Distance: 0.02},
		{Rank: 2, TrackName: "Tab\tName", ArtistName: "Someone, Else", TrackID: "id2", Similarity: 0.5, Distance: 0.5},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "", want: FormatTable},
		{in: "table", want: FormatTable},
		{in: "CSV", want: FormatCSV},
		{in: " json ", want: FormatJSON},
		{in: "xml", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestColumns(t *testing.T) {
	want := []string{"rank", "track_name", "artist_name", "track_id", "popularity", "similarity", "distance"}
	if got := Columns(true); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns(true) = %v", got)
	}
	want = []string{"rank", "track_name", "artist_name", "track_id", "similarity", "distance"}
	if got := Columns(false); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns(false) = %v", got)
	}
}

func TestWriteRowsCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatCSV, sampleRows(), true); err != nil {
		t.Fatal(err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("len(records) = %d, want 3", len(records))
	}
	if !reflect.DeepEqual(records[0], Columns(true)) {
		t.Errorf("header = %v", records[0])
	}
	wantFirst := []string{"1", "Shape of You", "Ed Sheeran", "id1", "87", "0.980000", "0.020000"}
	if !reflect.DeepEqual(records[1], wantFirst) {
		t.Errorf("row 1 = %v, want %v", records[1], wantFirst)
	}
	if records[2][2] != "Someone, Else" || records[2][4] != "" {
		t.Errorf("row 2 = %v", records[2])
	}
}

func TestWriteRowsTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatTable, sampleRows(), false); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if strings.Contains(buf.String(), "popularity") {
		t.Error("popularity column rendered without popularity")
	}
	if strings.Contains(buf.String(), "\t") {
		t.Error("table output contains a raw tab")
	}
	// Columns are aligned: the track_id column starts at the same offset.
	col := strings.Index(lines[0], "track_id")
	if !strings.HasPrefix(lines[1][col:], "id1") || !strings.HasPrefix(lines[2][col:], "id2") {
		t.Errorf("track_id column misaligned:\n%s", buf.String())
	}
}

func TestWriteRowsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRows(&buf, FormatJSON, sampleRows(), false); err != nil {
		t.Fatal(err)
	}

	var got []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if _, ok := got[0]["popularity"]; ok {
		t.Error("popularity present without popularity column")
	}
	if got[0]["track_id"] != "id1" || got[0]["rank"] != float64(1) {
		t.Errorf("first row = %v", got[0])
	}

	buf.Reset()
	if err := WriteRows(&buf, FormatJSON, sampleRows(), true); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"popularity": 87`) {
		t.Errorf("popularity missing:\n%s", buf.String())
	}
}

func TestWriteTracks(t *testing.T) {
	tracks := []dataset.Track{{ID: "id1", Name: "Shape of You", Artist: "Ed Sheeran"}}

	tests := []struct {
		format Format
		want   string
	}{
		{format: FormatCSV, want: "track_name,artist_name,track_id\nShape of You,Ed Sheeran,id1\n"},
		{format: FormatTable, want: "track_name    artist_name  track_id\nShape of You  Ed Sheeran   id1\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTracks(&buf, tt.format, tracks); err != nil {
				t.Fatal(err)
			}
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteTracks(&buf, FormatJSON, tracks); err != nil {
			t.Fatal(err)
		}
		var got []trackJSON
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if len(got) != 1 || got[0].TrackID != "id1" {
			t.Errorf("got %+v", got)
		}
	})
}

func TestWriteCSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "recs.csv")
	if err := WriteCSVFile(path, sampleRows(), false); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "rank,track_name,artist_name,track_id,similarity,distance\n") {
		t.Errorf("unexpected file contents:\n%s", data)
	}

	if err := WriteCSVFile(filepath.Join(t.TempDir(), "missing", "recs.csv"), sampleRows(), false); err == nil {
		t.Error("WriteCSVFile into a missing directory should fail")
	}
}
