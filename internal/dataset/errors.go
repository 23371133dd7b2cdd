// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package dataset

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/trackrec/internal/index"
)

// ErrSchema is matched by every SchemaError.
var ErrSchema = errors.New("dataset schema error")

// SchemaError reports required columns absent from a source.
type SchemaError struct {
	Source  string
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: missing required columns: %s", e.Source, strings.Join(e.Missing, ", "))
}

// Is makes errors.Is(err, ErrSchema) hold.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

// EmptyCorpusError reports a source with no usable rows after cleaning.
type EmptyCorpusError struct {
	Source string
	Stats  LoadStats
}

func (e *EmptyCorpusError) Error() string {
	return fmt.Sprintf("%s: no usable rows after cleaning (read %d, missing features %d, duplicates %d)",
		e.Source, e.Stats.RowsRead, e.Stats.DroppedMissing, e.Stats.DroppedDuplicate)
}

// Is makes errors.Is(err, index.ErrEmptyCorpus) hold, so callers test one
// sentinel whether the loader or the index noticed the empty corpus.
func (e *EmptyCorpusError) Is(target error) bool {
	return target == index.ErrEmptyCorpus
}
