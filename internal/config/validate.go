// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package config

import (
	"fmt"

	"github.com/tomtom215/trackrec/internal/logging"
	"github.com/tomtom215/trackrec/internal/validation"
)

// Validate checks field constraints and the rules that span fields.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not a known level", c.Logging.Level)
	}
	if c.Engine.Index == "kdtree" && c.Engine.Metric == "manhattan" {
		return fmt.Errorf("engine.index kdtree does not support metric manhattan")
	}
	if c.Output.Top > c.Engine.MaxN {
		return fmt.Errorf("output.top (%d) exceeds engine.max_n (%d)", c.Output.Top, c.Engine.MaxN)
	}
	return nil
}

// RequireDataset reports an error when no dataset path is configured.
// Only commands that load tracks call it; Validate alone accepts an empty path.
func (c *Config) RequireDataset() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required (positional argument, --data or TRACKREC_DATA_PATH)")
	}
	return nil
}
