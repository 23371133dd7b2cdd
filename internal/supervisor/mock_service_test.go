// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

// mockService fails its first failFirst runs, then blocks until canceled.
type mockService struct {
	name      string
	failFirst int32
	starts    atomic.Int32
}

func (m *mockService) Serve(ctx context.Context) error {
	if n := m.starts.Add(1); n <= m.failFirst {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string {
	return m.name
}
