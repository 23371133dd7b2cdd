// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

/*
Package services provides suture.Service wrappers for trackrec components.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern and implements fmt.Stringer so suture events name it.

FitService loads the dataset and fits the recommendation engine, then
optionally refits on ReloadInterval. Its first fit must succeed; a failure
is returned to the supervisor, which restarts the service with backoff.

HTTPServerService runs the API server and shuts it down gracefully when
its context is canceled.
*/
package services
