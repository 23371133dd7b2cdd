// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

/*
Package supervisor runs the long-lived parts of `trackrec serve` under a
suture v4 supervisor tree.

	trackrec
	├── engine-layer
	│   └── FitService        load dataset, fit, optional periodic refit
	└── api-layer
	    └── HTTPServerService chi router on the configured address

Crashed services restart with suture's backoff. The engine is shared between
the layers through its atomic model pointer, so the API keeps serving the
previous model while a refit runs.

Suture events go to the zerolog logger through sutureslog and the
logging.SlogHandler adapter:

	tree := supervisor.NewTree(logging.NewSlogLogger(logger), supervisor.DefaultTreeConfig())
	tree.AddEngineService(services.NewFitService(runner, fitCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, timeout, logger))
	err := tree.Serve(ctx)

Shutdown is driven by context cancellation; the CLI cancels on SIGINT or
SIGTERM.
*/
package supervisor
