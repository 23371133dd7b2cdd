// Trackrec - Content-Based Track Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/trackrec

package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"runtime"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomtom215/trackrec/internal/api"
	"github.com/tomtom215/trackrec/internal/config"
	"github.com/tomtom215/trackrec/internal/logging"
	"github.com/tomtom215/trackrec/internal/metrics"
	"github.com/tomtom215/trackrec/internal/supervisor"
	"github.com/tomtom215/trackrec/internal/supervisor/services"
)

func newServeCommand(a *app) *cobra.Command {
	defaults := config.Defaults()

	cmd := &cobra.Command{
		Use:   "serve [data-path]",
		Short: "Serve recommendations over HTTP",
		Long: `Serve recommendations over HTTP.

The dataset is loaded and fitted in the background; /api/v1/health answers
503 until the first fit succeeds. With --reload-interval the dataset is
re-read and the engine refitted on that period.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(cmd, firstArg(args)); err != nil {
				return err
			}
			return a.serve(cmd.Context())
		},
	}

	f := cmd.Flags()
	f.String("host", defaults.Server.Host, "listen host")
	f.Int("port", defaults.Server.Port, "listen port")
	f.Duration("reload-interval", defaults.Server.ReloadInterval, "refit period; 0 fits once")
	f.Int("top", defaults.Output.Top, "default result count when a request omits n")
	addEngineFlags(cmd)

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	src, err := a.source()
	if err != nil {
		return err
	}
	runner, engine, err := a.runner()
	if err != nil {
		return err
	}
	logger := *a.logger
	sc := a.cfg.Server

	metrics.SetAppInfo(version, runtime.Version())

	mwConfig := api.DefaultChiMiddlewareConfig()
	mwConfig.CORSAllowedOrigins = sc.CORSOrigins
	mwConfig.RateLimitRequests = sc.RateLimitRequests
	mwConfig.RateLimitWindow = sc.RateLimitWindow
	handler := api.NewHandler(engine, logger, version, a.cfg.Output.Top)

	addr := net.JoinHostPort(sc.Host, strconv.Itoa(sc.Port))
	server := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, mwConfig).SetupChi(),
		ReadTimeout:       sc.ReadTimeout,
		ReadHeaderTimeout: sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(logger), supervisor.TreeConfig{
		ShutdownTimeout: sc.ShutdownTimeout,
	})
	tree.AddEngineService(services.NewFitService(runner, services.FitServiceConfig{
		Source:         src,
		Load:           a.loadOptions(),
		ReloadInterval: sc.ReloadInterval,
	}, logger))
	tree.AddAPIService(services.NewHTTPServerService(server, addr, sc.ShutdownTimeout, logger))

	logger.Info().
		Str("addr", addr).
		Str("dataset", src.Name()).
		Str("metric", a.cfg.Engine.Metric).
		Str("index", a.cfg.Engine.Index).
		Str("version", version).
		Msg("Starting trackrec server")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop in time")
		}
	}
	logger.Info().Msg("Server stopped")
	return nil
}
