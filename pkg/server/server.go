/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dburkart/wizard/pkg/query"
	"github.com/dburkart/wizard/pkg/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const (
	DefaultPort        = 8050
	DefaultMetricsPort = 2112
	DefaultPlotsDir    = "data/plots"

	maxBodyBytes = 64 << 20
)

type Config struct {
	Port        int
	MetricsPort int
	PlotsDir    string
	PageSize    int
}

type Server struct {
	log     zerolog.Logger
	metrics MetricsStore

	store       store.Store
	port        int
	metricsPort int
	plotsDir    string
	pageSize    int
}

func New(log zerolog.Logger, st store.Store, cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if cfg.MetricsPort == 0 {
		cfg.MetricsPort = DefaultMetricsPort
	}
	if cfg.PlotsDir == "" {
		cfg.PlotsDir = DefaultPlotsDir
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = query.DefaultPageSize
	}

	metrics := NewMetricsStore()
	metrics.RegisterCollector(NewStoreStatsCollector(st))

	return &Server{
		log:         log,
		metrics:     metrics,
		store:       st,
		port:        cfg.Port,
		metricsPort: cfg.MetricsPort,
		plotsDir:    cfg.PlotsDir,
		pageSize:    cfg.PageSize,
	}
}

func (s *Server) Metrics() MetricsStore {
	return s.metrics
}

// Handler returns the dashboard and its JSON API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /api/files", s.handleListFiles)
	mux.HandleFunc("POST /api/files", s.handleUpload)
	mux.HandleFunc("GET /download/{name}", s.handleDownload)
	mux.HandleFunc("GET /api/datasets/{name}", s.handleTable)
	mux.HandleFunc("GET /api/datasets/{name}/widgets", s.handleWidgets)
	mux.HandleFunc("GET /api/datasets/{name}/widgets/{column}", s.handleWidget)
	mux.HandleFunc("POST /api/datasets/{name}/query", s.handleQuery)
	mux.HandleFunc("POST /api/datasets/{name}/figure", s.handleFigure)
	mux.HandleFunc("POST /api/datasets/{name}/figure/save", s.handleSave)

	return s.withRecovery(withRequestID(s.withObservation(mux)))
}

// ListenAndServe serves the dashboard until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.log.Info().Int("port", s.port).Msg("serving dashboard")
	return s.serve(ctx, s.port, s.Handler())
}

// ServeMetrics serves /metrics until ctx is cancelled.
func (s *Server) ServeMetrics(ctx context.Context) error {
	s.log.Info().Int("port", s.metricsPort).Msg("/metrics endpoint started")

	mux := http.NewServeMux()
	mux.Handle("/metrics", s.metrics.Handler())
	return s.serve(ctx, s.metricsPort, mux)
}

func (s *Server) serve(ctx context.Context, port int, h http.Handler) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrapf(err, "listening on port %d", port)
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return errors.Wrap(err, "shutting down")
	}
	return nil
}
