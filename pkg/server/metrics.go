/*
 * Copyright (c) 2022, Gideon Williams <gideon@gideonw.com>
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsStore interface {
	Registry() *prometheus.Registry
	RegisterCollector(c prometheus.Collector)
	Handler() http.Handler

	// Collection
	IncRequests(route string, code int)
	ObserveResponseNS(route string, t int64)
	IncUploads()
	IncFigures(kind string)
}

type metricsStore struct {
	registry   *prometheus.Registry
	Requests   *prometheus.CounterVec
	ResponseNS *prometheus.HistogramVec
	Uploads    prometheus.Counter
	Figures    *prometheus.CounterVec
}

var (
	RouteLabel = "route"
	CodeLabel  = "code"
	KindLabel  = "kind"
)

func NewMetricsStore() MetricsStore {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(
			collectors.WithGoCollectorRuntimeMetrics(collectors.MetricsAll),
		),
	)

	// 5ms up to about 1.8s
	buckets := []float64{}
	for i := 1; i < 20; i++ {
		buckets = append(buckets, float64(i*i*int(5*time.Millisecond)))
	}

	factory := promauto.With(reg)
	return &metricsStore{
		registry: reg,
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_http_requests",
			Help: "Request counts by route and status code",
		}, []string{RouteLabel, CodeLabel}),
		ResponseNS: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "wizard_http_response_ns",
			Help:    "Response times by route",
			Buckets: buckets,
		}, []string{RouteLabel}),
		Uploads: factory.NewCounter(prometheus.CounterOpts{
			Name: "wizard_uploads",
			Help: "The total number of uploaded files",
		}),
		Figures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "wizard_figures",
			Help: "Rendered figures by chart kind",
		}, []string{KindLabel}),
	}
}

func (ms *metricsStore) Registry() *prometheus.Registry {
	return ms.registry
}

func (ms *metricsStore) RegisterCollector(c prometheus.Collector) {
	ms.registry.MustRegister(c)
}

func (ms *metricsStore) Handler() http.Handler {
	return promhttp.HandlerFor(ms.Registry(), promhttp.HandlerOpts{Registry: ms.Registry()})
}

func (ms *metricsStore) IncRequests(route string, code int) {
	ms.Requests.With(prometheus.Labels{RouteLabel: route, CodeLabel: strconv.Itoa(code)}).Inc()
}

func (ms *metricsStore) ObserveResponseNS(route string, t int64) {
	ms.ResponseNS.
		With(prometheus.Labels{RouteLabel: route}).
		Observe(float64(t))
}

func (ms *metricsStore) IncUploads() {
	ms.Uploads.Inc()
}

func (ms *metricsStore) IncFigures(kind string) {
	ms.Figures.With(prometheus.Labels{KindLabel: kind}).Inc()
}
