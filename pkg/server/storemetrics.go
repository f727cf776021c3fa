/*
 * Copyright (c) 2022, Gideon Williams gideon@gideonw.com
 *
 * SPDX-License-Identifier: BSD-2-Clause
 */

package server

import (
	"context"
	"time"

	"github.com/dburkart/wizard/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
)

type storeStatsCollector struct {
	store store.Store

	files *prometheus.Desc
	bytes *prometheus.Desc
}

func NewStoreStatsCollector(s store.Store) prometheus.Collector {
	return &storeStatsCollector{
		store: s,
		files: prometheus.NewDesc(
			"wizard_store_files",
			"Number of uploaded files.",
			nil, nil,
		),
		bytes: prometheus.NewDesc(
			"wizard_store_bytes",
			"Total size of uploaded files.",
			nil, nil,
		),
	}
}

// Describe implements Collector.
func (c *storeStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.files
	ch <- c.bytes
}

// Collect implements Collector.
func (c *storeStatsCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	infos, err := c.store.List(ctx)
	if err != nil {
		ch <- prometheus.NewInvalidMetric(c.files, err)
		return
	}

	var total int64
	for _, i := range infos {
		total += i.Size
	}
	ch <- prometheus.MustNewConstMetric(c.files, prometheus.GaugeValue, float64(len(infos)))
	ch <- prometheus.MustNewConstMetric(c.bytes, prometheus.GaugeValue, float64(total))
}
