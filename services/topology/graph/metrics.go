// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Package-level meter for topology build operations.
var meter = otel.Meter("topograph.graph")

// Metrics for graph building.
var (
	buildLatency metric.Float64Histogram
	buildTotal   metric.Int64Counter
	nodesBuilt   metric.Int64Histogram
	edgesBuilt   metric.Int64Histogram

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		buildLatency, err = meter.Float64Histogram(
			"topology_build_duration_seconds",
			metric.WithDescription("Duration of topology build operations"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		buildTotal, err = meter.Int64Counter(
			"topology_build_total",
			metric.WithDescription("Total number of topology build operations"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		nodesBuilt, err = meter.Int64Histogram(
			"topology_nodes_built",
			metric.WithDescription("Number of nodes per built graph"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		edgesBuilt, err = meter.Int64Histogram(
			"topology_edges_built",
			metric.WithDescription("Number of edges per built graph"),
		)
		if err != nil {
			metricsErr = err
		}
	})
	return metricsErr
}

// recordBuild records one build pass. Metric failures are logged and
// otherwise ignored; telemetry never fails a build.
func recordBuild(ctx context.Context, elapsed time.Duration, nodes, edges int) {
	if err := initMetrics(); err != nil {
		slog.Debug("Topology metrics unavailable", "error", err)
		return
	}

	buildLatency.Record(ctx, elapsed.Seconds())
	buildTotal.Add(ctx, 1)
	nodesBuilt.Record(ctx, int64(nodes))
	edgesBuilt.Record(ctx, int64(edges))
}
