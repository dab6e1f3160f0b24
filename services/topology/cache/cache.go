// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package cache owns the single current topology graph snapshot and its
// rebuild lifecycle.
package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// BuildFunc produces a fresh topology graph. It is the only operation
// in the cache that touches the network.
type BuildFunc func(ctx context.Context) (*graph.Graph, error)

// flightKey is the singleflight key; there is only one graph slot.
const flightKey = "topology"

// Cache holds the current topology graph, its build timestamp, and the
// TTL policy governing rebuilds.
//
// # Description
//
// Get serves the cached graph while it is fresh and otherwise performs
// a full rebuild through the BuildFunc. Rebuilds are guarded by a
// singleflight group so concurrent cache-miss callers share one build
// instead of issuing duplicate fetches. Replacement of the current
// graph is all-or-nothing: callers never observe a graph whose
// inference pass is incomplete, and a failed build leaves the previous
// cache state untouched.
//
// # Thread Safety
//
// Cache is safe for concurrent use.
type Cache struct {
	build BuildFunc
	opts  Options

	mu      sync.RWMutex
	current *graph.Graph
	builtAt time.Time

	flight singleflight.Group

	// Stats
	hits      int64
	misses    int64
	builds    int64
	buildErrs int64
}

// New creates a cache around the given build function.
func New(build BuildFunc, opts ...Option) *Cache {
	options := DefaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return &Cache{build: build, opts: options}
}

// Get returns the current graph, rebuilding it first if the cache is
// empty or the TTL has elapsed.
//
// # Inputs
//
//   - ctx: Context for the fetch. Cancellation of an in-flight rebuild
//     is not supported; joining callers wait for completion or failure.
//
// # Outputs
//
//   - *graph.Graph: The current snapshot. Two calls inside one TTL
//     window return the identical graph value.
//   - error: The build error, propagated verbatim. The previous graph
//     (if any) is retained and the next Get retries the build.
func (c *Cache) Get(ctx context.Context) (*graph.Graph, error) {
	if g := c.fresh(); g != nil {
		atomic.AddInt64(&c.hits, 1)
		return g, nil
	}
	atomic.AddInt64(&c.misses, 1)

	result, err, _ := c.flight.Do(flightKey, func() (any, error) {
		// A concurrent caller may have completed a build while we
		// waited on the flight group.
		if g := c.fresh(); g != nil {
			return g, nil
		}

		g, err := c.build(ctx)
		if err != nil {
			atomic.AddInt64(&c.buildErrs, 1)
			return nil, err
		}

		c.mu.Lock()
		c.current = g
		c.builtAt = c.opts.Now()
		c.mu.Unlock()
		atomic.AddInt64(&c.builds, 1)

		return g, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*graph.Graph), nil
}

// Invalidate unconditionally drops the current graph without fetching.
// The next Get performs a full rebuild.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
	c.builtAt = time.Time{}
}

// fresh returns the current graph if it exists and its TTL has not
// elapsed, nil otherwise.
func (c *Cache) fresh() *graph.Graph {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil
	}
	if c.opts.Now().Sub(c.builtAt) >= c.opts.TTL {
		return nil
	}
	return c.current
}

// Stats is a point-in-time snapshot of cache counters.
type Stats struct {
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Builds      int64     `json:"builds"`
	BuildErrors int64     `json:"buildErrors"`
	BuiltAt     time.Time `json:"builtAt,omitzero"`
}

// Stats returns current cache statistics.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	builtAt := c.builtAt
	c.mu.RUnlock()

	return Stats{
		Hits:        atomic.LoadInt64(&c.hits),
		Misses:      atomic.LoadInt64(&c.misses),
		Builds:      atomic.LoadInt64(&c.builds),
		BuildErrors: atomic.LoadInt64(&c.buildErrs),
		BuiltAt:     builtAt,
	}
}
