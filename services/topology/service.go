// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package topology provides the topograph HTTP service: an in-memory
// topology graph of Azure resources with structural query operations.
//
// The service exposes endpoints for:
//   - Searching resources by substring
//   - Resource and neighbor lookup
//   - Shortest-path queries between two resources
//   - Exporting the graph or a summary
//   - Forcing a topology refresh
package topology

import (
	"context"
	"time"

	"github.com/azimuthlabs/topograph/services/topology/azure"
	"github.com/azimuthlabs/topograph/services/topology/cache"
	"github.com/azimuthlabs/topograph/services/topology/config"
	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// Service wires the resource fetcher, the topology cache, and the graph
// query operations together. One method per exposed tool.
//
// # Thread Safety
//
// Service is safe for concurrent use. Query methods obtain a graph
// snapshot from the cache and run synchronously against it; only a
// cache miss touches the network.
type Service struct {
	fetcher       azure.Fetcher
	subscriptions []string
	cache         *cache.Cache
}

// NewService creates a service for the given fetcher and configuration.
func NewService(fetcher azure.Fetcher, cfg config.Config) *Service {
	svc := &Service{
		fetcher:       fetcher,
		subscriptions: cfg.Subscriptions,
	}
	svc.cache = cache.New(svc.buildGraph, cache.WithTTL(time.Duration(cfg.CacheTTL)))
	return svc
}

// buildGraph is the cache's BuildFunc: one full fetch followed by one
// full inference pass. Fetch failures propagate verbatim; nothing
// partial is ever cached.
func (s *Service) buildGraph(ctx context.Context) (*graph.Graph, error) {
	if len(s.subscriptions) == 0 {
		return nil, ErrNoSubscriptions
	}
	resources, err := s.fetcher.FetchAll(ctx, s.subscriptions)
	if err != nil {
		return nil, err
	}
	return graph.Build(ctx, resources), nil
}

// Search finds resources whose name, type, resource group, location, or
// tag values contain the query substring (case-insensitive), optionally
// narrowed by a type filter substring.
func (s *Service) Search(ctx context.Context, query, typeFilter string) ([]*graph.Node, error) {
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return g.Search(query, typeFilter), nil
}

// GetResource returns the resource with the given ID.
func (s *Service) GetResource(ctx context.Context, id string) (*graph.Node, error) {
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	node := g.NodeByID(id)
	if node == nil {
		return nil, &graph.ResourceNotFoundError{ID: id}
	}
	return node, nil
}

// GetNeighbors returns the resource and every resource connected to it
// by at least one relationship.
func (s *Service) GetNeighbors(ctx context.Context, id string) (*graph.Node, []*graph.Node, error) {
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, nil, err
	}
	return g.Neighbors(id)
}

// FindPath returns the shortest relationship path between two
// resources, empty when they are disconnected.
func (s *Service) FindPath(ctx context.Context, sourceID, targetID string) ([]*graph.Node, error) {
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return g.FindPath(sourceID, targetID)
}

// Export returns the full graph (FormatJSON) or its derived summary
// (FormatSummary, also the default for an empty format).
func (s *Service) Export(ctx context.Context, format string) (any, error) {
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return g, nil
	case FormatSummary, "":
		return g.Summarize(), nil
	default:
		return nil, ErrUnknownFormat
	}
}

// Refresh invalidates the cached graph and rebuilds it immediately,
// returning the new counts.
func (s *Service) Refresh(ctx context.Context) (*RefreshResponse, error) {
	s.cache.Invalidate()
	g, err := s.cache.Get(ctx)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{Nodes: g.NodeCount(), Edges: g.EdgeCount()}, nil
}

// CacheStats returns the topology cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
