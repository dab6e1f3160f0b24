// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

// Graph is one immutable topology snapshot: an ordered node list plus
// the edges inferred from it.
//
// A Graph is produced atomically by a single Build pass and never
// mutated afterward. Refreshing the topology produces a wholly new
// Graph that replaces the previous one; there are no incremental
// updates.
//
// # Thread Safety
//
// Graph is safe for concurrent reads. It must not be modified after
// Build returns it.
type Graph struct {
	// Nodes in fetch order. Query results preserve this order.
	Nodes []*Node `json:"nodes"`

	// Edges in insertion order. Path search enumerates edges in this
	// order, which makes its tie-break among equal-length paths
	// deterministic.
	Edges []*Edge `json:"edges"`

	nodesByID map[string]*Node
}

// NodeByID returns the node with the given ID, or nil if absent.
func (g *Graph) NodeByID(id string) *Node {
	return g.nodesByID[id]
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// EdgesTouching returns every edge whose source or target is the given
// node ID, in edge insertion order.
func (g *Graph) EdgesTouching(id string) []*Edge {
	var touching []*Edge
	for _, e := range g.Edges {
		if e.SourceID == id || e.TargetID == id {
			touching = append(touching, e)
		}
	}
	return touching
}
