// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"sort"
	"strings"
)

// Search returns every node matching the query, in graph node order.
//
// # Description
//
// Performs case-insensitive substring matching of query against each
// node's name, type, resource group, location, and tag values (not
// keys). A node matches if any one of these contains the query; the
// empty query matches every node. If typeFilter is non-empty the node's
// type must additionally contain it (case-insensitive).
//
// Results keep the graph's insertion order; there is no ranking.
func (g *Graph) Search(query, typeFilter string) []*Node {
	q := strings.ToLower(query)
	tf := strings.ToLower(typeFilter)

	matches := make([]*Node, 0)
	for _, n := range g.Nodes {
		if tf != "" && !strings.Contains(strings.ToLower(n.Type), tf) {
			continue
		}
		if nodeMatches(n, q) {
			matches = append(matches, n)
		}
	}
	return matches
}

// nodeMatches reports whether the node contains the lowercased query in
// any searchable field.
func nodeMatches(n *Node, q string) bool {
	if q == "" {
		return true
	}
	for _, field := range []string{n.Name, n.Type, n.ResourceGroup, n.Location} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	for _, v := range n.Tags {
		if strings.Contains(strings.ToLower(v), q) {
			return true
		}
	}
	return false
}

// Neighbors returns the node with the given ID and every node connected
// to it by at least one edge, in graph node order.
//
// Edges are traversed as undirected: an edge contributes its other
// endpoint whether the anchor is source or target. Multiple edges to
// the same neighbor yield one entry.
//
// Returns a ResourceNotFoundError if the ID is absent from the graph.
func (g *Graph) Neighbors(id string) (*Node, []*Node, error) {
	anchor := g.NodeByID(id)
	if anchor == nil {
		return nil, nil, &ResourceNotFoundError{ID: id}
	}

	neighborIDs := make(map[string]struct{})
	for _, e := range g.Edges {
		switch id {
		case e.SourceID:
			neighborIDs[e.TargetID] = struct{}{}
		case e.TargetID:
			neighborIDs[e.SourceID] = struct{}{}
		}
	}

	neighbors := make([]*Node, 0, len(neighborIDs))
	for _, n := range g.Nodes {
		if _, ok := neighborIDs[n.ID]; ok {
			neighbors = append(neighbors, n)
		}
	}
	return anchor, neighbors, nil
}

// FindPath returns the shortest path between two resources as an
// ordered node sequence from source to target inclusive.
//
// # Description
//
// Performs unweighted breadth-first search over the edge set treated as
// undirected, so the first path found is shortest in hop count. The
// frontier holds whole paths and is extended one hop at a time; visited
// IDs are tracked to avoid cycles. Among equal-length paths the
// tie-break is deterministic: edges are enumerated in the graph's edge
// insertion order, and the path reached first wins.
//
// # Outputs
//
//   - []*Node: The path, sourceID == targetID yields a single-element
//     path. Empty (non-nil) if the nodes are disconnected — "no path"
//     is a normal result, not an error.
//   - error: ResourceNotFoundError if either endpoint is absent.
func (g *Graph) FindPath(sourceID, targetID string) ([]*Node, error) {
	source := g.NodeByID(sourceID)
	if source == nil {
		return nil, &ResourceNotFoundError{ID: sourceID}
	}
	if g.NodeByID(targetID) == nil {
		return nil, &ResourceNotFoundError{ID: targetID}
	}

	if sourceID == targetID {
		return []*Node{source}, nil
	}

	visited := map[string]bool{sourceID: true}
	queue := [][]string{{sourceID}}

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		last := path[len(path)-1]

		for _, e := range g.Edges {
			var next string
			switch last {
			case e.SourceID:
				next = e.TargetID
			case e.TargetID:
				next = e.SourceID
			default:
				continue
			}

			if visited[next] {
				continue
			}
			visited[next] = true

			extended := append(append(make([]string, 0, len(path)+1), path...), next)
			if next == targetID {
				return g.resolvePath(extended), nil
			}
			queue = append(queue, extended)
		}
	}

	return []*Node{}, nil
}

// resolvePath maps a sequence of node IDs to nodes.
func (g *Graph) resolvePath(ids []string) []*Node {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		nodes = append(nodes, g.nodesByID[id])
	}
	return nodes
}

// Summarize computes the derived overview of the graph: sorted,
// deduplicated lists of distinct resource types, subscriptions, and
// resource groups, plus node and edge counts. Read-only; the graph is
// never mutated.
func (g *Graph) Summarize() *Summary {
	types := make(map[string]struct{})
	subs := make(map[string]struct{})
	groups := make(map[string]struct{})
	for _, n := range g.Nodes {
		types[n.Type] = struct{}{}
		subs[n.SubscriptionID] = struct{}{}
		groups[n.ResourceGroup] = struct{}{}
	}

	return &Summary{
		NodeCount:      len(g.Nodes),
		EdgeCount:      len(g.Edges),
		ResourceTypes:  sortedKeys(types),
		Subscriptions:  sortedKeys(subs),
		ResourceGroups: sortedKeys(groups),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
