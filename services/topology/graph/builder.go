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
	"strings"
	"time"
)

// Resource type tags the inference rules trigger on. Comparisons are
// case-insensitive because provider APIs mix case.
const (
	typeVirtualMachine = "microsoft.compute/virtualmachines"
	typeVirtualNetwork = "microsoft.network/virtualnetworks"
	typeSubnet         = "microsoft.network/virtualnetworks/subnets"
)

// RawResource is the flat resource record a graph is built from. It
// mirrors the fetcher's wire shape field by field so any fetcher
// implementation can feed the builder.
type RawResource struct {
	ID             string
	Type           string
	Name           string
	SubscriptionID string
	ResourceGroup  string
	Location       string
	Tags           map[string]string
	Properties     map[string]any
}

// Build constructs a complete topology graph from one fetch pass.
//
// # Description
//
// Creates one node per resource in input order, then runs the
// relationship inference rules per node, in node order:
//
//  1. Resource-group co-membership: every other node in the same
//     resource group yields a resource-group edge. The node loop is
//     symmetric, so each unordered pair produces both A→B and B→A;
//     the (source, target, type) triple is deduplicated.
//  2. Type-specific rules: virtual machines link to the network
//     interfaces referenced in their property document; virtual
//     networks link to their subnets by resource ID containment.
//
// A failure while inferring one node's relationships is recovered,
// logged, and does not abort the build — the remaining nodes still get
// their edges.
//
// # Inputs
//
//   - ctx: Context for metric recording. Must not be nil.
//   - resources: Raw records in fetch order.
//
// # Outputs
//
//   - *Graph: The built snapshot. Never nil.
//
// # Thread Safety
//
// Safe for concurrent use. The returned Graph is immutable.
func Build(ctx context.Context, resources []RawResource) *Graph {
	start := time.Now()

	g := &Graph{
		Nodes:     make([]*Node, 0, len(resources)),
		nodesByID: make(map[string]*Node, len(resources)),
	}

	for _, r := range resources {
		if r.ID == "" {
			slog.Warn("Skipping resource without ID", "name", r.Name, "type", r.Type)
			continue
		}
		if _, exists := g.nodesByID[r.ID]; exists {
			// Node IDs are unique within a graph; first record wins.
			slog.Warn("Skipping duplicate resource ID", "resource_id", r.ID)
			continue
		}
		node := &Node{
			ID:             r.ID,
			Type:           r.Type,
			Name:           r.Name,
			SubscriptionID: r.SubscriptionID,
			ResourceGroup:  r.ResourceGroup,
			Location:       r.Location,
			Tags:           r.Tags,
			Properties:     r.Properties,
		}
		g.Nodes = append(g.Nodes, node)
		g.nodesByID[node.ID] = node
	}

	inferRelationships(g)

	recordBuild(ctx, time.Since(start), len(g.Nodes), len(g.Edges))
	slog.Info("Built topology graph",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"duration_ms", time.Since(start).Milliseconds())

	return g
}

// edgeKey identifies an edge for triple deduplication.
type edgeKey struct {
	source string
	target string
	kind   EdgeType
}

// inferRelationships derives all edges for the graph's nodes.
//
// Edges are appended in a deterministic order: per node in node order,
// resource-group edges first (in group-member node order), then the
// node's type-specific edges. FindPath relies on this order for its
// tie-break.
func inferRelationships(g *Graph) {
	// Resource-group index preserves node order within each group.
	// Equivalent edge set to the quadratic per-node scan, without the
	// full O(n²) comparisons.
	groups := make(map[string][]*Node)
	for _, n := range g.Nodes {
		groups[n.ResourceGroup] = append(groups[n.ResourceGroup], n)
	}

	seen := make(map[edgeKey]struct{})
	addEdge := func(source, target string, kind EdgeType) {
		key := edgeKey{source: source, target: target, kind: kind}
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		g.Edges = append(g.Edges, &Edge{SourceID: source, TargetID: target, Type: kind})
	}

	for _, n := range g.Nodes {
		inferNode(g, n, groups[n.ResourceGroup], addEdge)
	}
}

// inferNode runs both inference phases for one node, isolating failures
// so a single malformed resource cannot poison the whole build.
func inferNode(g *Graph, n *Node, groupMembers []*Node, addEdge func(string, string, EdgeType)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Relationship inference failed for resource",
				"resource_id", n.ID,
				"error", r)
		}
	}()

	// Phase 1: resource-group co-membership.
	for _, other := range groupMembers {
		if other.ID == n.ID {
			continue
		}
		addEdge(n.ID, other.ID, EdgeResourceGroup)
	}

	// Phase 2: type-specific rules.
	switch {
	case strings.EqualFold(n.Type, typeVirtualMachine):
		for _, nicID := range networkInterfaceIDs(n.Properties) {
			if g.nodesByID[nicID] == nil {
				continue
			}
			addEdge(n.ID, nicID, EdgeNetworkInterface)
		}

	case strings.EqualFold(n.Type, typeVirtualNetwork):
		for _, candidate := range groupMembers {
			if !strings.EqualFold(candidate.Type, typeSubnet) {
				continue
			}
			// Subnet IDs are a path extension of their parent VNet ID.
			if !strings.HasPrefix(candidate.ID, n.ID+"/") {
				continue
			}
			addEdge(n.ID, candidate.ID, EdgeSubnet)
		}
	}
}

// networkInterfaceIDs extracts the NIC resource IDs referenced by a
// virtual machine's property document.
//
// The document is untyped, so every step is an optional lookup: a
// missing or malformed path returns no references rather than failing
// the build.
func networkInterfaceIDs(properties map[string]any) []string {
	profile, ok := properties["networkProfile"].(map[string]any)
	if !ok {
		return nil
	}
	refs, ok := profile["networkInterfaces"].([]any)
	if !ok {
		return nil
	}

	var ids []string
	for _, ref := range refs {
		fields, ok := ref.(map[string]any)
		if !ok {
			continue
		}
		if id, ok := fields["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
