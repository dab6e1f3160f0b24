// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

// EdgeType is the relationship type of an inferred edge.
//
// The tag set is closed: new relationship kinds are added by writing a
// new inference rule, not by extending the model.
type EdgeType string

const (
	// EdgeResourceGroup links two resources in the same resource group.
	// Deliberately coarse: it marks shared blast radius, not a network
	// or dependency relationship.
	EdgeResourceGroup EdgeType = "resource-group"

	// EdgeNetworkInterface links a virtual machine to an attached NIC.
	EdgeNetworkInterface EdgeType = "network-interface"

	// EdgeSubnet links a virtual network to one of its subnets.
	EdgeSubnet EdgeType = "subnet"
)

// Node represents one cloud resource in the topology.
//
// A Node is immutable once its graph is built. The ID is the sole
// identity key; there is no secondary key.
type Node struct {
	// ID is the fully qualified resource ID. Unique within a graph.
	ID string `json:"id"`

	// Type is the resource type tag. Provider APIs mix case, so all
	// type comparisons are case-insensitive.
	Type string `json:"type"`

	// Name is the resource display name.
	Name string `json:"name"`

	// SubscriptionID is the owning subscription.
	SubscriptionID string `json:"subscriptionId"`

	// ResourceGroup is the owning resource group.
	ResourceGroup string `json:"resourceGroup"`

	// Location is the Azure region.
	Location string `json:"location"`

	// Tags holds the user-assigned tags, if any.
	Tags map[string]string `json:"tags,omitempty"`

	// Properties is the untyped provider property document. It is read
	// only by the relationship inference rules.
	Properties map[string]any `json:"properties,omitempty"`
}

// Edge is a directed inferred relationship between two nodes.
//
// Edges are stored with direction but every query operation (neighbors,
// path search) traverses them as undirected.
type Edge struct {
	// SourceID is the node the relationship points from.
	SourceID string `json:"source"`

	// TargetID is the node the relationship points to.
	TargetID string `json:"target"`

	// Type is the relationship tag.
	Type EdgeType `json:"type"`
}

// Summary is the derived, read-only overview of a graph.
type Summary struct {
	NodeCount      int      `json:"nodeCount"`
	EdgeCount      int      `json:"edgeCount"`
	ResourceTypes  []string `json:"resourceTypes"`
	Subscriptions  []string `json:"subscriptions"`
	ResourceGroups []string `json:"resourceGroups"`
}
