// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"github.com/azimuthlabs/topograph/services/topology/cache"
	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// ServiceVersion is the topograph service version.
const ServiceVersion = "0.1.0"

// Export formats accepted by Export.
const (
	// FormatJSON returns the full current graph verbatim.
	FormatJSON = "json"

	// FormatSummary returns the derived overview. Default.
	FormatSummary = "summary"
)

// SearchResponse is the result of a search query.
type SearchResponse struct {
	Count     int           `json:"count"`
	Resources []*graph.Node `json:"resources"`
}

// NeighborsResponse is the result of a neighbor lookup: the anchor
// resource plus every directly connected resource.
type NeighborsResponse struct {
	Resource  *graph.Node   `json:"resource"`
	Count     int           `json:"count"`
	Neighbors []*graph.Node `json:"neighbors"`
}

// PathResponse is the result of a shortest-path query. Found is false
// when the endpoints are disconnected; that is a normal result, not an
// error.
type PathResponse struct {
	Found bool          `json:"found"`
	Hops  int           `json:"hops"`
	Path  []*graph.Node `json:"path"`
}

// RefreshResponse reports the counts of the freshly rebuilt graph.
type RefreshResponse struct {
	Nodes int `json:"nodes"`
	Edges int `json:"edges"`
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status  string      `json:"status"`
	Version string      `json:"version"`
	Cache   cache.Stats `json:"cache"`
}

// ErrorResponse is the standard error payload.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToolInfo describes one operation exposed by the tool surface.
type ToolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Method      string `json:"method"`
	Path        string `json:"path"`
}

// ToolsResponse lists the available tools for discovery.
type ToolsResponse struct {
	Count int        `json:"count"`
	Tools []ToolInfo `json:"tools"`
}
