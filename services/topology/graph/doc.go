// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package graph holds the topology graph model, the relationship
// inference rules, and the query operations over a built graph.
//
// A graph is an immutable snapshot: Build turns one fetch pass of raw
// resource records into nodes (fetch order preserved) and inferred
// edges (resource-group co-membership, VM→NIC attachment, VNet→subnet
// containment). Queries — substring search, neighbor expansion, BFS
// shortest path, summarization — run synchronously against the
// snapshot and never mutate it.
//
// # Thread Safety
//
// Build is safe for concurrent use; built graphs are safe for
// concurrent reads.
package graph
