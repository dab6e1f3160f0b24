// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package azure

import (
	"context"
	"errors"

	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// ErrFetchFailed indicates a resource fetch against the Azure APIs failed
// (network, auth, quota). Fetch failures are surfaced verbatim to the
// caller and are never retried automatically.
var ErrFetchFailed = errors.New("resource fetch failed")

// Fetcher supplies the flat ordered list of raw resources the topology
// is built from.
//
// # Description
//
// Implementations fetch every resource in the given subscriptions and
// return them in a stable order. The topology builder preserves this
// order, so two fetches of an unchanged environment produce the same
// node ordering.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use.
type Fetcher interface {
	// FetchAll returns all resources in the given subscriptions.
	// Errors wrap ErrFetchFailed.
	FetchAll(ctx context.Context, subscriptionIDs []string) ([]graph.RawResource, error)
}
