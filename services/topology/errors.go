// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import "errors"

// Sentinel errors for the topology service.
var (
	// ErrUnknownFormat indicates an unsupported export format.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNoSubscriptions indicates the service was configured without
	// any subscription IDs to fetch.
	ErrNoSubscriptions = errors.New("no subscriptions configured")
)
