// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package cache

import "time"

// DefaultTTL is how long a built graph is served before a rebuild.
const DefaultTTL = 5 * time.Minute

// Options configures cache behavior.
type Options struct {
	// TTL is the time-to-live of a built graph. A Get within the TTL
	// window returns the cached graph without fetching.
	TTL time.Duration

	// Now is the clock used for TTL checks. Injected for tests.
	Now func() time.Time
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{
		TTL: DefaultTTL,
		Now: time.Now,
	}
}

// Option is a functional option for configuring the cache.
type Option func(*Options)

// WithTTL sets the graph time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(o *Options) {
		o.TTL = ttl
	}
}

// WithClock sets the clock used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(o *Options) {
		o.Now = now
	}
}
