// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"errors"
	"fmt"
)

// Sentinel errors for topology queries.
var (
	// ErrResourceNotFound indicates a resource ID is absent from the
	// current graph.
	ErrResourceNotFound = errors.New("resource not found")
)

// ResourceNotFoundError reports which resource ID was missing.
type ResourceNotFoundError struct {
	ID string
}

// Error implements the error interface.
func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %q not found in topology", e.ID)
}

// Unwrap returns the sentinel error.
func (e *ResourceNotFoundError) Unwrap() error {
	return ErrResourceNotFound
}
