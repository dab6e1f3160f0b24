// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all topology routes with the router.
//
// # Description
//
// Registers the /v1/topology/* endpoints with the given Gin router
// group. The router group should already have any required middleware
// applied.
//
// # Endpoints
//
//	GET  /v1/topology/search?q=&type=   - Substring search over resources
//	GET  /v1/topology/resource?id=      - Get one resource by ID
//	GET  /v1/topology/neighbors?id=     - List directly related resources
//	GET  /v1/topology/path?from=&to=    - Shortest relationship path
//	GET  /v1/topology/export?format=    - Full graph (json) or summary
//	POST /v1/topology/refresh           - Invalidate and rebuild
//	GET  /v1/topology/tools             - Tool discovery
//	GET  /v1/topology/health            - Health check
//	GET  /v1/topology/ready             - Readiness check
//
// # Example
//
//	svc := topology.NewService(fetcher, cfg)
//	handlers := topology.NewHandlers(svc)
//
//	v1 := router.Group("/v1")
//	topology.RegisterRoutes(v1, handlers)
func RegisterRoutes(rg *gin.RouterGroup, handlers *Handlers) {
	topo := rg.Group("/topology")
	{
		// Queries
		topo.GET("/search", handlers.HandleSearch)
		topo.GET("/resource", handlers.HandleResource)
		topo.GET("/neighbors", handlers.HandleNeighbors)
		topo.GET("/path", handlers.HandlePath)
		topo.GET("/export", handlers.HandleExport)

		// Lifecycle
		topo.POST("/refresh", handlers.HandleRefresh)

		// Discovery and health
		topo.GET("/tools", handlers.HandleTools)
		topo.GET("/health", handlers.HandleHealth)
		topo.GET("/ready", handlers.HandleReady)
	}
}
