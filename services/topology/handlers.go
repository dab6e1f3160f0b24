// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package topology

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/azimuthlabs/topograph/services/topology/azure"
	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// Handlers contains the HTTP handlers for the topology service.
type Handlers struct {
	svc *Service
}

// NewHandlers creates handlers for the given service.
func NewHandlers(svc *Service) *Handlers {
	return &Handlers{svc: svc}
}

// getOrCreateRequestID returns the inbound X-Request-ID or generates one.
func getOrCreateRequestID(c *gin.Context) string {
	if id := c.GetHeader("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// writeError maps a service error to a status code and error payload.
//
// NotFound and fetch failures are the two user-reportable failure
// classes; everything else is an internal error.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	statusCode := http.StatusInternalServerError
	errCode := "INTERNAL_ERROR"

	switch {
	case errors.Is(err, graph.ErrResourceNotFound):
		statusCode = http.StatusNotFound
		errCode = "RESOURCE_NOT_FOUND"
	case errors.Is(err, azure.ErrFetchFailed):
		statusCode = http.StatusBadGateway
		errCode = "FETCH_FAILED"
	case errors.Is(err, ErrUnknownFormat):
		statusCode = http.StatusBadRequest
		errCode = "UNKNOWN_FORMAT"
	case errors.Is(err, ErrNoSubscriptions):
		statusCode = http.StatusServiceUnavailable
		errCode = "NO_SUBSCRIPTIONS"
	}

	logger.Error("Request failed", "error", err, "code", errCode)
	c.JSON(statusCode, ErrorResponse{Error: err.Error(), Code: errCode})
}

// missingParam writes a 400 for an absent required query parameter.
func missingParam(c *gin.Context, name string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: "missing required query parameter: " + name,
		Code:  "MISSING_PARAMETER",
	})
}

// HandleSearch handles GET /v1/topology/search?q=&type=.
//
// An empty q matches every resource; type narrows matches to resources
// whose type contains the filter substring.
func (h *Handlers) HandleSearch(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleSearch")

	query := c.Query("q")
	typeFilter := c.Query("type")

	resources, err := h.svc.Search(c.Request.Context(), query, typeFilter)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Search completed", "query", query, "type_filter", typeFilter, "matches", len(resources))
	c.JSON(http.StatusOK, SearchResponse{Count: len(resources), Resources: resources})
}

// HandleResource handles GET /v1/topology/resource?id=.
//
// The resource ID is passed as a query parameter because Azure resource
// IDs contain slashes.
func (h *Handlers) HandleResource(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleResource")

	id := c.Query("id")
	if id == "" {
		missingParam(c, "id")
		return
	}

	node, err := h.svc.GetResource(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, node)
}

// HandleNeighbors handles GET /v1/topology/neighbors?id=.
func (h *Handlers) HandleNeighbors(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleNeighbors")

	id := c.Query("id")
	if id == "" {
		missingParam(c, "id")
		return
	}

	node, neighbors, err := h.svc.GetNeighbors(c.Request.Context(), id)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, NeighborsResponse{
		Resource:  node,
		Count:     len(neighbors),
		Neighbors: neighbors,
	})
}

// HandlePath handles GET /v1/topology/path?from=&to=.
//
// A disconnected pair yields found=false with an empty path and status
// 200; "no path" is a result, not an error.
func (h *Handlers) HandlePath(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandlePath")

	from := c.Query("from")
	if from == "" {
		missingParam(c, "from")
		return
	}
	to := c.Query("to")
	if to == "" {
		missingParam(c, "to")
		return
	}

	path, err := h.svc.FindPath(c.Request.Context(), from, to)
	if err != nil {
		writeError(c, logger, err)
		return
	}

	resp := PathResponse{Found: len(path) > 0, Path: path}
	if resp.Found {
		resp.Hops = len(path) - 1
	}

	logger.Info("Path query completed", "from", from, "to", to, "found", resp.Found, "hops", resp.Hops)
	c.JSON(http.StatusOK, resp)
}

// HandleExport handles GET /v1/topology/export?format=json|summary.
func (h *Handlers) HandleExport(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleExport")

	result, err := h.svc.Export(c.Request.Context(), c.Query("format"))
	if err != nil {
		writeError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleRefresh handles POST /v1/topology/refresh.
func (h *Handlers) HandleRefresh(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	logger := slog.With("request_id", requestID, "handler", "HandleRefresh")

	logger.Info("Refreshing topology")
	resp, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		writeError(c, logger, err)
		return
	}

	logger.Info("Topology refreshed", "nodes", resp.Nodes, "edges", resp.Edges)
	c.JSON(http.StatusOK, resp)
}

// HandleTools handles GET /v1/topology/tools.
func (h *Handlers) HandleTools(c *gin.Context) {
	tools := toolDefinitions()
	c.JSON(http.StatusOK, ToolsResponse{Count: len(tools), Tools: tools})
}

// HandleHealth handles GET /v1/topology/health.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:  "ok",
		Version: ServiceVersion,
		Cache:   h.svc.CacheStats(),
	})
}

// HandleReady handles GET /v1/topology/ready.
func (h *Handlers) HandleReady(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ready": true})
}

// toolDefinitions lists the operations exposed to calling agents.
func toolDefinitions() []ToolInfo {
	return []ToolInfo{
		{
			Name:        "search",
			Description: "Search resources by name, type, resource group, location, or tag value substring",
			Method:      http.MethodGet,
			Path:        "/v1/topology/search",
		},
		{
			Name:        "get_resource",
			Description: "Get a single resource by its fully qualified ID",
			Method:      http.MethodGet,
			Path:        "/v1/topology/resource",
		},
		{
			Name:        "get_neighbors",
			Description: "List every resource directly related to the given resource",
			Method:      http.MethodGet,
			Path:        "/v1/topology/neighbors",
		},
		{
			Name:        "find_path",
			Description: "Find the shortest relationship path between two resources",
			Method:      http.MethodGet,
			Path:        "/v1/topology/path",
		},
		{
			Name:        "export_topology",
			Description: "Export the full topology graph or a summary",
			Method:      http.MethodGet,
			Path:        "/v1/topology/export",
		},
		{
			Name:        "refresh_topology",
			Description: "Invalidate the cached topology and rebuild it from Azure",
			Method:      http.MethodPost,
			Path:        "/v1/topology/refresh",
		},
	}
}
