// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Command topograph starts the topology graph API server.
//
// Topograph maintains an in-memory topology graph of Azure resources
// (fetched through Azure Resource Graph) and answers structural queries
// against it: substring search, neighbor lookup, shortest path, and
// export. The graph is rebuilt from scratch on cold start and cache
// expiry; there is no persistence.
//
// Usage:
//
//	TOPOGRAPH_SUBSCRIPTIONS=sub-id-1,sub-id-2 go run ./cmd/topograph
//	go run ./cmd/topograph -port 9090 -config topograph.yaml
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/topology/health
//
//	# List available tools
//	curl http://localhost:8080/v1/topology/tools | jq
//
//	# Search for production VMs
//	curl 'http://localhost:8080/v1/topology/search?q=prod&type=virtualmachines'
//
//	# Shortest path between two resources
//	curl 'http://localhost:8080/v1/topology/path?from=<id>&to=<id>'
//
//	# Force a rebuild
//	curl -X POST http://localhost:8080/v1/topology/refresh
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/azimuthlabs/topograph/services/topology"
	"github.com/azimuthlabs/topograph/services/topology/azure"
	"github.com/azimuthlabs/topograph/services/topology/config"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "topograph.yaml", "Path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if len(cfg.Subscriptions) == 0 {
		slog.Warn("No subscriptions configured; set " + config.EnvSubscriptions + " or the subscriptions list in the config file")
	}

	// Set Gin mode
	if *debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	fetcher, err := azure.NewResourceGraphClient()
	if err != nil {
		slog.Error("Failed to create Azure client", "error", err)
		os.Exit(1)
	}

	svc := topology.NewService(fetcher, cfg)
	handlers := topology.NewHandlers(svc)

	router := gin.New()
	router.Use(gin.Recovery())
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	topology.RegisterRoutes(v1, handlers)

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down topograph server")
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Port)
	slog.Info("Starting topograph server",
		"address", addr,
		"subscriptions", len(cfg.Subscriptions),
		"cache_ttl", time.Duration(cfg.CacheTTL).String())
	if err := router.Run(addr); err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
