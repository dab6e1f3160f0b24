// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package azure fetches raw resource records from Azure Resource Graph.
//
// The package exposes the Fetcher interface consumed by the topology
// service and one production implementation, ResourceGraphClient, backed
// by the Azure Resource Graph query API. Credential acquisition uses the
// default Azure credential chain (env vars, managed identity, CLI).
package azure

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resourcegraph/armresourcegraph"

	"github.com/azimuthlabs/topograph/services/topology/graph"
)

// resourceQuery projects exactly the columns the topology builder consumes.
const resourceQuery = `Resources | project id, type, name, subscriptionId, resourceGroup, location, tags, properties | order by id asc`

// ResourceGraphClient fetches resources through Azure Resource Graph.
//
// # Thread Safety
//
// ResourceGraphClient is safe for concurrent use.
type ResourceGraphClient struct {
	client *armresourcegraph.Client
}

// NewResourceGraphClient creates a client using the default Azure
// credential chain.
//
// # Outputs
//
//   - *ResourceGraphClient: The configured client.
//   - error: Non-nil if no credential could be acquired.
func NewResourceGraphClient() (*ResourceGraphClient, error) {
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("acquiring azure credential: %w", err)
	}

	client, err := armresourcegraph.NewClient(cred, nil)
	if err != nil {
		return nil, fmt.Errorf("creating resource graph client: %w", err)
	}

	return &ResourceGraphClient{client: client}, nil
}

// FetchAll returns every resource in the given subscriptions, following
// the Resource Graph skip-token pagination until exhausted. Result order
// is stable (the query orders by id).
func (c *ResourceGraphClient) FetchAll(ctx context.Context, subscriptionIDs []string) ([]graph.RawResource, error) {
	subs := make([]*string, 0, len(subscriptionIDs))
	for _, id := range subscriptionIDs {
		subs = append(subs, to.Ptr(id))
	}

	var (
		resources []graph.RawResource
		skipToken *string
	)

	for {
		resp, err := c.client.Resources(ctx, armresourcegraph.QueryRequest{
			Query:         to.Ptr(resourceQuery),
			Subscriptions: subs,
			Options: &armresourcegraph.QueryRequestOptions{
				ResultFormat: to.Ptr(armresourcegraph.ResultFormatObjectArray),
				SkipToken:    skipToken,
			},
		}, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}

		rows, ok := resp.Data.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected result shape %T", ErrFetchFailed, resp.Data)
		}

		for _, row := range rows {
			fields, ok := row.(map[string]any)
			if !ok {
				slog.Warn("Skipping malformed resource row", "row_type", fmt.Sprintf("%T", row))
				continue
			}
			resources = append(resources, resourceFromRow(fields))
		}

		if resp.SkipToken == nil || *resp.SkipToken == "" {
			break
		}
		skipToken = resp.SkipToken
	}

	slog.Info("Fetched resources",
		"subscriptions", len(subscriptionIDs),
		"resources", len(resources))

	return resources, nil
}

// resourceFromRow converts one Resource Graph result row into a raw
// resource record.
//
// Missing or mistyped columns degrade to zero values rather than failing
// the whole fetch. The untyped properties document is passed through
// unchanged for the relationship builder.
func resourceFromRow(row map[string]any) graph.RawResource {
	return graph.RawResource{
		ID:             stringField(row, "id"),
		Type:           stringField(row, "type"),
		Name:           stringField(row, "name"),
		SubscriptionID: stringField(row, "subscriptionId"),
		ResourceGroup:  stringField(row, "resourceGroup"),
		Location:       stringField(row, "location"),
		Tags:           tagsField(row, "tags"),
		Properties:     mapField(row, "properties"),
	}
}

func stringField(row map[string]any, key string) string {
	s, _ := row[key].(string)
	return s
}

func mapField(row map[string]any, key string) map[string]any {
	m, _ := row[key].(map[string]any)
	return m
}

// tagsField flattens the tags document to string values. Non-string tag
// values are dropped.
func tagsField(row map[string]any, key string) map[string]string {
	raw, ok := row[key].(map[string]any)
	if !ok || len(raw) == 0 {
		return nil
	}
	tags := make(map[string]string, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			tags[k] = s
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}
