// Copyright (C) 2025 Azimuth Labs (dev@azimuthlabs.io)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package graph

import (
	"context"
	"testing"
)

const (
	vm1ID    = "/subscriptions/sub1/resourceGroups/rg-a/providers/Microsoft.Compute/virtualMachines/vm1"
	nic1ID   = "/subscriptions/sub1/resourceGroups/rg-a/providers/Microsoft.Network/networkInterfaces/nic1"
	vnet1ID  = "/subscriptions/sub1/resourceGroups/rg-a/providers/Microsoft.Network/virtualNetworks/vnet1"
	snet1ID  = vnet1ID + "/subnets/subnet1"
	store1ID = "/subscriptions/sub1/resourceGroups/rg-b/providers/Microsoft.Storage/storageAccounts/store1"
)

// res builds a minimal raw record for tests.
func res(id, resourceType, name, resourceGroup string) RawResource {
	return RawResource{
		ID:             id,
		Type:           resourceType,
		Name:           name,
		SubscriptionID: "sub1",
		ResourceGroup:  resourceGroup,
		Location:       "eastus2",
	}
}

// vmWithNICs builds a VM record whose properties reference the given
// NIC IDs the way the compute provider emits them.
func vmWithNICs(id, name, resourceGroup string, nicIDs ...string) RawResource {
	refs := make([]any, 0, len(nicIDs))
	for _, nicID := range nicIDs {
		refs = append(refs, map[string]any{"id": nicID})
	}
	r := res(id, "Microsoft.Compute/virtualMachines", name, resourceGroup)
	r.Properties = map[string]any{
		"networkProfile": map[string]any{"networkInterfaces": refs},
	}
	return r
}

// countEdges counts edges matching the triple.
func countEdges(g *Graph, source, target string, kind EdgeType) int {
	count := 0
	for _, e := range g.Edges {
		if e.SourceID == source && e.TargetID == target && e.Type == kind {
			count++
		}
	}
	return count
}

func TestBuildNodes(t *testing.T) {
	t.Run("preserves fetch order", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res(store1ID, "Microsoft.Storage/storageAccounts", "store1", "rg-b"),
			res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a"),
		})

		if g.NodeCount() != 2 {
			t.Fatalf("NodeCount() = %d, want 2", g.NodeCount())
		}
		if g.Nodes[0].ID != store1ID || g.Nodes[1].ID != vm1ID {
			t.Errorf("node order = [%s, %s], want fetch order", g.Nodes[0].ID, g.Nodes[1].ID)
		}
	})

	t.Run("skips duplicate IDs keeping the first record", func(t *testing.T) {
		first := res(vm1ID, "Microsoft.Compute/virtualMachines", "first", "rg-a")
		second := res(vm1ID, "Microsoft.Compute/virtualMachines", "second", "rg-a")

		g := Build(context.Background(), []RawResource{first, second})

		if g.NodeCount() != 1 {
			t.Fatalf("NodeCount() = %d, want 1", g.NodeCount())
		}
		if g.Nodes[0].Name != "first" {
			t.Errorf("kept node name = %q, want %q", g.Nodes[0].Name, "first")
		}
	})

	t.Run("skips records without an ID", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res("", "Microsoft.Compute/virtualMachines", "no-id", "rg-a"),
			res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a"),
		})

		if g.NodeCount() != 1 {
			t.Errorf("NodeCount() = %d, want 1", g.NodeCount())
		}
	})
}

func TestResourceGroupEdges(t *testing.T) {
	t.Run("both directions exactly once per pair", func(t *testing.T) {
		// The symmetric node loop intentionally yields A->B and B->A.
		g := Build(context.Background(), []RawResource{
			res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a"),
			res(nic1ID, "Microsoft.Network/networkInterfaces", "nic1", "rg-a"),
			res(store1ID, "Microsoft.Storage/storageAccounts", "store1", "rg-b"),
		})

		if n := countEdges(g, vm1ID, nic1ID, EdgeResourceGroup); n != 1 {
			t.Errorf("vm1->nic1 resource-group edges = %d, want 1", n)
		}
		if n := countEdges(g, nic1ID, vm1ID, EdgeResourceGroup); n != 1 {
			t.Errorf("nic1->vm1 resource-group edges = %d, want 1", n)
		}
		for _, e := range g.Edges {
			if e.SourceID == store1ID || e.TargetID == store1ID {
				t.Errorf("unexpected edge touching lone group member: %+v", e)
			}
		}
	})

	t.Run("no self edges", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a"),
			res(nic1ID, "Microsoft.Network/networkInterfaces", "nic1", "rg-a"),
		})

		for _, e := range g.Edges {
			if e.SourceID == e.TargetID {
				t.Errorf("self edge: %+v", e)
			}
		}
	})
}

func TestVirtualMachineRule(t *testing.T) {
	t.Run("links VM to referenced NIC", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			vmWithNICs(vm1ID, "vm1", "rg-a", nic1ID),
			res(nic1ID, "Microsoft.Network/networkInterfaces", "nic1", "rg-a"),
		})

		if n := countEdges(g, vm1ID, nic1ID, EdgeNetworkInterface); n != 1 {
			t.Errorf("vm1->nic1 network-interface edges = %d, want 1", n)
		}
		// Co-membership still applies alongside the NIC attachment.
		if n := countEdges(g, vm1ID, nic1ID, EdgeResourceGroup); n != 1 {
			t.Errorf("vm1->nic1 resource-group edges = %d, want 1", n)
		}
		if n := countEdges(g, nic1ID, vm1ID, EdgeResourceGroup); n != 1 {
			t.Errorf("nic1->vm1 resource-group edges = %d, want 1", n)
		}
	})

	t.Run("type match is case-insensitive", func(t *testing.T) {
		vm := vmWithNICs(vm1ID, "vm1", "rg-a", nic1ID)
		vm.Type = "MICROSOFT.COMPUTE/VIRTUALMACHINES"

		g := Build(context.Background(), []RawResource{
			vm,
			res(nic1ID, "microsoft.network/networkinterfaces", "nic1", "rg-a"),
		})

		if n := countEdges(g, vm1ID, nic1ID, EdgeNetworkInterface); n != 1 {
			t.Errorf("vm1->nic1 network-interface edges = %d, want 1", n)
		}
	})

	t.Run("ignores references to unknown resources", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			vmWithNICs(vm1ID, "vm1", "rg-a", "/not/in/graph"),
		})

		for _, e := range g.Edges {
			if e.Type == EdgeNetworkInterface {
				t.Errorf("unexpected network-interface edge: %+v", e)
			}
		}
	})

	t.Run("malformed properties do not abort the build", func(t *testing.T) {
		vm := res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a")
		vm.Properties = map[string]any{
			"networkProfile": "not-a-map",
		}

		g := Build(context.Background(), []RawResource{
			vm,
			res(nic1ID, "Microsoft.Network/networkInterfaces", "nic1", "rg-a"),
		})

		// The malformed VM still gets its resource-group edges, and the
		// other node's relationships are unaffected.
		if n := countEdges(g, vm1ID, nic1ID, EdgeResourceGroup); n != 1 {
			t.Errorf("vm1->nic1 resource-group edges = %d, want 1", n)
		}
		for _, e := range g.Edges {
			if e.Type == EdgeNetworkInterface {
				t.Errorf("unexpected network-interface edge: %+v", e)
			}
		}
	})

	t.Run("nil properties are skipped silently", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res(vm1ID, "Microsoft.Compute/virtualMachines", "vm1", "rg-a"),
		})

		if g.EdgeCount() != 0 {
			t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
		}
	})
}

func TestVirtualNetworkRule(t *testing.T) {
	t.Run("links VNet to contained subnet", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res(vnet1ID, "Microsoft.Network/virtualNetworks", "vnet1", "rg-a"),
			res(snet1ID, "Microsoft.Network/virtualNetworks/subnets", "subnet1", "rg-a"),
		})

		if n := countEdges(g, vnet1ID, snet1ID, EdgeSubnet); n != 1 {
			t.Errorf("vnet1->subnet1 subnet edges = %d, want 1", n)
		}
	})

	t.Run("requires ID path containment", func(t *testing.T) {
		otherSubnet := "/subscriptions/sub1/resourceGroups/rg-a/providers/Microsoft.Network/virtualNetworks/vnet2/subnets/s1"
		g := Build(context.Background(), []RawResource{
			res(vnet1ID, "Microsoft.Network/virtualNetworks", "vnet1", "rg-a"),
			res(otherSubnet, "Microsoft.Network/virtualNetworks/subnets", "s1", "rg-a"),
		})

		if n := countEdges(g, vnet1ID, otherSubnet, EdgeSubnet); n != 0 {
			t.Errorf("vnet1->foreign subnet edges = %d, want 0", n)
		}
	})

	t.Run("requires matching resource group", func(t *testing.T) {
		g := Build(context.Background(), []RawResource{
			res(vnet1ID, "Microsoft.Network/virtualNetworks", "vnet1", "rg-a"),
			res(snet1ID, "Microsoft.Network/virtualNetworks/subnets", "subnet1", "rg-other"),
		})

		if n := countEdges(g, vnet1ID, snet1ID, EdgeSubnet); n != 0 {
			t.Errorf("cross-group subnet edges = %d, want 0", n)
		}
	})
}

func TestEdgeOrderDeterminism(t *testing.T) {
	// FindPath's tie-break depends on edge insertion order, so two
	// builds of the same input must produce the same edge sequence.
	input := []RawResource{
		vmWithNICs(vm1ID, "vm1", "rg-a", nic1ID),
		res(nic1ID, "Microsoft.Network/networkInterfaces", "nic1", "rg-a"),
		res(vnet1ID, "Microsoft.Network/virtualNetworks", "vnet1", "rg-a"),
		res(snet1ID, "Microsoft.Network/virtualNetworks/subnets", "subnet1", "rg-a"),
	}

	first := Build(context.Background(), input)
	second := Build(context.Background(), input)

	if len(first.Edges) != len(second.Edges) {
		t.Fatalf("edge counts differ: %d vs %d", len(first.Edges), len(second.Edges))
	}
	for i := range first.Edges {
		if *first.Edges[i] != *second.Edges[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, first.Edges[i], second.Edges[i])
		}
	}
}

func TestNetworkInterfaceIDs(t *testing.T) {
	t.Run("extracts ids", func(t *testing.T) {
		props := map[string]any{
			"networkProfile": map[string]any{
				"networkInterfaces": []any{
					map[string]any{"id": "a"},
					map[string]any{"id": "b", "primary": true},
				},
			},
		}

		ids := networkInterfaceIDs(props)
		if len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
			t.Errorf("networkInterfaceIDs() = %v, want [a b]", ids)
		}
	})

	t.Run("tolerates malformed entries", func(t *testing.T) {
		props := map[string]any{
			"networkProfile": map[string]any{
				"networkInterfaces": []any{
					"not-a-map",
					map[string]any{"id": 42},
					map[string]any{"id": ""},
					map[string]any{"id": "ok"},
				},
			},
		}

		ids := networkInterfaceIDs(props)
		if len(ids) != 1 || ids[0] != "ok" {
			t.Errorf("networkInterfaceIDs() = %v, want [ok]", ids)
		}
	})

	t.Run("nil and missing paths", func(t *testing.T) {
		if ids := networkInterfaceIDs(nil); ids != nil {
			t.Errorf("networkInterfaceIDs(nil) = %v, want nil", ids)
		}
		if ids := networkInterfaceIDs(map[string]any{"osProfile": map[string]any{}}); ids != nil {
			t.Errorf("networkInterfaceIDs(no profile) = %v, want nil", ids)
		}
	})
}
