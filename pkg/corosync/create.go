package corosync

import (
	"context"
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// Create validates a request to create a new minimalistic corosync.conf.
//
// Node addresses classify as a literal IPv4 or IPv6 address, a resolvable
// FQDN or unresolvable; each distinct literal is resolved at most once.
// Unresolvable addresses are an error unless forceUnresolvable downgrades
// them to a warning. Checks whose reports identify nodes by name are
// skipped when names are missing or duplicated, as such reports could not
// name nodes unambiguously.
//
// A nil resolver falls back to net.DefaultResolver.
func Create(
	ctx context.Context,
	resolver Resolver,
	clusterName string,
	nodes []Node,
	transport string,
	forceUnresolvable bool,
) []report.Item {
	items := validate.RunAll(
		validate.Options{
			"name":      validate.Pair(clusterName),
			"transport": validate.Pair(transport),
		},
		validate.ValueNotEmpty("name", "a cluster name", "cluster name"),
		validate.ValueIn("transport", TransportsAll),
	)

	classifier := newAddressClassifier(resolver)
	allNamesUsable := true
	nameCount := map[string]int{}
	addrCount := map[string]int{}
	addrTypesPerNode := make([][]string, 0, len(nodes))

	// First, validate each node on its own.
	for i, node := range nodes {
		nodeIndex := i + 1
		nameOptions := validate.Options{}
		if node.Name != "" {
			nameOptions["name"] = validate.Pair(node.Name)
		}
		items = append(items, validate.RunAll(
			nameOptions,
			validate.IsRequired("name", fmt.Sprintf("node %d", nodeIndex)),
		)...)
		if node.Name == "" {
			allNamesUsable = false
		} else {
			// Count occurrences of each node name. Missing names are not
			// counted, they must be fixed anyway.
			nameCount[node.Name]++
		}
		if minAddrs, maxAddrs, ok := addressBounds(transport); ok {
			if len(node.Addrs) < minAddrs || len(node.Addrs) > maxAddrs {
				items = append(items, report.CorosyncBadNodeAddressesCount(
					len(node.Addrs), minAddrs, maxAddrs, node.Name, nodeIndex,
				))
			}
		}
		addrTypes := make([]string, 0, len(node.Addrs))
		for _, addr := range node.Addrs {
			addrCount[addr]++
			addrTypes = append(addrTypes, classifier.classify(ctx, addr))
		}
		addrTypesPerNode = append(addrTypesPerNode, addrTypes)
	}

	if unresolvable := classifier.unresolvableAddresses(); len(unresolvable) > 0 {
		items = append(items, report.NodeAddressesUnresolvable(unresolvable).
			Forceable(report.ForceNodeAddressesUnresolvable, forceUnresolvable))
	}
	if duplicates := duplicatedKeys(nameCount); len(duplicates) > 0 {
		allNamesUsable = false
		items = append(items, report.CorosyncNodeNameDuplication(duplicates))
	}
	if duplicates := duplicatedKeys(addrCount); len(duplicates) > 0 {
		items = append(items, report.CorosyncNodeAddressDuplication(duplicates))
	}

	// Checks from here on use node names to identify nodes in their
	// reports, so they only run when every node has a unique name.
	if allNamesUsable {
		nodeAddrCount := make(map[string]int, len(nodes))
		for _, node := range nodes {
			nodeAddrCount[node.Name] = len(node.Addrs)
		}
		// The plain UDP transports allow one address per node only and
		// that has been checked above already.
		if !slices.Contains(TransportsUDP, transport) &&
			distinctCounts(nodeAddrCount) > 1 {
			items = append(items, report.CorosyncNodeAddressCountMismatch(
				nodeAddrCount,
			))
		}
	}

	// Mixing IPv4 and IPv6 within one link is checked per link index over
	// all nodes; node names are not relevant here.
	if mismatched := linksMixingIPVersions(addrTypesPerNode); len(mismatched) > 0 {
		items = append(items, report.CorosyncIPVersionMismatchInLinks(mismatched))
	}

	return items
}

func addressBounds(transport string) (minAddrs, maxAddrs int, ok bool) {
	switch {
	case slices.Contains(TransportsKnet, transport):
		return LinksKnetMin, LinksKnetMax, true
	case slices.Contains(TransportsUDP, transport):
		return LinksUDPMin, LinksUDPMax, true
	}
	return 0, 0, false
}

func duplicatedKeys(counts map[string]int) []string {
	var duplicates []string
	for key, count := range counts {
		if count > 1 {
			duplicates = append(duplicates, key)
		}
	}
	return duplicates
}

func distinctCounts(counts map[string]int) int {
	distinct := map[int]struct{}{}
	for _, count := range counts {
		distinct[count] = struct{}{}
	}
	return len(distinct)
}

// linksMixingIPVersions transposes the per-node address type lists and
// returns the link indexes where both IPv4 and IPv6 appear. Nodes with
// fewer addresses simply do not contribute to the higher links.
func linksMixingIPVersions(addrTypesPerNode [][]string) []int {
	maxLinks := 0
	for _, addrTypes := range addrTypesPerNode {
		maxLinks = max(maxLinks, len(addrTypes))
	}
	var mismatched []int
	for link := 0; link < maxLinks; link++ {
		hasIPv4, hasIPv6 := false, false
		for _, addrTypes := range addrTypesPerNode {
			if link >= len(addrTypes) {
				continue
			}
			switch addrTypes[link] {
			case AddrIPv4:
				hasIPv4 = true
			case AddrIPv6:
				hasIPv6 = true
			}
		}
		if hasIPv4 && hasIPv6 {
			mismatched = append(mismatched, link)
		}
	}
	return mismatched
}
