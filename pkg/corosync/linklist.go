package corosync

import (
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// CreateLinkListUDP validates link options for a new cluster using the udp
// or udpu transport. Those transports support a single link, so only the
// first entry carries options and any further entries are an error.
func CreateLinkListUDP(linkList []map[string]string) []report.Item {
	if len(linkList) == 0 {
		// Link options are not mandatory, nothing to validate.
		return nil
	}
	allowedOptions := []string{
		"bindnetaddr",
		"broadcast",
		"mcastaddr",
		"mcastport",
		"ttl",
	}
	options := validate.ValuesToPairs(linkList[0])
	items := validate.RunAll(
		options,
		validate.ValueIPAddress("bindnetaddr"),
		validate.ValueIn("broadcast", []string{"0", "1"}),
		validate.ValueIPAddress("mcastaddr"),
		validate.ValuePortNumber("mcastport"),
		validate.ValueIntegerInRange("ttl", 0, 255),
	)
	items = append(items,
		validate.NamesIn(allowedOptions, options.Names(), "link", nil)...,
	)
	if broadcast, ok := linkList[0]["broadcast"]; ok && broadcast == "1" {
		if _, ok := linkList[0]["mcastaddr"]; ok {
			items = append(items,
				report.CorosyncEnabledBroadcastDisallowsMcastaddr(),
			)
		}
	}
	if len(linkList) > LinksUDPMax {
		items = append(items, report.CorosyncTooManyLinks(
			len(linkList), LinksUDPMax, "udp/udpu",
		))
	}
	return items
}

// CreateLinkListKnet validates link options for a new cluster using the
// knet transport. maxLinkNumber is the highest usable link number, derived
// from how many addresses the nodes have; it is clamped to 0..7.
//
// Link numbers are compared for uniqueness as the strings given, the range
// check runs separately on each entry.
func CreateLinkListKnet(linkList []map[string]string, maxLinkNumber int) []report.Item {
	if len(linkList) == 0 {
		// Link options are not mandatory and may as well cover only some
		// of the links, nothing to validate.
		return nil
	}
	maxLinkNumber = max(0, min(LinksKnetMax-1, maxLinkNumber))
	allowedOptions := []string{
		"ip_version", // tells knet which IP version to prefer
		"linknumber",
		"link_priority",
		"mcastport",
		"ping_interval",
		"ping_precision",
		"ping_timeout",
		"pong_count",
		"transport",
	}
	checkers := []validate.Checker{
		validate.ValueIn("ip_version", []string{"ipv4", "ipv6"}),
		validate.ValueIntegerInRange("linknumber", 0, maxLinkNumber),
		validate.ValueIntegerInRange("link_priority", 0, 255),
		validate.ValuePortNumber("mcastport"),
		validate.ValueNonnegativeInteger("ping_interval"),
		validate.ValueNonnegativeInteger("ping_precision"),
		validate.ValueNonnegativeInteger("ping_timeout"),
		validate.DependsOnOption("ping_interval", "ping_timeout", "", ""),
		validate.DependsOnOption("ping_timeout", "ping_interval", "", ""),
		validate.ValueNonnegativeInteger("pong_count"),
		validate.ValueIn("transport", []string{"sctp", "udp"}),
	}

	var items []report.Item
	usedLinkNumbers := map[string]int{}
	for _, link := range linkList {
		if number, ok := link["linknumber"]; ok {
			usedLinkNumbers[number]++
		}
		options := validate.ValuesToPairs(link)
		items = append(items, validate.RunAll(options, checkers...)...)
		items = append(items,
			validate.NamesIn(allowedOptions, options.Names(), "link", nil)...,
		)
	}
	if duplicates := duplicatedKeys(usedLinkNumbers); len(duplicates) > 0 {
		items = append(items, report.CorosyncLinkNumberDuplication(duplicates))
	}
	if len(linkList) > LinksKnetMax {
		items = append(items, report.CorosyncTooManyLinks(
			len(linkList), LinksKnetMax, "knet",
		))
	}
	return items
}
