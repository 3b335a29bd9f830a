package validate

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// checkValue is the engine behind every single-value checker: skip when the
// option is absent, otherwise test the normalized value and report the
// original one. reportName overrides the option name shown in the report.
func checkValue(optionName string, valid func(string) bool, allowedDesc, reportName string, force []Force) Checker {
	return func(options Options) []report.Item {
		pair, ok := options[optionName]
		if !ok {
			return nil
		}
		if valid(pair.Normalized) {
			return nil
		}
		name := optionName
		if reportName != "" {
			name = reportName
		}
		return []report.Item{applyForce(
			report.InvalidOptionValue(name, pair.Original, allowedDesc),
			force,
		)}
	}
}

// ValueNotEmpty reports an empty value for the option. valueDesc describes
// what a valid value would be; the optional reportName overrides the option
// name in the report.
func ValueNotEmpty(optionName, valueDesc string, reportName ...string) Checker {
	name := ""
	if len(reportName) > 0 {
		name = reportName[0]
	}
	return checkValue(
		optionName,
		func(value string) bool { return !IsEmptyString(value) },
		valueDesc,
		name,
		nil,
	)
}

// ValueIn checks membership in a closed set of values.
func ValueIn(optionName string, allowedValues []string, force ...Force) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			for _, allowed := range allowedValues {
				if value == allowed {
					return true
				}
			}
			return false
		},
		report.QuotedList(allowedValues),
		"",
		force,
	)
}

// ValueIntegerInRange checks for an integer within the inclusive range.
func ValueIntegerInRange(optionName string, atLeast, atMost int, force ...Force) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			number, err := strconv.Atoi(value)
			return err == nil && number >= atLeast && number <= atMost
		},
		fmt.Sprintf("%d..%d", atLeast, atMost),
		"",
		force,
	)
}

// ValueNonnegativeInteger checks for an integer greater than or equal to
// zero.
func ValueNonnegativeInteger(optionName string) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			number, err := strconv.Atoi(value)
			return err == nil && number >= 0
		},
		"a non-negative integer",
		"",
		nil,
	)
}

// ValuePositiveInteger checks for an integer greater than zero.
func ValuePositiveInteger(optionName string, force ...Force) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			number, err := strconv.Atoi(value)
			return err == nil && number > 0
		},
		"a positive integer",
		"",
		force,
	)
}

// ValuePortNumber checks for a TCP/UDP port number.
func ValuePortNumber(optionName string, force ...Force) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			number, err := strconv.Atoi(value)
			return err == nil && number >= 1 && number <= 65535
		},
		"a port number (1-65535)",
		"",
		force,
	)
}

// ValueIPAddress checks for a literal IPv4 or IPv6 address.
func ValueIPAddress(optionName string, force ...Force) Checker {
	return checkValue(
		optionName,
		func(value string) bool {
			return IsIPv4Address(value) || IsIPv6Address(value)
		},
		"an IP address",
		"",
		force,
	)
}

// IsIPv4Address reports whether the address is a literal IPv4 address.
func IsIPv4Address(address string) bool {
	addr, err := netip.ParseAddr(address)
	return err == nil && addr.Is4()
}

// IsIPv6Address reports whether the address is a literal IPv6 address.
// Mapped forms like "::ffff:10.0.0.1" count as IPv6; they use IPv6 notation
// on the wire.
func IsIPv6Address(address string) bool {
	addr, err := netip.ParseAddr(address)
	return err == nil && !addr.Is4()
}
