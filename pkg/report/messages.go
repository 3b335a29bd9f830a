package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Constructors for every kind of Item. Each one renders a message and fills
// the structured payload; severity defaults to ERROR and callers downgrade
// via Forceable where an override is supported.

// RequiredOptionIsMissing reports options that must be present but are not.
func RequiredOptionIsMissing(optionNames []string, optionType string) Item {
	names := sortedCopy(optionNames)
	return Item{
		Code:     CodeRequiredOptionIsMissing,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"required %s %s missing",
			typedOptions(optionType, names),
			isAre(len(names)),
		),
		Details: map[string]any{
			"option_names": names,
			"option_type":  optionType,
		},
	}
}

// InvalidOptionValue reports a value outside an allowed set or range.
// allowedValues is a human description of what would be accepted, for example
// "'knet', 'udp' or 'udpu'" or "a positive integer".
func InvalidOptionValue(optionName, optionValue, allowedValues string) Item {
	return Item{
		Code:     CodeInvalidOptionValue,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"'%s' is not a valid %s value, use %s",
			optionValue, optionName, allowedValues,
		),
		Details: map[string]any{
			"option_name":    optionName,
			"option_value":   optionValue,
			"allowed_values": allowedValues,
		},
	}
}

// InvalidOptions reports option names outside the allowed set.
// allowedPatterns lists labels of name patterns that are accepted besides the
// plain allowed names, for example "exec_NAME".
func InvalidOptions(optionNames, allowedOptions []string, optionType string, allowedPatterns []string) Item {
	names := sortedCopy(optionNames)
	allowed := sortedCopy(allowedOptions)
	message := fmt.Sprintf(
		"invalid %s, allowed options are: %s",
		typedOptions(optionType, names),
		QuotedList(allowed),
	)
	if len(allowedPatterns) > 0 {
		message += fmt.Sprintf(
			" and options matching patterns: %s",
			QuotedList(allowedPatterns),
		)
	}
	return Item{
		Code:     CodeInvalidOptions,
		Severity: SeverityError,
		Message:  message,
		Details: map[string]any{
			"option_names":     names,
			"allowed":          allowed,
			"option_type":      optionType,
			"allowed_patterns": allowedPatterns,
		},
	}
}

// InvalidUserdefinedOptions reports user-defined option names which do not
// conform to the required name syntax. These are never downgradable; a
// crafted name could smuggle arbitrary settings into the generated config.
func InvalidUserdefinedOptions(optionNames []string, allowedDescription, optionType string) Item {
	names := sortedCopy(optionNames)
	return Item{
		Code:     CodeInvalidUserdefinedOptions,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"invalid %s, %s",
			typedOptions(optionType, names),
			allowedDescription,
		),
		Details: map[string]any{
			"option_names":        names,
			"option_type":         optionType,
			"allowed_description": allowedDescription,
		},
	}
}

// PrerequisiteOptionIsMissing reports an option which cannot be set without
// another option being set as well.
func PrerequisiteOptionIsMissing(optionName, prerequisiteName, optionType, prerequisiteType string) Item {
	return Item{
		Code:     CodePrerequisiteOptionIsMissing,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"If %s is specified, %s must be specified as well",
			typedOption(optionType, optionName),
			typedOption(prerequisiteType, prerequisiteName),
		),
		Details: map[string]any{
			"option_name":       optionName,
			"option_type":       optionType,
			"prerequisite_name": prerequisiteName,
			"prerequisite_type": prerequisiteType,
		},
	}
}

// EmptyID reports an empty string used where an id is required.
func EmptyID(id, idDescription string) Item {
	return Item{
		Code:     CodeEmptyID,
		Severity: SeverityError,
		Message:  fmt.Sprintf("%s cannot be empty", idDescription),
		Details: map[string]any{
			"id":             id,
			"id_description": idDescription,
		},
	}
}

// InvalidID reports an id containing a character the id syntax does not
// allow. isFirstChar distinguishes the stricter first-character rule.
func InvalidID(id, idDescription, invalidCharacter string, isFirstChar bool) Item {
	position := "character"
	if isFirstChar {
		position = "first character"
	}
	return Item{
		Code:     CodeInvalidID,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"invalid %s '%s', '%s' is not a valid %s for a %s",
			idDescription, id, invalidCharacter, position, idDescription,
		),
		Details: map[string]any{
			"id":                id,
			"id_description":    idDescription,
			"invalid_character": invalidCharacter,
			"is_first_char":     isFirstChar,
		},
	}
}

// IDAlreadyExists reports an id collision in the configuration tree.
func IDAlreadyExists(id string) Item {
	return Item{
		Code:     CodeIDAlreadyExists,
		Severity: SeverityError,
		Message:  fmt.Sprintf("'%s' already exists", id),
		Details:  map[string]any{"id": id},
	}
}

// CorosyncBadNodeAddressesCount reports a node with an address count outside
// the bounds of the selected transport. nodeName may be empty and nodeIndex
// zero when the node could not be identified.
func CorosyncBadNodeAddressesCount(actualCount, minCount, maxCount int, nodeName string, nodeIndex int) Item {
	node := ""
	if nodeName != "" {
		node = fmt.Sprintf(" node '%s'", nodeName)
	} else if nodeIndex > 0 {
		node = fmt.Sprintf(" node %d", nodeIndex)
	}
	return Item{
		Code:     CodeCorosyncBadNodeAddressesCount,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"At least %d and at most %d addresses must be specified for a node, %d addresses specified%s",
			minCount, maxCount, actualCount, node,
		),
		Details: map[string]any{
			"actual_count": actualCount,
			"min_count":    minCount,
			"max_count":    maxCount,
			"node_name":    nodeName,
			"node_index":   nodeIndex,
		},
	}
}

// NodeAddressesUnresolvable reports addresses which could not be resolved to
// an IP address. Downgradable via ForceNodeAddressesUnresolvable.
func NodeAddressesUnresolvable(addresses []string) Item {
	addrs := sortedCopy(addresses)
	return Item{
		Code:     CodeNodeAddressesUnresolvable,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Unable to resolve addresses: %s",
			QuotedList(addrs),
		),
		Details: map[string]any{"address_list": addrs},
	}
}

// CorosyncNodeNameDuplication reports node names used more than once.
func CorosyncNodeNameDuplication(names []string) Item {
	sorted := sortedCopy(names)
	return Item{
		Code:     CodeCorosyncNodeNameDuplication,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Node names must be unique, duplicate names: %s",
			QuotedList(sorted),
		),
		Details: map[string]any{"name_list": sorted},
	}
}

// CorosyncNodeAddressDuplication reports addresses used more than once.
func CorosyncNodeAddressDuplication(addresses []string) Item {
	addrs := sortedCopy(addresses)
	return Item{
		Code:     CodeCorosyncNodeAddressDuplication,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Node addresses must be unique, duplicate addresses: %s",
			QuotedList(addrs),
		),
		Details: map[string]any{"address_list": addrs},
	}
}

// CorosyncNodeAddressCountMismatch reports nodes not all having the same
// number of addresses. nodeAddrCount maps node name to its address count.
func CorosyncNodeAddressCountMismatch(nodeAddrCount map[string]int) Item {
	byCount := map[int][]string{}
	for name, count := range nodeAddrCount {
		byCount[count] = append(byCount[count], name)
	}
	counts := make([]int, 0, len(byCount))
	for count := range byCount {
		counts = append(counts, count)
	}
	sort.Ints(counts)
	parts := make([]string, 0, len(counts))
	for _, count := range counts {
		names := sortedCopy(byCount[count])
		noun := "addresses"
		if count == 1 {
			noun = "address"
		}
		parts = append(parts, fmt.Sprintf(
			"%s %s %s %d %s",
			pluralize(len(names), "node"),
			QuotedList(names),
			hasHave(len(names)),
			count,
			noun,
		))
	}
	return Item{
		Code:     CodeCorosyncNodeAddressCountMismatch,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"All nodes must have the same number of addresses; %s",
			strings.Join(parts, "; "),
		),
		Details: map[string]any{"node_addr_count": nodeAddrCount},
	}
}

// CorosyncIPVersionMismatchInLinks reports links mixing IPv4 and IPv6
// addresses. linkNumbers are zero-based link indexes.
func CorosyncIPVersionMismatchInLinks(linkNumbers []int) Item {
	sorted := make([]int, len(linkNumbers))
	copy(sorted, linkNumbers)
	sort.Ints(sorted)
	rendered := make([]string, len(sorted))
	for i, number := range sorted {
		rendered[i] = strconv.Itoa(number)
	}
	return Item{
		Code:     CodeCorosyncIPVersionMismatchInLinks,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Using both IPv4 and IPv6 in one link is not allowed; please fix %s",
			pluralize(len(rendered), "link")+" "+QuotedList(rendered),
		),
		Details: map[string]any{"link_numbers": sorted},
	}
}

// CorosyncEnabledBroadcastDisallowsMcastaddr reports mcastaddr set on a link
// with broadcast enabled.
func CorosyncEnabledBroadcastDisallowsMcastaddr() Item {
	return Item{
		Code:     CodeCorosyncEnabledBroadcastDisallowsMcastaddr,
		Severity: SeverityError,
		Message:  "mcastaddr cannot be set when broadcast is enabled",
	}
}

// CorosyncTooManyLinks reports more links defined than the transport allows.
func CorosyncTooManyLinks(actualCount, maxCount int, transport string) Item {
	return Item{
		Code:     CodeCorosyncTooManyLinks,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Cannot set %d links, %s transport supports at most %d link%s",
			actualCount, transport, maxCount, plural(maxCount),
		),
		Details: map[string]any{
			"actual_count": actualCount,
			"max_count":    maxCount,
			"transport":    transport,
		},
	}
}

// CorosyncLinkNumberDuplication reports link numbers used more than once.
func CorosyncLinkNumberDuplication(linkNumbers []string) Item {
	sorted := sortedCopy(linkNumbers)
	return Item{
		Code:     CodeCorosyncLinkNumberDuplication,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Link numbers must be unique, duplicate link numbers: %s",
			QuotedList(sorted),
		),
		Details: map[string]any{"link_number_list": sorted},
	}
}

// CorosyncCryptoCipherRequiresCryptoHash reports a cipher enabled while
// hashing is disabled; corosync refuses such a config at runtime.
func CorosyncCryptoCipherRequiresCryptoHash() Item {
	return Item{
		Code:     CodeCorosyncCryptoCipherRequiresCryptoHash,
		Severity: SeverityError,
		Message:  "crypto_cipher requires crypto_hash to be enabled as well",
	}
}

// CorosyncOptionsIncompatibleWithQdevice reports quorum options that cannot
// be used when the cluster has a quorum device configured.
func CorosyncOptionsIncompatibleWithQdevice(options []string) Item {
	sorted := sortedCopy(options)
	return Item{
		Code:     CodeCorosyncOptionsIncompatibleWithQdevice,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"These options cannot be set when the cluster uses a quorum device: %s",
			QuotedList(sorted),
		),
		Details: map[string]any{"option_names": sorted},
	}
}

// ResourceDoesNotExist reports a resource id with no element in the tree.
func ResourceDoesNotExist(resourceID string) Item {
	return Item{
		Code:     CodeResourceDoesNotExist,
		Severity: SeverityError,
		Message:  fmt.Sprintf("Resource '%s' does not exist", resourceID),
		Details:  map[string]any{"resource_id": resourceID},
	}
}

// ResourceIsInClone reports a constraint referencing a resource wrapped in a
// clone without addressing the clone itself.
func ResourceIsInClone(resourceID, cloneID string) Item {
	return Item{
		Code:     CodeResourceIsInClone,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"'%s' is a clone resource, you should use the clone id: '%s' when adding constraints",
			resourceID, cloneID,
		),
		Details: map[string]any{
			"resource_id": resourceID,
			"parent_type": "clone",
			"parent_id":   cloneID,
		},
	}
}

// ResourceIsInMaster reports a constraint referencing a resource wrapped in a
// master/slave element without addressing it.
func ResourceIsInMaster(resourceID, masterID string) Item {
	return Item{
		Code:     CodeResourceIsInMaster,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"'%s' is a master/slave resource, you should use the master id: '%s' when adding constraints",
			resourceID, masterID,
		),
		Details: map[string]any{
			"resource_id": resourceID,
			"parent_type": "master",
			"parent_id":   masterID,
		},
	}
}

// DuplicateConstraintsExist reports sibling constraints equal to the one
// being created. constraintInfoList carries the exported duplicates.
func DuplicateConstraintsExist(constraintType string, constraintInfoList any) Item {
	return Item{
		Code:     CodeDuplicateConstraintsExist,
		Severity: SeverityError,
		Message:  "duplicate constraint already exists",
		Details: map[string]any{
			"constraint_type":      constraintType,
			"constraint_info_list": constraintInfoList,
		},
	}
}

// QdeviceGetStatusError reports a failure to read quorum device runtime
// status from the qnetd tooling.
func QdeviceGetStatusError(model, reason string) Item {
	return Item{
		Code:     CodeQdeviceGetStatusError,
		Severity: SeverityError,
		Message: fmt.Sprintf(
			"Unable to get status of quorum device '%s': %s",
			model, reason,
		),
		Details: map[string]any{
			"model":  model,
			"reason": reason,
		},
	}
}

// CorosyncQuorumGetStatusError reports a failure to read quorum runtime
// status from the local qdevice tooling.
func CorosyncQuorumGetStatusError(reason string) Item {
	return Item{
		Code:     CodeCorosyncQuorumGetStatusError,
		Severity: SeverityError,
		Message:  fmt.Sprintf("Unable to get quorum status: %s", reason),
		Details:  map[string]any{"reason": reason},
	}
}

func sortedCopy(items []string) []string {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return sorted
}

// QuotedList renders ["b", "a"] as "'b', 'a'" without reordering; callers
// sort first when order is not meaningful.
func QuotedList(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}

func typedOption(optionType, name string) string {
	if optionType == "" {
		return fmt.Sprintf("option '%s'", name)
	}
	return fmt.Sprintf("%s option '%s'", optionType, name)
}

func typedOptions(optionType string, names []string) string {
	noun := pluralize(len(names), "option")
	if optionType != "" {
		noun = optionType + " " + noun
	}
	return noun + " " + QuotedList(names)
}

func pluralize(count int, noun string) string {
	return noun + plural(count)
}

func plural(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

func isAre(count int) string {
	if count == 1 {
		return "is"
	}
	return "are"
}

func hasHave(count int) string {
	if count == 1 {
		return "has"
	}
	return "have"
}
