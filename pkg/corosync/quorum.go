package corosync

import (
	"slices"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// CreateQuorumOptions validates quorum options for a new cluster.
// hasQdevice tells whether the new config carries a quorum device; options
// incompatible with it are rejected then.
func CreateQuorumOptions(options map[string]string, hasQdevice bool) []report.Item {
	pairs := validate.ValuesToPairs(options)
	dependencyItems := validate.RunAll(
		pairs,
		validate.DependsOnOption(
			"last_man_standing_window", "last_man_standing", "", "",
		),
	)
	return append(
		validateQuorumOptions(pairs, hasQdevice, false),
		dependencyItems...,
	)
}

// UpdateQuorumOptions validates changing quorum options of an existing
// cluster. An empty value means the option is to be removed.
func UpdateQuorumOptions(options map[string]string, hasQdevice bool) []report.Item {
	return validateQuorumOptions(
		validate.ValuesToPairs(options), hasQdevice, true,
	)
}

func validateQuorumOptions(options validate.Options, hasQdevice, allowEmpty bool) []report.Item {
	items := validate.RunAll(options, quorumOptionsCheckers(allowEmpty)...)
	items = append(items,
		validate.NamesIn(QuorumOptions, options.Names(), "quorum", nil)...,
	)
	if hasQdevice {
		var incompatible []string
		for _, name := range options.Names() {
			if slices.Contains(QuorumOptionsIncompatibleWithQdevice, name) {
				incompatible = append(incompatible, name)
			}
		}
		if len(incompatible) > 0 {
			items = append(items,
				report.CorosyncOptionsIncompatibleWithQdevice(incompatible),
			)
		}
	}
	return items
}

func quorumOptionsCheckers(allowEmpty bool) []validate.Checker {
	allowedBool := []string{"0", "1"}
	checkers := map[string]validate.Checker{
		"auto_tie_breaker":         validate.ValueIn("auto_tie_breaker", allowedBool),
		"last_man_standing":        validate.ValueIn("last_man_standing", allowedBool),
		"last_man_standing_window": validate.ValuePositiveInteger("last_man_standing_window"),
		"wait_for_all":             validate.ValueIn("wait_for_all", allowedBool),
	}
	ordered := make([]validate.Checker, 0, len(checkers))
	for _, name := range QuorumOptions {
		checker := checkers[name]
		if allowEmpty {
			checker = validate.ValueEmptyOrValid(name, checker)
		}
		ordered = append(ordered, checker)
	}
	return ordered
}
