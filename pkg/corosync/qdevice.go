package corosync

import (
	"slices"
	"sort"
	"strings"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// AddQuorumDevice validates adding a quorum device to a cluster which has
// none. nodeIDs lists the corosync ids of existing nodes; the tie_breaker
// option may name one of them. forceModel downgrades the unknown-model
// error, forceOptions downgrades the forceable option errors.
func AddQuorumDevice(
	model string,
	modelOptions, genericOptions, heuristicsOptions map[string]string,
	nodeIDs []string,
	forceModel, forceOptions bool,
) []report.Item {
	var items []report.Item
	switch model {
	case QdeviceModelNet:
		items = qdeviceAddModelNetOptions(modelOptions, nodeIDs, forceOptions)
	default:
		items = validate.RunAll(
			validate.Options{"model": validate.Pair(model)},
			validate.ValueIn("model", qdeviceModels,
				validate.Forceable(report.ForceQdeviceModel, forceModel)),
		)
	}
	items = append(items,
		qdeviceAddGenericOptions(genericOptions, forceOptions)...)
	items = append(items,
		qdeviceAddHeuristicsOptions(heuristicsOptions, forceOptions)...)
	return items
}

// UpdateQuorumDevice validates changing the settings of a configured
// quorum device. The model itself cannot change, so model options of an
// unknown model are skipped rather than reported.
func UpdateQuorumDevice(
	model string,
	modelOptions, genericOptions, heuristicsOptions map[string]string,
	nodeIDs []string,
	forceOptions bool,
) []report.Item {
	var items []report.Item
	if model == QdeviceModelNet {
		items = qdeviceUpdateModelNetOptions(modelOptions, nodeIDs, forceOptions)
	}
	items = append(items,
		qdeviceUpdateGenericOptions(genericOptions, forceOptions)...)
	items = append(items,
		qdeviceUpdateHeuristicsOptions(heuristicsOptions, forceOptions)...)
	return items
}

func qdeviceAddGenericOptions(options map[string]string, force bool) []report.Item {
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(pairs, qdeviceGenericCheckers(false, force)...)
	return append(items, qdeviceGenericNames(pairs, force)...)
}

func qdeviceUpdateGenericOptions(options map[string]string, force bool) []report.Item {
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(pairs, qdeviceGenericCheckers(true, force)...)
	return append(items, qdeviceGenericNames(pairs, force)...)
}

func qdeviceGenericCheckers(allowEmpty, force bool) []validate.Checker {
	extra := validate.Forceable(report.ForceOptions, force)
	names := []string{"sync_timeout", "timeout"}
	checkers := make([]validate.Checker, 0, len(names))
	for _, name := range names {
		checker := validate.ValuePositiveInteger(name, extra)
		if allowEmpty {
			checker = validate.ValueEmptyOrValid(name, checker)
		}
		checkers = append(checkers, checker)
	}
	return checkers
}

// qdeviceGenericNames rejects unknown generic options. In corosync.conf
// the model lives in the same section as the generic options but is
// handled separately here, so "model" slipping in gets its own report
// which is never forceable.
func qdeviceGenericNames(options validate.Options, force bool) []report.Item {
	allowed := []string{"sync_timeout", "timeout"}
	modelFound := false
	var invalid []string
	for _, name := range options.Names() {
		if slices.Contains(allowed, name) {
			continue
		}
		if name == "model" {
			modelFound = true
		} else {
			invalid = append(invalid, name)
		}
	}
	var items []report.Item
	if modelFound {
		items = append(items, report.InvalidOptions(
			[]string{"model"}, allowed, "quorum device", nil,
		))
	}
	if len(invalid) > 0 {
		items = append(items, report.InvalidOptions(
			invalid, allowed, "quorum device", nil,
		).Forceable(report.ForceOptions, force))
	}
	return items
}

func qdeviceAddHeuristicsOptions(options map[string]string, force bool) []report.Item {
	nonexec, exec := splitHeuristicsExecOptions(options)
	checkers := heuristicsCheckers(false, force)
	execNameItems, validExecNames := checkHeuristicsExecNames(exec)
	for _, name := range validExecNames {
		checkers = append(checkers,
			validate.ValueNotEmpty(name, "a command to be run"))
	}
	items := validate.RunAll(validate.ValuesToPairs(options), checkers...)
	items = append(items, heuristicsNonexecNames(nonexec, force)...)
	return append(items, execNameItems...)
}

func qdeviceUpdateHeuristicsOptions(options map[string]string, force bool) []report.Item {
	nonexec, exec := splitHeuristicsExecOptions(options)
	// Values of valid exec options need no check on update; an empty
	// value removes the option.
	execNameItems, _ := checkHeuristicsExecNames(exec)
	items := validate.RunAll(
		validate.ValuesToPairs(options), heuristicsCheckers(true, force)...,
	)
	items = append(items, heuristicsNonexecNames(nonexec, force)...)
	return append(items, execNameItems...)
}

func splitHeuristicsExecOptions(options map[string]string) (nonexec, exec map[string]string) {
	nonexec = map[string]string{}
	exec = map[string]string{}
	for name, value := range options {
		if strings.HasPrefix(name, "exec_") {
			exec[name] = value
		} else {
			nonexec[name] = value
		}
	}
	return nonexec, exec
}

func heuristicsCheckers(allowEmpty, force bool) []validate.Checker {
	extra := validate.Forceable(report.ForceOptions, force)
	checkers := []validate.Checker{
		validate.ValueIn("mode", []string{"off", "on", "sync"}, extra),
		validate.ValuePositiveInteger("interval", extra),
		validate.ValuePositiveInteger("sync_timeout", extra),
		validate.ValuePositiveInteger("timeout", extra),
	}
	if !allowEmpty {
		return checkers
	}
	names := []string{"mode", "interval", "sync_timeout", "timeout"}
	wrapped := make([]validate.Checker, len(checkers))
	for i, checker := range checkers {
		wrapped[i] = validate.ValueEmptyOrValid(names[i], checker)
	}
	return wrapped
}

// checkHeuristicsExecNames validates exec option names against the strict
// name syntax and returns the valid ones for further value checks. The
// syntax is never overridable; a crafted exec_NAME could smuggle
// arbitrary settings into corosync.conf.
func checkHeuristicsExecNames(exec map[string]string) ([]report.Item, []string) {
	var invalid, valid []string
	for _, name := range sortedNames(exec) {
		if heuristicsExecNameRe.MatchString(name) {
			valid = append(valid, name)
		} else {
			invalid = append(invalid, name)
		}
	}
	var items []report.Item
	if len(invalid) > 0 {
		items = append(items, report.InvalidUserdefinedOptions(
			invalid,
			"exec_NAME cannot contain '.:{}#' and whitespace characters",
			"heuristics",
		))
	}
	return items, valid
}

func heuristicsNonexecNames(nonexec map[string]string, force bool) []report.Item {
	allowed := []string{"interval", "mode", "sync_timeout", "timeout"}
	return validate.NamesIn(
		allowed,
		sortedNames(nonexec),
		"heuristics",
		[]string{"exec_NAME"},
		validate.Forceable(report.ForceOptions, force),
	)
}

func qdeviceAddModelNetOptions(options map[string]string, nodeIDs []string, force bool) []report.Item {
	allowed := qdeviceNetAllowedOptions()
	checkers := make([]validate.Checker, 0, len(qdeviceNetRequiredOptions))
	for _, name := range qdeviceNetRequiredOptions {
		checkers = append(checkers,
			validate.IsRequired(name, "quorum device model"))
	}
	checkers = append(checkers, qdeviceNetCheckers(nodeIDs, false, force)...)
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(pairs, checkers...)
	return append(items, validate.NamesIn(
		allowed, pairs.Names(), "quorum device model", nil,
		validate.Forceable(report.ForceOptions, force),
	)...)
}

func qdeviceUpdateModelNetOptions(options map[string]string, nodeIDs []string, force bool) []report.Item {
	pairs := validate.ValuesToPairs(options)
	items := validate.RunAll(pairs, qdeviceNetCheckers(nodeIDs, true, force)...)
	return append(items, validate.NamesIn(
		qdeviceNetAllowedOptions(), pairs.Names(), "quorum device model", nil,
		validate.Forceable(report.ForceOptions, force),
	)...)
}

func qdeviceNetAllowedOptions() []string {
	return append(
		append([]string{}, qdeviceNetRequiredOptions...),
		qdeviceNetOptionalOptions...,
	)
}

// qdeviceNetCheckers builds the value checkers of the net model. The host
// and algorithm checks stay strict even with allowEmpty; both options are
// required and cannot be unset by an update.
func qdeviceNetCheckers(nodeIDs []string, allowEmpty, force bool) []validate.Checker {
	extra := validate.Forceable(report.ForceOptions, force)
	optional := map[string]validate.Checker{
		"connect_timeout": validate.ValueIntegerInRange(
			"connect_timeout", 1000, 2*60*1000, extra,
		),
		"force_ip_version": validate.ValueIn(
			"force_ip_version", []string{"0", "4", "6"}, extra,
		),
		"port": validate.ValuePortNumber("port", extra),
		"tie_breaker": validate.ValueIn(
			"tie_breaker",
			append([]string{"lowest", "highest"}, nodeIDs...),
			extra,
		),
	}
	checkers := []validate.Checker{
		validate.ValueNotEmpty("host", "a qdevice host address"),
		qdeviceNetAlgorithmChecker(force),
	}
	for _, name := range qdeviceNetOptionalOptions {
		checker := optional[name]
		if allowEmpty {
			checker = validate.ValueEmptyOrValid(name, checker)
		}
		checkers = append(checkers, checker)
	}
	return checkers
}

// qdeviceNetAlgorithmChecker reports an empty algorithm value with its own
// non-forceable report; a non-empty value goes through the standard
// membership check which honors the force flag.
func qdeviceNetAlgorithmChecker(force bool) validate.Checker {
	allowedAlgorithms := []string{"ffsplit", "lms"}
	return validate.IfOptionExists("algorithm",
		func(options validate.Options) []report.Item {
			pair := options["algorithm"]
			if validate.IsEmptyString(pair.Normalized) {
				return []report.Item{report.InvalidOptionValue(
					"algorithm", pair.Original,
					report.QuotedList(allowedAlgorithms),
				)}
			}
			return validate.ValueIn("algorithm", allowedAlgorithms,
				validate.Forceable(report.ForceOptions, force))(options)
		})
}

func sortedNames(options map[string]string) []string {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
