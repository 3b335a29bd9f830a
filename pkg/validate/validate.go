// Package validate provides the reusable option-checking toolkit the
// corosync and constraint validators are built from. A Checker inspects one
// aspect of an option map and reports findings; checkers are composed with
// RunAll, which always runs every checker so a single pass collects the full
// picture instead of stopping at the first problem.
package validate

import (
	"slices"
	"sort"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// ValuePair holds an option value in the form the user entered it and in the
// normalized form validation runs against. Reports always show the original
// so the user recognizes their own input.
type ValuePair struct {
	Original   string
	Normalized string
}

// Pair wraps a plain value whose normalized form equals the original.
func Pair(value string) ValuePair {
	return ValuePair{Original: value, Normalized: value}
}

// Options is an option map under validation. An empty string value is a real
// value (the "unset" sentinel on updates); a missing key means the option was
// not supplied at all.
type Options map[string]ValuePair

// ValuesToPairs converts a plain option map into Options.
func ValuesToPairs(values map[string]string) Options {
	options := make(Options, len(values))
	for name, value := range values {
		options[name] = Pair(value)
	}
	return options
}

// PairsToValues flattens Options back to a plain map of normalized values.
func PairsToValues(options Options) map[string]string {
	values := make(map[string]string, len(options))
	for name, pair := range options {
		values[name] = pair.Normalized
	}
	return values
}

// Names returns the option names in deterministic order.
func (o Options) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Checker examines an option map and returns its findings. A checker whose
// target option is absent returns nothing; pairing with IsRequired makes an
// option mandatory.
type Checker func(options Options) []report.Item

// RunAll runs every checker over the same option map and concatenates the
// findings in checker order.
func RunAll(options Options, checkers ...Checker) []report.Item {
	var items []report.Item
	for _, checker := range checkers {
		items = append(items, checker(options)...)
	}
	return items
}

// Force is the escape hatch a checker construction may accept. When Forced is
// false the checker emits errors carrying Code; when true the override was
// already requested and the checker emits pre-downgraded warnings. Checkers
// constructed without a Force never downgrade.
type Force struct {
	Code   report.ForceCode
	Forced bool
}

// Forceable builds the Force argument for a checker.
func Forceable(code report.ForceCode, forced bool) Force {
	return Force{Code: code, Forced: forced}
}

func applyForce(item report.Item, force []Force) report.Item {
	if len(force) == 0 {
		return item
	}
	return item.Forceable(force[0].Code, force[0].Forced)
}

// IsRequired reports an error when the option is not present at all.
func IsRequired(optionName, optionType string) Checker {
	return func(options Options) []report.Item {
		if _, ok := options[optionName]; !ok {
			return []report.Item{
				report.RequiredOptionIsMissing([]string{optionName}, optionType),
			}
		}
		return nil
	}
}

// DependsOnOption reports an error when optionName is supplied without
// prerequisiteName. Both names are looked up in the same option map, so the
// rule only applies to options set in a single request.
func DependsOnOption(optionName, prerequisiteName, optionType, prerequisiteType string) Checker {
	return func(options Options) []report.Item {
		_, hasOption := options[optionName]
		_, hasPrerequisite := options[prerequisiteName]
		if hasOption && !hasPrerequisite {
			return []report.Item{
				report.PrerequisiteOptionIsMissing(
					optionName, prerequisiteName, optionType, prerequisiteType,
				),
			}
		}
		return nil
	}
}

// ValueEmptyOrValid accepts an empty value as "unset this option" and
// otherwise delegates to the wrapped checker. Update-style validators wrap
// their value checkers in this.
func ValueEmptyOrValid(optionName string, checker Checker) Checker {
	return func(options Options) []report.Item {
		pair, ok := options[optionName]
		if !ok {
			return nil
		}
		if IsEmptyString(pair.Normalized) {
			return nil
		}
		return checker(options)
	}
}

// IfOptionExists runs the wrapped checker only when the option is present.
func IfOptionExists(optionName string, checker Checker) Checker {
	return func(options Options) []report.Item {
		if _, ok := options[optionName]; !ok {
			return nil
		}
		return checker(options)
	}
}

// NamesIn checks that every supplied option name is recognized and reports
// the unrecognized rest. allowedPatterns carries labels of name patterns
// accepted besides the plain names, for message rendering only; names
// matching a pattern must be filtered out by the caller beforehand.
func NamesIn(allowedNames, optionNames []string, optionType string, allowedPatterns []string, force ...Force) []report.Item {
	var invalid []string
	for _, name := range optionNames {
		if !slices.Contains(allowedNames, name) {
			invalid = append(invalid, name)
		}
	}
	if len(invalid) == 0 {
		return nil
	}
	return []report.Item{applyForce(
		report.InvalidOptions(invalid, allowedNames, optionType, allowedPatterns),
		force,
	)}
}

// IsEmptyString reports whether the value is empty.
func IsEmptyString(value string) bool {
	return value == ""
}
