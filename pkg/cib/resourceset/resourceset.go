// Package resourceset builds the resource_set elements shared by set-based
// constraints. A set is an ordered list of resource ids plus options telling
// the resource manager how to treat the members.
package resourceset

import (
	"sort"
	"strings"

	"github.com/dd0wney/cluso-clusterconf/pkg/cib"
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// Set describes one resource set as requested by the caller.
type Set struct {
	IDs     []string
	Options map[string]string
}

// Exported is the report payload form of a resource_set element.
type Exported struct {
	IDs     []string          `json:"ids"`
	Options map[string]string `json:"options"`
}

// setOptions is the closed table of set options and their allowed values.
// Pacemaker accepts any of them on any set-based constraint, so the same
// table serves every constraint type.
var setOptions = map[string][]string{
	"action":      {"start", "promote", "demote", "stop"},
	"require-all": {"true", "false"},
	"role":        {"Stopped", "Started", "Master", "Slave"},
	"sequential":  {"true", "false"},
}

func setOptionNames() []string {
	names := make([]string, 0, len(setOptions))
	for name := range setOptions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrepareSet validates the set options and maps every member id through
// resolveID, which corrects a reference to a wrapped resource onto its
// wrapper where that repair is allowed. The returned set carries the
// corrected ids.
func PrepareSet(resolveID func(id string) (string, error), set Set) (Set, error) {
	if err := validateOptions(set.Options); err != nil {
		return Set{}, err
	}
	ids := make([]string, len(set.IDs))
	for i, id := range set.IDs {
		resolved, err := resolveID(id)
		if err != nil {
			return Set{}, err
		}
		ids[i] = resolved
	}
	return Set{IDs: ids, Options: set.Options}, nil
}

func validateOptions(options map[string]string) error {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		allowed, known := setOptions[name]
		if !known {
			return report.NewLibraryError(report.InvalidOptions(
				[]string{name}, setOptionNames(), "set", nil,
			))
		}
		value := options[name]
		valueOK := false
		for _, candidate := range allowed {
			if value == candidate {
				valueOK = true
				break
			}
		}
		if !valueOK {
			return report.NewLibraryError(report.InvalidOptionValue(
				name, value, report.QuotedList(allowed),
			))
		}
	}
	return nil
}

// Create appends a resource_set element to parent: the set options as
// attributes, a generated id unique within the whole tree, and one
// resource_ref child per member id in order.
func Create(parent *cib.Element, set Set) *cib.Element {
	element := parent.NewChild("resource_set")
	element.SetAttributes(set.Options)
	element.SetAttribute("id", cib.FindUniqueID(
		parent.Root(),
		"pcs_rsc_set_"+strings.Join(set.IDs, "_"),
	))
	for _, id := range set.IDs {
		element.NewChild("resource_ref").SetAttribute("id", id)
	}
	return element
}

// GetResourceIDSetList returns the member ids of a resource_set element in
// document order.
func GetResourceIDSetList(element *cib.Element) []string {
	refs := element.FindDescendantsByTag("resource_ref")
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID()
	}
	return ids
}

// ExtractIDSetList returns the ordered id lists of the given sets.
func ExtractIDSetList(sets []Set) [][]string {
	idSets := make([][]string, len(sets))
	for i, set := range sets {
		idSets[i] = set.IDs
	}
	return idSets
}

// Export renders a resource_set element into its report payload form. The
// options carry every attribute, the generated set id included; renderers
// decide what to show.
func Export(element *cib.Element) Exported {
	return Exported{
		IDs:     GetResourceIDSetList(element),
		Options: cib.ExportAttributes(element),
	}
}
