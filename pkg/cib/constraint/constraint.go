// Package constraint builds ordering, colocation and ticket constraints over
// an already-parsed configuration tree. Every operation validates its inputs
// and returns the diagnostics inside the error; the tree is only mutated by
// CreateWithSet, validation itself is side-effect free.
package constraint

import (
	"slices"
	"strings"

	"github.com/dd0wney/cluso-clusterconf/pkg/cib"
	"github.com/dd0wney/cluso-clusterconf/pkg/cib/resourceset"
	"github.com/dd0wney/cluso-clusterconf/pkg/report"
	"github.com/dd0wney/cluso-clusterconf/pkg/validate"
)

// FindValidResourceID resolves a resource reference for use in a constraint.
// A reference to a clone or master is returned as is. A reference to a
// resource wrapped in a clone or master resolves to the wrapper id when
// canRepairToClone is set, to the resource itself when inCloneAllowed is
// set, and fails otherwise naming both ids. A plain unwrapped resource
// resolves to itself.
func FindValidResourceID(tree *cib.Element, canRepairToClone, inCloneAllowed bool, id string) (string, error) {
	element := cib.FindResourceByID(tree, id)
	if element == nil {
		return "", report.NewLibraryError(report.ResourceDoesNotExist(id))
	}

	if slices.Contains(cib.TagsClone, element.Tag) {
		return element.ID(), nil
	}

	clone := cib.FindParent(element, cib.TagsClone)
	if clone == nil {
		return element.ID(), nil
	}

	if canRepairToClone {
		return clone.ID(), nil
	}

	if inCloneAllowed {
		return element.ID(), nil
	}

	if clone.Tag == "master" {
		return "", report.NewLibraryError(
			report.ResourceIsInMaster(element.ID(), clone.ID()),
		)
	}
	return "", report.NewLibraryError(
		report.ResourceIsInClone(element.ID(), clone.ID()),
	)
}

// PrepareResourceSetList validates every set and corrects its resource ids
// through FindValidResourceID. The first failure is terminal; resource
// resolution errors are never downgradable.
func PrepareResourceSetList(tree *cib.Element, canRepairToClone, inCloneAllowed bool, sets []resourceset.Set) ([]resourceset.Set, error) {
	resolveID := func(id string) (string, error) {
		return FindValidResourceID(tree, canRepairToClone, inCloneAllowed, id)
	}
	prepared := make([]resourceset.Set, len(sets))
	for i, set := range sets {
		preparedSet, err := resourceset.PrepareSet(resolveID, set)
		if err != nil {
			return nil, err
		}
		prepared[i] = preparedSet
	}
	return prepared, nil
}

// PrepareOptions validates option names against allowedNames plus "id" and
// fills in the id: a missing one is synthesized with createID, a supplied
// one is checked with validateID. The input map is not modified.
func PrepareOptions(allowedNames []string, options map[string]string, createID func() string, validateID func(id string) error) (map[string]string, error) {
	names := make([]string, 0, len(options))
	for name := range options {
		names = append(names, name)
	}
	slices.Sort(names)

	allowed := make([]string, 0, len(allowedNames)+1)
	allowed = append(allowed, allowedNames...)
	allowed = append(allowed, "id")
	if items := validate.NamesIn(allowed, names, "constraint", nil); len(items) > 0 {
		return nil, report.NewLibraryError(items...)
	}

	prepared := make(map[string]string, len(options)+1)
	for name, value := range options {
		prepared[name] = value
	}
	if _, ok := prepared["id"]; !ok {
		prepared["id"] = createID()
	} else if err := validateID(prepared["id"]); err != nil {
		return nil, err
	}
	return prepared, nil
}

// CreateID generates a constraint id from the member ids of its resource
// sets and makes it unique within the tree.
func CreateID(tree *cib.Element, typePrefix string, sets []resourceset.Set) string {
	var builder strings.Builder
	builder.WriteString("pcs_")
	builder.WriteString(typePrefix)
	for _, idSet := range resourceset.ExtractIDSetList(sets) {
		builder.WriteString("_set_")
		builder.WriteString(strings.Join(idSet, "_"))
	}
	return cib.FindUniqueID(tree, builder.String())
}

// HaveDuplicateResourceSets reports whether two constraint elements carry
// equal ordered sequences of ordered resource id sets. Set options do not
// take part in the comparison.
func HaveDuplicateResourceSets(element, other *cib.Element) bool {
	idSetList := func(element *cib.Element) [][]string {
		setElements := element.FindDescendantsByTag("resource_set")
		idSets := make([][]string, len(setElements))
		for i, setElement := range setElements {
			idSets[i] = resourceset.GetResourceIDSetList(setElement)
		}
		return idSets
	}
	return slices.EqualFunc(idSetList(element), idSetList(other), slices.Equal)
}

// CheckIsWithoutDuplication fails when constraintSection already holds a
// constraint of the same tag that areDuplicate considers equal to element.
// The duplicates are exported into the error payload.
func CheckIsWithoutDuplication(
	constraintSection, element *cib.Element,
	areDuplicate func(element, other *cib.Element) bool,
	exportElement func(element *cib.Element) any,
) error {
	var exported []any
	for _, other := range constraintSection.FindDescendantsByTag(element.Tag) {
		if other != element && areDuplicate(element, other) {
			exported = append(exported, exportElement(other))
		}
	}
	if len(exported) > 0 {
		return report.NewLibraryError(
			report.DuplicateConstraintsExist(element.Tag, exported),
		)
	}
	return nil
}

// CreateWithSet appends a set-based constraint element to the constraint
// section: the prepared options as attributes and one resource_set child per
// prepared set.
func CreateWithSet(constraintSection *cib.Element, tag string, options map[string]string, sets []resourceset.Set) *cib.Element {
	element := constraintSection.NewChild(tag)
	element.SetAttributes(options)
	for _, set := range sets {
		resourceset.Create(element, set)
	}
	return element
}

// Exported is the report payload form of a constraint element.
type Exported struct {
	ResourceSets []resourceset.Exported `json:"resource_sets,omitempty"`
	Attributes   map[string]string      `json:"attrib"`
}

// ExportWithSet renders a set-based constraint with its resource sets.
func ExportWithSet(element *cib.Element) Exported {
	setElements := element.FindDescendantsByTag("resource_set")
	sets := make([]resourceset.Exported, len(setElements))
	for i, setElement := range setElements {
		sets[i] = resourceset.Export(setElement)
	}
	return Exported{
		ResourceSets: sets,
		Attributes:   cib.ExportAttributes(element),
	}
}

// ExportPlain renders a plain two-resource constraint.
func ExportPlain(element *cib.Element) Exported {
	return Exported{Attributes: cib.ExportAttributes(element)}
}
