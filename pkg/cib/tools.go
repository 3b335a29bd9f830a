package cib

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-clusterconf/pkg/report"
)

// DoesIDExist reports whether any element in the tree carries the id.
func DoesIDExist(tree *Element, id string) bool {
	return tree.FindAnyByID(id) != nil
}

// FindUniqueID returns id itself when free, otherwise the first free
// "id-1", "id-2", ... variant.
func FindUniqueID(tree *Element, id string) string {
	candidate := id
	for counter := 1; DoesIDExist(tree, candidate); counter++ {
		candidate = fmt.Sprintf("%s-%d", id, counter)
	}
	return candidate
}

// FindParent returns the closest element with one of the tags, starting the
// search at element itself. Nil when no ancestor matches.
func FindParent(element *Element, tags []string) *Element {
	for candidate := element; candidate != nil; candidate = candidate.Parent() {
		if slices.Contains(tags, candidate.Tag) {
			return candidate
		}
	}
	return nil
}

// ExportAttributes returns a copy of the element's attributes for report
// payloads.
func ExportAttributes(element *Element) map[string]string {
	return element.Attributes()
}

// ValidateID checks id syntax: the first character must be a letter or an
// underscore, the rest letters, digits, underscores, dots or hyphens. The
// first offending character is reported.
func ValidateID(id, description string) []report.Item {
	if len(id) < 1 {
		return []report.Item{report.EmptyID(id, description)}
	}
	first := id[0]
	if !isIDStartChar(first) {
		return []report.Item{
			report.InvalidID(id, description, string(first), true),
		}
	}
	for i := 1; i < len(id); i++ {
		if !isIDChar(id[i]) {
			return []report.Item{
				report.InvalidID(id, description, string(id[i]), false),
			}
		}
	}
	return nil
}

// CheckNewIDApplicable checks that id is syntactically valid and not yet
// used in the tree.
func CheckNewIDApplicable(tree *Element, id, description string) []report.Item {
	items := ValidateID(id, description)
	if len(items) > 0 {
		return items
	}
	if DoesIDExist(tree, id) {
		return []report.Item{report.IDAlreadyExists(id)}
	}
	return nil
}

func isIDStartChar(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIDChar(c byte) bool {
	return isIDStartChar(c) || (c >= '0' && c <= '9') || c == '.' || c == '-'
}
