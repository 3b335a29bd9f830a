package cib

import "slices"

// Resource element tags. A clone or master wraps another resource; a
// constraint must address the wrapper, not the wrapped resource, unless the
// caller explicitly allows otherwise.
var (
	TagsClone    = []string{"clone", "master"}
	TagsResource = []string{"primitive", "group", "clone", "master"}
)

// FindResourceByID returns the first element with the id whose tag is a
// resource tag, nil when there is none.
func FindResourceByID(tree *Element, id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	tree.walk(func(element *Element) bool {
		if element.ID() == id && slices.Contains(TagsResource, element.Tag) {
			found = element
			return false
		}
		return true
	})
	return found
}
