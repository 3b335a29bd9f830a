// Package cib models the cluster information base as a generic labeled tree
// and provides the id handling the constraint builder relies on. The tree is
// an already-parsed view handed in by the caller; this package never touches
// serialization.
package cib

// Element is one node of the configuration tree: a tag, a flat attribute
// map and ordered children. Children are owned by their parent; the parent
// pointer is a non-owning back-reference for ancestor lookups.
type Element struct {
	Tag        string
	attributes map[string]string
	children   []*Element
	parent     *Element
}

// NewElement creates a detached element.
func NewElement(tag string) *Element {
	return &Element{
		Tag:        tag,
		attributes: map[string]string{},
	}
}

// NewChild creates an element and appends it to e.
func (e *Element) NewChild(tag string) *Element {
	child := NewElement(tag)
	e.AppendChild(child)
	return child
}

// AppendChild adds child as the last child of e, reparenting it if needed.
func (e *Element) AppendChild(child *Element) *Element {
	if child.parent != nil {
		child.parent.removeChild(child)
	}
	child.parent = e
	e.children = append(e.children, child)
	return child
}

func (e *Element) removeChild(child *Element) {
	for i, candidate := range e.children {
		if candidate == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the parent element, nil for a root.
func (e *Element) Parent() *Element {
	return e.parent
}

// Children returns the child elements in document order.
func (e *Element) Children() []*Element {
	children := make([]*Element, len(e.children))
	copy(children, e.children)
	return children
}

// ID returns the element's id attribute, empty when unset.
func (e *Element) ID() string {
	return e.attributes["id"]
}

// Attribute returns the named attribute value, empty when unset.
func (e *Element) Attribute(name string) string {
	return e.attributes[name]
}

// HasAttribute reports whether the attribute is set, even to "".
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attributes[name]
	return ok
}

// SetAttribute sets one attribute.
func (e *Element) SetAttribute(name, value string) {
	e.attributes[name] = value
}

// SetAttributes sets every attribute from the map, keeping the rest.
func (e *Element) SetAttributes(attributes map[string]string) {
	for name, value := range attributes {
		e.attributes[name] = value
	}
}

// Attributes returns a copy of the attribute map.
func (e *Element) Attributes() map[string]string {
	attributes := make(map[string]string, len(e.attributes))
	for name, value := range e.attributes {
		attributes[name] = value
	}
	return attributes
}

// walk visits e and its descendants in document order until fn returns
// false.
func (e *Element) walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, child := range e.children {
		if !child.walk(fn) {
			return false
		}
	}
	return true
}

// FindDescendantsByTag returns all descendants with the tag in document
// order. The element itself is not considered.
func (e *Element) FindDescendantsByTag(tag string) []*Element {
	var found []*Element
	for _, child := range e.children {
		child.walk(func(element *Element) bool {
			if element.Tag == tag {
				found = append(found, element)
			}
			return true
		})
	}
	return found
}

// FindAnyByID returns the first element in document order whose id attribute
// matches, the element itself included. Nil when there is none.
func (e *Element) FindAnyByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	e.walk(func(element *Element) bool {
		if element.ID() == id {
			found = element
			return false
		}
		return true
	})
	return found
}

// Root returns the top of the tree e belongs to.
func (e *Element) Root() *Element {
	root := e
	for root.parent != nil {
		root = root.parent
	}
	return root
}
