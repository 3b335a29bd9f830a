// Package report defines the diagnostic item produced by every validator in
// this library. Validation never stops at the first problem; each pass returns
// an ordered list of Items and the caller decides whether the change is
// admissible.
package report

// Severity indicates whether an item blocks the requested change
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
)

// ForceCode identifies an escape hatch a caller may supply to downgrade a
// specific class of errors to warnings. An item carrying a force code is an
// ERROR that the named code would downgrade; a downgraded item carries no
// force code at all.
type ForceCode string

const (
	ForceOptions                   ForceCode = "FORCE_OPTIONS"
	ForceQdeviceModel              ForceCode = "FORCE_QDEVICE_MODEL"
	ForceNodeAddressesUnresolvable ForceCode = "FORCE_NODE_ADDRESSES_UNRESOLVABLE"
)

// Item is a single diagnostic finding. Code is machine-readable and stable,
// Message is a human-readable rendering, Details carries the structured
// payload a frontend needs to re-render the message in another language.
type Item struct {
	Code      Code           `json:"code"`
	Severity  Severity       `json:"severity"`
	ForceCode ForceCode      `json:"force_code,omitempty"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
}

// IsError reports whether the item blocks the change.
func (i Item) IsError() bool {
	return i.Severity == SeverityError
}

// Forceable marks the item as overridable by the given force code. When
// forced is true the override has already been requested, so the item is
// returned pre-downgraded to a warning with no force code attached. The
// decision is made here, at construction time; collected items are never
// reinterpreted later.
func (i Item) Forceable(code ForceCode, forced bool) Item {
	if forced {
		i.Severity = SeverityWarning
		i.ForceCode = ""
		return i
	}
	i.ForceCode = code
	return i
}

// HasErrors reports whether any item in the list is an error.
func HasErrors(items []Item) bool {
	for _, item := range items {
		if item.IsError() {
			return true
		}
	}
	return false
}

// CountSeverity returns the number of items with the given severity.
func CountSeverity(items []Item, severity Severity) int {
	count := 0
	for _, item := range items {
		if item.Severity == severity {
			count++
		}
	}
	return count
}

// Codes returns the codes of all items in order, duplicates included.
func Codes(items []Item) []Code {
	codes := make([]Code, len(items))
	for i, item := range items {
		codes[i] = item.Code
	}
	return codes
}
