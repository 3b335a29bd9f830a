package report

import (
	"errors"
	"strings"
)

// LibraryError is returned by operations that refuse to proceed. It carries
// the report items explaining why, so callers present diagnostics instead of
// a bare error string.
type LibraryError struct {
	Items []Item
}

// NewLibraryError wraps report items into an error.
func NewLibraryError(items ...Item) *LibraryError {
	return &LibraryError{Items: items}
}

// Error implements the error interface.
func (e *LibraryError) Error() string {
	if len(e.Items) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(e.Items))
	for i, item := range e.Items {
		messages[i] = item.Message
	}
	return strings.Join(messages, "; ")
}

// ItemsFromError extracts report items from an error chain. It returns nil
// when the error carries no report items.
func ItemsFromError(err error) []Item {
	var libErr *LibraryError
	if errors.As(err, &libErr) {
		return libErr.Items
	}
	return nil
}
