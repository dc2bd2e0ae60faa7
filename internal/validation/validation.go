package validation

import (
	"sort"
	"strings"
)

// Errors collects field-keyed validation messages for a submitted form. A nil
// or empty Errors means the input passed.
type Errors map[string]string

// Add records a message for a field, keeping the first message per field.
func (e Errors) Add(field, message string) {
	if _, ok := e[field]; !ok {
		e[field] = message
	}
}

// Error joins the messages in field order.
func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// AsError returns e as an error, or nil when no messages were recorded.
func (e Errors) AsError() error {
	if len(e) == 0 {
		return nil
	}
	return e
}
