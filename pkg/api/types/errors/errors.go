// Package errors defines the response body of API errors.
package errors

import (
	"maps"
	"slices"
	"strings"
)

// key of messages which are not about a specific field.
const Detail = "detail"

// ErrorMessage maps field names (or Detail) to messages.
//
// For example:
//
//	{"title": ["Ensure this field has no more than 200 characters."]}
//	{"detail": ["Not found."]}
type ErrorMessage map[string][]string

// General creates ErrorMessage with messages not about a specific field.
func General(messages ...string) ErrorMessage {
	return ErrorMessage{Detail: messages}
}

// Fields creates ErrorMessage from messages per field. fields is copied.
func Fields(fields map[string][]string) ErrorMessage {
	em := make(ErrorMessage, len(fields))
	for k, v := range fields {
		em[k] = slices.Clone(v)
	}
	return em
}

func (em ErrorMessage) String() string {
	msgs := []string{}
	for _, k := range slices.Sorted(maps.Keys(em)) {
		msgs = append(msgs, k+": "+strings.Join(em[k], " "))
	}
	return strings.Join(msgs, "; ")
}
