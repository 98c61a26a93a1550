// SPDX-License-Identifier: MPL-2.0

package cliscan

import (
	"strings"
)

// Usage renders the option table as grouped help text. Each group is printed
// under its title in table order.
func Usage[T comparable](synopsis string, table Table[T]) string {
	var sb strings.Builder
	sb.WriteString(synopsis)
	sb.WriteString("\n")

	for _, group := range table {
		fs := newFlagSet(group.Title)
		for _, opt := range group.Options {
			register(fs, &recorder[T]{opt: opt, events: new([]Event[T])})
		}

		sb.WriteString("\n")
		sb.WriteString(group.Title)
		sb.WriteString(":\n")
		sb.WriteString(fs.FlagUsages())
	}
	return sb.String()
}
