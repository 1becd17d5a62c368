// Package compileunit stamps each compilation unit (one per top-level
// input file) with a correlation id, so structured log lines emitted
// across every pipeline stage for that file can be tied back together,
// the same way a request-scoped correlation id ties together the log
// lines for one HTTP request.
package compileunit

import "github.com/google/uuid"

// ID is a correlation id for one compilation unit.
type ID string

// New generates a fresh correlation id.
func New() ID {
	return ID(uuid.NewString())
}

func (id ID) String() string { return string(id) }
