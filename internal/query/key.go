package query

import (
	"encoding/json"
	"fmt"
)

// Key identifies a cacheable request, e.g. Key{"details", 7}.
// Two keys are equal when their String forms are equal.
type Key []any

// String returns the canonical JSON array form of the key.
func (k Key) String() string {
	if len(k) == 0 {
		return "[]"
	}
	b, err := json.Marshal([]any(k))
	if err != nil {
		return fmt.Sprintf("%v", []any(k))
	}
	return string(b)
}
