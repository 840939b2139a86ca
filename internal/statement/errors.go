package statement

import "fmt"

// MalformedRowError reports a raw row that cannot be normalized.
type MalformedRowError struct {
	Row    int    // 1-based position in the raw table, header included
	Column string // "amount", "balance", or empty for row-shape problems
	Value  string
	Err    error
}

func (e *MalformedRowError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("row %d: malformed row: %v", e.Row, e.Err)
	}
	return fmt.Sprintf("row %d: malformed %s %q: %v", e.Row, e.Column, e.Value, e.Err)
}

func (e *MalformedRowError) Unwrap() error { return e.Err }
