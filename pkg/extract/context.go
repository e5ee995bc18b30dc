// Package extract implements the context-propagating, cycle-safe
// traversal that harvests (errorType, message) records from generation
// report documents and groups them by their ambient attempt/round
// context.
package extract

import "strconv"

// OptInt is an optional integer. The zero value is "unset", which
// renders as None to stay byte-compatible with the established report
// format.
type OptInt struct {
	Value int64
	Valid bool
}

// SomeInt returns a set OptInt.
func SomeInt(v int64) OptInt { return OptInt{Value: v, Valid: true} }

// String renders the value, or "None" when unset.
func (o OptInt) String() string {
	if !o.Valid {
		return "None"
	}
	return strconv.FormatInt(o.Value, 10)
}

// compare orders OptInt ascending with unset values after every set
// value. Returns -1, 0, or 1.
func (o OptInt) compare(other OptInt) int {
	switch {
	case o.Valid && !other.Valid:
		return -1
	case !o.Valid && other.Valid:
		return 1
	case !o.Valid && !other.Valid:
		return 0
	case o.Value < other.Value:
		return -1
	case o.Value > other.Value:
		return 1
	default:
		return 0
	}
}

// Context is the (attempt, round) pair in scope for a document
// subtree. It is a value type: each queued child receives its own
// snapshot, so overrides on one branch can never leak into a sibling
// branch. The zero value is the root context (both unset).
type Context struct {
	Attempt OptInt
	Round   OptInt
}

// Compare orders contexts by attempt ascending (unset last), then by
// round ascending (unset last).
func (c Context) Compare(other Context) int {
	if d := c.Attempt.compare(other.Attempt); d != 0 {
		return d
	}
	return c.Round.compare(other.Round)
}

// String renders the context in the report header form,
// e.g. "attempt=3 round=None".
func (c Context) String() string {
	return "attempt=" + c.Attempt.String() + " round=" + c.Round.String()
}
