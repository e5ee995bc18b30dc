package extract

import "slices"

// Entry is one extracted diagnostic record.
type Entry struct {
	Type    string
	Message string
}

// Group pairs a context with the entries extracted under it, in
// discovery order.
type Group struct {
	Context Context
	Entries []Entry
}

// GroupedSink accumulates entries keyed by context. Groups are created
// lazily on first entry; entries append in the order extraction
// occurs.
type GroupedSink struct {
	groups map[Context][]Entry
}

// NewGroupedSink returns an empty sink.
func NewGroupedSink() *GroupedSink {
	return &GroupedSink{groups: make(map[Context][]Entry)}
}

// Add appends an entry under the given context.
func (s *GroupedSink) Add(ctx Context, e Entry) {
	s.groups[ctx] = append(s.groups[ctx], e)
}

// Len returns the total number of entries across all groups.
func (s *GroupedSink) Len() int {
	if s == nil {
		return 0
	}
	n := 0
	for _, entries := range s.groups {
		n += len(entries)
	}
	return n
}

// Empty reports whether the sink holds no entries.
func (s *GroupedSink) Empty() bool { return s.Len() == 0 }

// GroupCount returns the number of distinct contexts.
func (s *GroupedSink) GroupCount() int {
	if s == nil {
		return 0
	}
	return len(s.groups)
}

// Groups returns the accumulated groups sorted by context: attempt
// ascending with unset after every integer, ties broken by round with
// the same rule. The order never depends on map iteration order.
func (s *GroupedSink) Groups() []Group {
	if s == nil {
		return nil
	}
	out := make([]Group, 0, len(s.groups))
	for ctx, entries := range s.groups {
		out = append(out, Group{Context: ctx, Entries: entries})
	}
	slices.SortFunc(out, func(a, b Group) int {
		return a.Context.Compare(b.Context)
	})
	return out
}
