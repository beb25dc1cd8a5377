// Package issues provides an insertion-ordered set of advisory findings.
//
// Advisories are never returned as errors. Components compose a Set and
// expose it read-only so callers decide whether a non-empty set is a failure.
package issues

// Set is an insertion-ordered set of issue messages. The zero value is ready to use.
type Set struct {
	order []string
	seen  map[string]struct{}
}

// Add records an issue. Duplicates collapse onto the first occurrence.
func (s *Set) Add(issue string) {
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[issue]; ok {
		return
	}
	s.seen[issue] = struct{}{}
	s.order = append(s.order, issue)
}

// Merge adds every issue from other, preserving other's order.
func (s *Set) Merge(other *Set) {
	if other == nil {
		return
	}
	for _, issue := range other.order {
		s.Add(issue)
	}
}

// Has reports whether issue has been recorded.
func (s *Set) Has(issue string) bool {
	_, ok := s.seen[issue]
	return ok
}

// Len returns the number of distinct issues.
func (s *Set) Len() int {
	return len(s.order)
}

// Empty reports whether no issues were recorded.
func (s *Set) Empty() bool {
	return len(s.order) == 0
}

// List returns a copy of the issues in insertion order.
func (s *Set) List() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}
