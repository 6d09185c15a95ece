package driver

import (
	"sort"
	"strings"
)

// AreaSet is a normalized set of operating-area labels. Labels are trimmed
// and lower-cased so matching is case-insensitive.
type AreaSet map[string]struct{}

// areaSplitter treats ';', ',' and '|' as delimiters between area labels.
func areaSplitter(r rune) bool {
	return r == ';' || r == ',' || r == '|'
}

// ParseAreas normalizes a primary region plus a delimiter-separated list of
// extra areas into an AreaSet. Empty fragments are dropped; an empty result
// means the driver has no operating area configured.
func ParseAreas(region string, extra string) AreaSet {
	set := make(AreaSet)

	add := func(raw string) {
		label := strings.ToLower(strings.TrimSpace(raw))
		if label != "" {
			set[label] = struct{}{}
		}
	}

	add(region)
	for _, part := range strings.FieldsFunc(extra, areaSplitter) {
		add(part)
	}

	return set
}

// Empty reports whether no area is configured.
func (set AreaSet) Empty() bool {
	return len(set) == 0
}

// Contains reports whether the set contains the label, case-insensitively.
func (set AreaSet) Contains(label string) bool {
	_, ok := set[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// ContainsAny reports whether the set contains any of the labels.
func (set AreaSet) ContainsAny(labels []string) bool {
	for _, label := range labels {
		if set.Contains(label) {
			return true
		}
	}
	return false
}

// Labels returns the set's labels in sorted order, for user display.
func (set AreaSet) Labels() []string {
	out := make([]string, 0, len(set))
	for label := range set {
		out = append(out, label)
	}
	sort.Strings(out)
	return out
}

// String renders the set as a comma-joined list.
func (set AreaSet) String() string {
	return strings.Join(set.Labels(), ", ")
}
