package overlap

// Index tracks half-open [start, end) minute intervals grouped by a
// field/date key. It is used to detect time conflicts between slots that
// share a field on the same calendar date. Interval counts per key are
// small (a handful of slots per field per day), so a linear scan is enough.
type Index struct {
	intervals map[string][]span
}

type span struct {
	start int
	end   int
}

// New creates an empty Index.
func New() *Index {
	return &Index{intervals: make(map[string][]span)}
}

// Key builds the composite lookup key for a field on a date.
func Key(fieldKey, gameDate string) string {
	return fieldKey + "|" + gameDate
}

// Add records an interval under the key unconditionally.
func (ix *Index) Add(key string, start, end int) {
	ix.intervals[key] = append(ix.intervals[key], span{start: start, end: end})
}

// AddUnique records an interval unless an identical interval already exists
// under the key. It returns false, without inserting, on an exact duplicate.
func (ix *Index) AddUnique(key string, start, end int) bool {
	for _, s := range ix.intervals[key] {
		if s.start == start && s.end == end {
			return false
		}
	}
	ix.Add(key, start, end)
	return true
}

// HasOverlap reports whether any stored interval under the key overlaps
// [start, end). Touching intervals (end == other.start) do not overlap.
func (ix *Index) HasOverlap(key string, start, end int) bool {
	for _, s := range ix.intervals[key] {
		if start < s.end && s.start < end {
			return true
		}
	}
	return false
}

// Len returns the number of intervals stored under the key.
func (ix *Index) Len(key string) int {
	return len(ix.intervals[key])
}
