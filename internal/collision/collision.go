package collision

import "math"

// Entry is one row as seen by the detector.
type Entry struct {
	// Row is the zero-based position of the row in the source file.
	Row int `json:"row"`

	// Value is the original (pre-hash) value.
	Value string `json:"value"`

	// Full is the untruncated digest.
	Full string `json:"full"`

	// Truncated is the digest prefix used as the shared identifier.
	Truncated string `json:"truncated"`
}

// Group is a set of rows sharing one truncated digest. A Group always has
// at least two members.
type Group struct {
	Truncated string  `json:"truncated"`
	Members   []Entry `json:"members"`
}

// Size returns the number of rows in the group.
func (g Group) Size() int {
	return len(g.Members)
}

// Report is the outcome of a detection pass.
type Report struct {
	// TotalRows is the number of rows inspected.
	TotalRows int `json:"total_rows"`

	// Groups holds every collision group, ordered by the row index of each
	// group's first member.
	Groups []Group `json:"groups"`

	// CollidingRows is the number of rows belonging to any group.
	CollidingRows int `json:"colliding_rows"`
}

// GroupCount returns the number of collision groups.
func (r *Report) GroupCount() int {
	return len(r.Groups)
}

// HasCollisions reports whether at least one group was found.
func (r *Report) HasCollisions() bool {
	return len(r.Groups) > 0
}

// Percentage returns colliding rows as a percentage of all rows, rounded
// to two decimal places. An empty dataset yields 0.
func (r *Report) Percentage() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	pct := float64(r.CollidingRows) / float64(r.TotalRows) * 100
	return math.Round(pct*100) / 100
}

// Members returns all colliding rows, each group's members contiguous.
func (r *Report) Members() []Entry {
	out := make([]Entry, 0, r.CollidingRows)
	for _, g := range r.Groups {
		out = append(out, g.Members...)
	}
	return out
}

// Detect partitions entries by truncated digest and returns every
// partition of size greater than one.
//
// Membership is decided strictly by string equality of Entry.Truncated;
// the position of an entry in the slice plays no part other than ordering.
// Members keep their input order.
func Detect(entries []Entry) *Report {
	report := &Report{
		TotalRows: len(entries),
		Groups:    []Group{},
	}

	index := make(map[string]int, len(entries))
	var buckets [][]Entry
	for _, e := range entries {
		i, ok := index[e.Truncated]
		if !ok {
			i = len(buckets)
			index[e.Truncated] = i
			buckets = append(buckets, nil)
		}
		buckets[i] = append(buckets[i], e)
	}

	for _, members := range buckets {
		if len(members) < 2 {
			continue
		}
		report.Groups = append(report.Groups, Group{
			Truncated: members[0].Truncated,
			Members:   members,
		})
		report.CollidingRows += len(members)
	}

	return report
}
