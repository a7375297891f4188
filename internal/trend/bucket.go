package trend

import "strconv"

// Bucket is a span of calendar years processed as one animation step.
// Buckets are half-open [Start, End) except the final one, which is closed
// so that the domain's last year is included.
type Bucket struct {
	// Start is the first year of the bucket.
	Start int `json:"start"`
	// End is the boundary year that closes the bucket.
	End int `json:"end"`
	// Label is the x-coordinate written into trends for events in this bucket.
	Label int `json:"label"`
	// Name identifies the frame produced at the bucket's closing boundary.
	Name string `json:"name"`
	// Closed marks the final bucket, which also includes End.
	Closed bool `json:"closed"`
}

// LastYear returns the last calendar year covered by the bucket.
func (b Bucket) LastYear() int {
	if b.Closed {
		return b.End
	}

	return b.End - 1
}

// Contains reports whether the year falls in the bucket.
func (b Bucket) Contains(year int) bool {
	return year >= b.Start && year <= b.LastYear()
}

// maxPrealloc bounds the capacity Boundaries reserves up front.
const maxPrealloc = MaxBuckets + 1

// Boundaries returns start, start+step, ... below end, followed by end.
// A non-positive step yields only end. The walk never overflows int.
func Boundaries(start, end, step int) []int {
	if step <= 0 || start >= end {
		return []int{end}
	}

	// end > start, so the unsigned difference is exact.
	span := uint(end) - uint(start)
	out := make([]int, 0, min(span/uint(step)+2, maxPrealloc))

	for year := start; ; year += step {
		out = append(out, year)

		if uint(end)-uint(year) <= uint(step) {
			break
		}
	}

	return append(out, end)
}

// PlanBuckets splits [start, end] into chronological buckets of step years.
// The last bucket is truncated at end. A domain with no interior boundary
// (start == end) degrades to a single bucket spanning the whole domain.
func PlanBuckets(start, end, step int) []Bucket {
	bounds := Boundaries(start, end, step)

	if len(bounds) < 2 {
		return []Bucket{{
			Start:  start,
			End:    end,
			Label:  start,
			Name:   strconv.Itoa(end),
			Closed: true,
		}}
	}

	buckets := make([]Bucket, 0, len(bounds)-1)

	for i := 1; i < len(bounds); i++ {
		buckets = append(buckets, Bucket{
			Start:  bounds[i-1],
			End:    bounds[i],
			Label:  bounds[i-1],
			Name:   strconv.Itoa(bounds[i]),
			Closed: i == len(bounds)-1,
		})
	}

	return buckets
}
