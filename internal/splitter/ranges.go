package splitter

import (
	"fmt"
	"sort"
)

// Range is an inclusive, 1-based page interval of the source document.
type Range struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Pages returns the page count covered by the range.
func (r Range) Pages() int { return r.End - r.Start + 1 }

// NormalizeMarks deduplicates and sorts 1-based page marks ascending.
func NormalizeMarks(marks []int) []int {
	seen := make(map[int]struct{}, len(marks))
	out := make([]int, 0, len(marks))
	for _, m := range marks {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	sort.Ints(out)
	return out
}

// DeriveRanges turns the set of marked page numbers into an ordered list of
// inclusive ranges partitioning [1..totalPages]. Every marked page starts a
// new range; pages before the first mark form a leading range of their own.
// Consecutive marks yield 1-page ranges, the last range runs to totalPages.
func DeriveRanges(totalPages int, marked []int) ([]Range, error) {
	if totalPages <= 0 {
		return nil, fmt.Errorf("invalid total pages: %d", totalPages)
	}
	marks := NormalizeMarks(marked)
	if len(marks) == 0 {
		return nil, ErrNoMarkedPages
	}
	for _, m := range marks {
		if m < 1 || m > totalPages {
			return nil, &PageOutOfRangeError{Page: m, TotalPages: totalPages}
		}
	}

	ranges := make([]Range, 0, len(marks)+1)
	if marks[0] > 1 {
		ranges = append(ranges, Range{Start: 1, End: marks[0] - 1})
	}
	for i, m := range marks {
		end := totalPages
		if i+1 < len(marks) {
			end = marks[i+1] - 1
		}
		ranges = append(ranges, Range{Start: m, End: end})
	}
	return ranges, nil
}
