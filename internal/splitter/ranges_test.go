package splitter

import (
	"errors"
	"testing"
)

func TestDeriveRangesSimple(t *testing.T) {
	ranges, err := DeriveRanges(10, []int{1, 4, 7})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	want := []Range{{1, 3}, {4, 6}, {7, 10}}
	assertRanges(t, ranges, want)
}

func TestDeriveRangesLeadingUnmarked(t *testing.T) {
	// a mark after page 1 implies a leading range for the front matter
	ranges, err := DeriveRanges(10, []int{3, 8})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	want := []Range{{1, 2}, {3, 7}, {8, 10}}
	assertRanges(t, ranges, want)
}

func TestDeriveRangesSingleMark(t *testing.T) {
	ranges, err := DeriveRanges(5, []int{1})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	assertRanges(t, ranges, []Range{{1, 5}})
}

func TestDeriveRangesMarkOnLastPage(t *testing.T) {
	ranges, err := DeriveRanges(5, []int{1, 5})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	assertRanges(t, ranges, []Range{{1, 4}, {5, 5}})
}

func TestDeriveRangesConsecutiveMarks(t *testing.T) {
	ranges, err := DeriveRanges(4, []int{1, 2, 3, 4})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	assertRanges(t, ranges, []Range{{1, 1}, {2, 2}, {3, 3}, {4, 4}})
}

func TestDeriveRangesUnsortedDuplicateMarks(t *testing.T) {
	ranges, err := DeriveRanges(10, []int{7, 1, 4, 4, 1})
	if err != nil {
		t.Fatalf("DeriveRanges: %v", err)
	}
	assertRanges(t, ranges, []Range{{1, 3}, {4, 6}, {7, 10}})
}

func TestDeriveRangesNoMarks(t *testing.T) {
	_, err := DeriveRanges(10, nil)
	if !errors.Is(err, ErrNoMarkedPages) {
		t.Fatalf("want ErrNoMarkedPages, got %v", err)
	}
}

func TestDeriveRangesMarkOutOfRange(t *testing.T) {
	_, err := DeriveRanges(5, []int{1, 9})
	if !IsPageOutOfRange(err) {
		t.Fatalf("want PageOutOfRangeError, got %v", err)
	}
	var poor *PageOutOfRangeError
	errors.As(err, &poor)
	if poor.Page != 9 || poor.TotalPages != 5 {
		t.Fatalf("unexpected error details: %+v", poor)
	}
}

func TestDeriveRangesMarkZero(t *testing.T) {
	_, err := DeriveRanges(5, []int{0, 2})
	if !IsPageOutOfRange(err) {
		t.Fatalf("want PageOutOfRangeError, got %v", err)
	}
}

func TestDeriveRangesBadTotal(t *testing.T) {
	if _, err := DeriveRanges(0, []int{1}); err == nil {
		t.Fatal("want error for zero page count")
	}
}

// Every page of the document must land in exactly one range, ranges ascending,
// and each range except possibly the first starts at a mark.
func TestDeriveRangesPartitionProperties(t *testing.T) {
	cases := []struct {
		total int
		marks []int
	}{
		{1, []int{1}},
		{2, []int{2}},
		{20, []int{1, 2, 10, 19, 20}},
		{100, []int{5, 50, 51, 99}},
	}
	for _, tc := range cases {
		ranges, err := DeriveRanges(tc.total, tc.marks)
		if err != nil {
			t.Fatalf("total=%d marks=%v: %v", tc.total, tc.marks, err)
		}
		if ranges[0].Start != 1 {
			t.Errorf("total=%d marks=%v: first range starts at %d", tc.total, tc.marks, ranges[0].Start)
		}
		if ranges[len(ranges)-1].End != tc.total {
			t.Errorf("total=%d marks=%v: last range ends at %d", tc.total, tc.marks, ranges[len(ranges)-1].End)
		}
		sum := 0
		for i, r := range ranges {
			if r.Start > r.End {
				t.Errorf("inverted range %+v", r)
			}
			if i > 0 && r.Start != ranges[i-1].End+1 {
				t.Errorf("gap or overlap between %+v and %+v", ranges[i-1], r)
			}
			sum += r.Pages()
		}
		if sum != tc.total {
			t.Errorf("total=%d marks=%v: ranges cover %d pages", tc.total, tc.marks, sum)
		}
	}
}

func assertRanges(t *testing.T, got, want []Range) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d ranges %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("range %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}
