package splitter

import (
	"errors"
	"testing"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
)

func TestHighConfidencePages(t *testing.T) {
	res := &llamaindex.SplitResult{Segments: []llamaindex.Segment{
		{Category: "default", Pages: []int{7}, ConfidenceCategory: "high"},
		{Category: "default", Pages: []int{4}, ConfidenceCategory: "low"},
		{Category: "default", Pages: []int{1}, ConfidenceCategory: "high"},
		{Category: "default", Pages: []int{1}, ConfidenceCategory: "high"},
	}}
	pages, err := HighConfidencePages(res)
	if err != nil {
		t.Fatalf("HighConfidencePages: %v", err)
	}
	want := []int{1, 7}
	if len(pages) != len(want) {
		t.Fatalf("got %v, want %v", pages, want)
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Fatalf("got %v, want %v", pages, want)
		}
	}
}

func TestHighConfidencePagesMultiPageSegments(t *testing.T) {
	res := &llamaindex.SplitResult{Segments: []llamaindex.Segment{
		{Pages: []int{3, 5}, ConfidenceCategory: "high"},
	}}
	pages, err := HighConfidencePages(res)
	if err != nil {
		t.Fatalf("HighConfidencePages: %v", err)
	}
	if len(pages) != 2 || pages[0] != 3 || pages[1] != 5 {
		t.Fatalf("got %v, want [3 5]", pages)
	}
}

func TestHighConfidencePagesNoneHigh(t *testing.T) {
	res := &llamaindex.SplitResult{Segments: []llamaindex.Segment{
		{Pages: []int{2}, ConfidenceCategory: "medium"},
		{Pages: []int{5}, ConfidenceCategory: "low"},
	}}
	_, err := HighConfidencePages(res)
	if !errors.Is(err, ErrNoMarkedPages) {
		t.Fatalf("want ErrNoMarkedPages, got %v", err)
	}
}

func TestHighConfidencePagesNilResult(t *testing.T) {
	if _, err := HighConfidencePages(nil); err == nil {
		t.Fatal("want error for nil result")
	}
	if _, err := HighConfidencePages(&llamaindex.SplitResult{}); err == nil {
		t.Fatal("want error for missing segments")
	}
}
