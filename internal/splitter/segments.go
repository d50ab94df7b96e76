package splitter

import (
	"errors"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
)

// HighConfidencePages collects the pages of all segments the remote service
// labeled with high confidence, deduplicated and sorted. A nil result or a
// result without a segments list is rejected rather than being treated as an
// empty mark set.
func HighConfidencePages(res *llamaindex.SplitResult) ([]int, error) {
	if res == nil || res.Segments == nil {
		return nil, errors.New("job result has no segments")
	}
	var pages []int
	for _, seg := range res.Segments {
		if seg.ConfidenceCategory != llamaindex.ConfidenceHigh {
			continue
		}
		pages = append(pages, seg.Pages...)
	}
	if len(pages) == 0 {
		return nil, ErrNoMarkedPages
	}
	return NormalizeMarks(pages), nil
}
