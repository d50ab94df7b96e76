package splitter

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// OutputDocument is one sliced piece of the source PDF, named after the
// source file, its position and its page range.
type OutputDocument struct {
	Name string
	Data []byte
}

func readContext(src []byte) (*model.Context, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(src), conf)
	if err != nil {
		return nil, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx, nil
}

// PageCount returns the page count of an in-memory PDF.
func PageCount(src []byte) (int, error) {
	ctx, err := readContext(src)
	if err != nil {
		return 0, err
	}
	return ctx.PageCount, nil
}

// Slice copies the pages of each range into a standalone PDF. Page content is
// reused as-is; only the document container is rebuilt. A range past the true
// page count aborts the whole call with PageOutOfRangeError, regardless of
// what upstream data claimed, and no partial output is returned.
func Slice(source []byte, ranges []Range, filename string) ([]OutputDocument, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no ranges to slice")
	}
	ctx, err := readContext(source)
	if err != nil {
		return nil, err
	}
	total := ctx.PageCount
	for _, r := range ranges {
		if r.Start < 1 || r.Start > total {
			return nil, &PageOutOfRangeError{Page: r.Start, TotalPages: total}
		}
		if r.End < r.Start || r.End > total {
			return nil, &PageOutOfRangeError{Page: r.End, TotalPages: total}
		}
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".pdf"
	}
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	if base == "" || base == "." {
		base = "document"
	}

	outs := make([]OutputDocument, 0, len(ranges))
	for idx, r := range ranges {
		pages := make([]int, 0, r.Pages())
		for p := r.Start; p <= r.End; p++ {
			pages = append(pages, p)
		}
		pageCtx, err := pdfcpu.ExtractPages(ctx, pages, false)
		if err != nil {
			return nil, fmt.Errorf("extract pages %d-%d: %w", r.Start, r.End, err)
		}
		var buf bytes.Buffer
		if err := api.WriteContext(pageCtx, &buf); err != nil {
			return nil, fmt.Errorf("write pages %d-%d: %w", r.Start, r.End, err)
		}
		outs = append(outs, OutputDocument{
			Name: fmt.Sprintf("%s_part_%d_pages_%d-%d%s", base, idx+1, r.Start, r.End, ext),
			Data: buf.Bytes(),
		})
	}
	return outs, nil
}
