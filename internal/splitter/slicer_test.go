package splitter

import (
	"testing"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/pdftest"
)

func TestPageCount(t *testing.T) {
	src := pdftest.BuildPDFPages(7)
	n, err := PageCount(src)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 7 {
		t.Fatalf("got %d pages, want 7", n)
	}
}

func TestPageCountGarbage(t *testing.T) {
	if _, err := PageCount([]byte("not a pdf")); err == nil {
		t.Fatal("want error for non-pdf input")
	}
}

func TestSlice(t *testing.T) {
	src := pdftest.BuildPDFPages(10)
	ranges := []Range{{1, 3}, {4, 6}, {7, 10}}

	outs, err := Slice(src, ranges, "invoice_batch.pdf")
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if len(outs) != 3 {
		t.Fatalf("got %d outputs, want 3", len(outs))
	}

	wantNames := []string{
		"invoice_batch_part_1_pages_1-3.pdf",
		"invoice_batch_part_2_pages_4-6.pdf",
		"invoice_batch_part_3_pages_7-10.pdf",
	}
	for i, out := range outs {
		if out.Name != wantNames[i] {
			t.Errorf("output %d named %q, want %q", i, out.Name, wantNames[i])
		}
		n, err := PageCount(out.Data)
		if err != nil {
			t.Fatalf("output %d unreadable: %v", i, err)
		}
		if want := ranges[i].Pages(); n != want {
			t.Errorf("output %d has %d pages, want %d", i, n, want)
		}
	}
}

func TestSliceDefaultFilename(t *testing.T) {
	src := pdftest.BuildPDFPages(2)
	outs, err := Slice(src, []Range{{1, 2}}, "")
	if err != nil {
		t.Fatalf("Slice: %v", err)
	}
	if outs[0].Name != "document_part_1_pages_1-2.pdf" {
		t.Fatalf("got name %q", outs[0].Name)
	}
}

func TestSliceRangeBeyondDocument(t *testing.T) {
	src := pdftest.BuildPDFPages(5)
	outs, err := Slice(src, []Range{{1, 4}, {5, 9}}, "doc.pdf")
	if !IsPageOutOfRange(err) {
		t.Fatalf("want PageOutOfRangeError, got %v", err)
	}
	if outs != nil {
		t.Fatal("no partial output expected on range error")
	}
}

func TestSliceSourceUnchanged(t *testing.T) {
	src := pdftest.BuildPDFPages(4)
	orig := make([]byte, len(src))
	copy(orig, src)

	if _, err := Slice(src, []Range{{1, 2}, {3, 4}}, "a.pdf"); err != nil {
		t.Fatalf("Slice: %v", err)
	}
	for i := range src {
		if src[i] != orig[i] {
			t.Fatal("source buffer was mutated")
		}
	}
	// slicing again yields the same result
	if _, err := Slice(src, []Range{{1, 2}, {3, 4}}, "a.pdf"); err != nil {
		t.Fatalf("second Slice: %v", err)
	}
}
