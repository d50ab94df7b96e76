package splitter

import (
	"errors"
	"fmt"
)

var (
	// ErrNoMarkedPages means the remote result yielded no high confidence
	// pages, so there is nothing to split on.
	ErrNoMarkedPages = errors.New("no high confidence pages found in the result")

	// ErrEmptyBundle means Bundle was called without documents. Unreachable
	// when DeriveRanges enforced a non-empty mark set.
	ErrEmptyBundle = errors.New("no documents to bundle")
)

// PageOutOfRangeError reports a page reference beyond the document's actual
// page count. The slicing call that hit it returns no output at all.
type PageOutOfRangeError struct {
	Page       int
	TotalPages int
}

func (e *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d out of range (document has %d pages)", e.Page, e.TotalPages)
}

func IsPageOutOfRange(err error) bool {
	var t *PageOutOfRangeError
	return errors.As(err, &t)
}
