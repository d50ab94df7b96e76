package filetype

import (
	"github.com/gabriel-vasile/mimetype"
)

// Detect returns the MIME type and canonical extension detected from the
// document's magic bytes, ignoring whatever filename the caller supplied.
func Detect(data []byte) (string, string) {
	mt := mimetype.Detect(data)
	return mt.String(), mt.Extension()
}

// IsPDF reports whether data carries a PDF signature. Only PDFs can be sent
// to the split service and re-sliced locally.
func IsPDF(data []byte) bool {
	return mimetype.Detect(data).Is("application/pdf")
}
