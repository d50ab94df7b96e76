package splitter

import (
	"archive/zip"
	"bytes"
	"fmt"
)

// Bundle packs output documents into a single deflate-compressed ZIP archive,
// one entry per document, preserving input order.
func Bundle(outputs []OutputDocument) ([]byte, error) {
	if len(outputs) == 0 {
		return nil, ErrEmptyBundle
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, doc := range outputs {
		w, err := zw.Create(doc.Name)
		if err != nil {
			return nil, fmt.Errorf("zip entry %s: %w", doc.Name, err)
		}
		if _, err := w.Write(doc.Data); err != nil {
			return nil, fmt.Errorf("zip write %s: %w", doc.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}
