package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestFetchHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("%PDF-1.4 remote"))
	}))
	defer srv.Close()

	data, name, err := Fetch(context.Background(), srv.URL+"/docs/statement.pdf")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "%PDF-1.4 remote" {
		t.Fatalf("data = %q", data)
	}
	if name != "statement.pdf" {
		t.Fatalf("name = %q", name)
	}
}

func TestFetchHTTPNoPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("x"))
	}))
	defer srv.Close()

	_, name, err := Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if name != "document.pdf" {
		t.Fatalf("name = %q", name)
	}
}

func TestFetchHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	if _, _, err := Fetch(context.Background(), srv.URL+"/missing.pdf"); err == nil {
		t.Fatal("want error for non-200 response")
	}
}

func TestFetchLocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "local.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 local"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, name, err := Fetch(context.Background(), path)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "%PDF-1.4 local" || name != "local.pdf" {
		t.Fatalf("data=%q name=%q", data, name)
	}

	// file:// scheme resolves to the same file
	data2, _, err := Fetch(context.Background(), "file://"+path)
	if err != nil {
		t.Fatalf("Fetch file://: %v", err)
	}
	if string(data2) != "%PDF-1.4 local" {
		t.Fatalf("data = %q", data2)
	}
}

func TestFetchMissingFile(t *testing.T) {
	if _, _, err := Fetch(context.Background(), "/no/such/file.pdf"); err == nil {
		t.Fatal("want error for missing file")
	}
}
