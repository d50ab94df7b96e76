package llamaindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func TestWaitUntilCompleted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := "processing"
		if calls.Add(1) >= 3 {
			status = "completed"
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": status})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	job, err := c.Wait(context.Background(), "job-1", time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if job.Status != StatusCompleted {
		t.Fatalf("status = %q", job.Status)
	}
	if got := calls.Load(); got != 3 {
		t.Fatalf("polled %d times, want 3", got)
	}
}

func TestWaitTerminalImmediately(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "failed", "error_message": "boom"})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	job, err := c.Wait(context.Background(), "job-1", time.Millisecond, 10)
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if job.Status != StatusFailed || job.ErrorMessage != "boom" {
		t.Fatalf("job = %+v", job)
	}
	if calls.Load() != 1 {
		t.Fatal("terminal status should stop polling")
	}
}

func TestWaitExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	job, err := c.Wait(context.Background(), "job-1", time.Millisecond, 3)
	if err == nil {
		t.Fatal("want error after exhausting attempts")
	}
	if !strings.Contains(err.Error(), "after 3 polls") {
		t.Fatalf("error = %v", err)
	}
	if job == nil || job.Status != StatusProcessing {
		t.Fatalf("last observed job should be returned, got %+v", job)
	}
}

func TestWaitContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "job-1", "status": "processing"})
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(Options{BaseURL: srv.URL, APIKey: "k"})
	_, err := c.Wait(ctx, "job-1", time.Hour, 10)
	if err == nil {
		t.Fatal("want error on cancelled context")
	}
}
