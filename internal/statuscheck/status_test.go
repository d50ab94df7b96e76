package statuscheck

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

func TestSummary(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer api.Close()

	c := New(Options{Redis: fakePinger{}, LlamaBase: api.URL})
	sum := c.Summary(context.Background())
	if !sum.Redis.OK {
		t.Errorf("redis = %+v", sum.Redis)
	}
	// an auth rejection still proves the API is reachable
	if !sum.LlamaIndex.OK {
		t.Errorf("llamaindex = %+v", sum.LlamaIndex)
	}
}

func TestSummaryFailures(t *testing.T) {
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer api.Close()

	c := New(Options{Redis: fakePinger{err: errors.New("connection refused")}, LlamaBase: api.URL})
	sum := c.Summary(context.Background())
	if sum.Redis.OK {
		t.Errorf("redis = %+v", sum.Redis)
	}
	if sum.LlamaIndex.OK {
		t.Errorf("llamaindex = %+v", sum.LlamaIndex)
	}
}

func TestSummaryUnconfigured(t *testing.T) {
	c := New(Options{})
	sum := c.Summary(context.Background())
	if sum.Redis.OK || sum.Redis.Message != "not configured" {
		t.Errorf("redis = %+v", sum.Redis)
	}
	if sum.LlamaIndex.OK {
		t.Errorf("llamaindex = %+v", sum.LlamaIndex)
	}
}

func TestHandler(t *testing.T) {
	c := New(Options{Redis: fakePinger{}})
	rec := httptest.NewRecorder()
	c.Handler()(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var sum Summary
	if err := json.Unmarshal(rec.Body.Bytes(), &sum); err != nil {
		t.Fatalf("body not json: %v", err)
	}
}
