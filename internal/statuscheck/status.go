package statuscheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// RedisPinger models the minimal Redis capability we need for status checks.
type RedisPinger interface {
	Ping(ctx context.Context) error
}

// Checker aggregates readiness checks for the service's external dependencies.
type Checker struct {
	redis      RedisPinger
	llamaBase  string
	httpClient *http.Client
}

type Options struct {
	Redis      RedisPinger
	LlamaBase  string
	HTTPClient *http.Client
}

// Status represents the readiness of a subsystem.
type Status struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// Summary bundles all subsystem statuses.
type Summary struct {
	Redis      Status `json:"redis"`
	LlamaIndex Status `json:"llamaindex"`
}

func New(opts Options) *Checker {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &Checker{
		redis:      opts.Redis,
		llamaBase:  opts.LlamaBase,
		httpClient: client,
	}
}

// Summary returns the current status snapshot.
func (c *Checker) Summary(ctx context.Context) Summary {
	return Summary{
		Redis:      c.checkRedis(ctx),
		LlamaIndex: c.checkLlama(ctx),
	}
}

// Handler serves the summary as JSON.
func (c *Checker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(c.Summary(r.Context()))
	}
}

func (c *Checker) checkRedis(ctx context.Context) Status {
	if c.redis == nil {
		return Status{OK: false, Message: "not configured"}
	}
	if err := c.redis.Ping(ctx); err != nil {
		return Status{OK: false, Message: err.Error()}
	}
	return Status{OK: true, Message: "connected"}
}

// checkLlama probes the API base URL; any HTTP answer counts as reachable,
// an auth rejection included, since keys may be supplied per request.
func (c *Checker) checkLlama(ctx context.Context) Status {
	if c.llamaBase == "" {
		return Status{OK: false, Message: "not configured"}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.llamaBase+"/files", nil)
	if err != nil {
		return Status{OK: false, Message: err.Error()}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Status{OK: false, Message: err.Error()}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 500 {
		return Status{OK: false, Message: fmt.Sprintf("api answered %d", resp.StatusCode)}
	}
	return Status{OK: true, Message: "reachable"}
}
