package llamaindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the LlamaIndex cloud API root.
const DefaultBaseURL = "https://api.cloud.llamaindex.ai/api/v1"

// Client talks to the LlamaIndex split API. Upload format and field names are
// fixed against the API documentation; there is no runtime format guessing.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		apiKey:  opts.APIKey,
	}
}

// WithAPIKey returns a copy of the client using key instead of the configured
// one. An empty key keeps the original client.
func (c *Client) WithAPIKey(key string) *Client {
	if key == "" {
		return c
	}
	cp := *c
	cp.apiKey = key
	return &cp
}

type uploadResp struct {
	ID string `json:"id"`
}

// Upload sends the document once as multipart form data and returns the file
// id the service assigned. A success response without an id is a hard
// failure, not something to retry with a different payload shape.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing LlamaIndex API key")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("upload_file", filename)
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "upload"); err != nil {
		return "", err
	}

	var r uploadResp
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", fmt.Errorf("parse upload response: %w", err)
	}
	if r.ID == "" {
		return "", errors.New("upload response missing file id")
	}
	return r.ID, nil
}

type documentInput struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type splittingStrategy struct {
	AllowUncategorized bool `json:"allow_uncategorized"`
}

type createJobReq struct {
	DocumentInput     documentInput     `json:"document_input"`
	Categories        []Category        `json:"categories"`
	SplittingStrategy splittingStrategy `json:"splitting_strategy"`
}

// CreateJob starts a split job for an already uploaded file.
func (c *Client) CreateJob(ctx context.Context, fileID string, categories []Category) (*SplitJob, error) {
	if c.apiKey == "" {
		return nil, errors.New("missing LlamaIndex API key")
	}

	payload := createJobReq{
		DocumentInput:     documentInput{Type: "file_id", Value: fileID},
		Categories:        categories,
		SplittingStrategy: splittingStrategy{AllowUncategorized: false},
	}
	body, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/beta/split/jobs", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "create job"); err != nil {
		return nil, err
	}

	var job SplitJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("parse job response: %w", err)
	}
	if job.ID == "" {
		return nil, errors.New("job response missing id")
	}
	return &job, nil
}

// GetJob fetches the current state of a split job.
func (c *Client) GetJob(ctx context.Context, jobID string) (*SplitJob, error) {
	if c.apiKey == "" {
		return nil, errors.New("missing LlamaIndex API key")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/beta/split/jobs/"+jobID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if err := checkStatus(resp, "get job"); err != nil {
		return nil, err
	}

	var job SplitJob
	if err := json.NewDecoder(resp.Body).Decode(&job); err != nil {
		return nil, fmt.Errorf("parse job response: %w", err)
	}
	return &job, nil
}

func checkStatus(resp *http.Response, op string) error {
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("llamaindex %s status %d: %s", op, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}
