package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/fetch"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/filetype"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/metrics"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/splitter"
	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/store"
)

// Remote is the split service as seen from the orchestrator: one upload
// format, one job-creation call, one status call, plus bounded waiting.
type Remote interface {
	Upload(ctx context.Context, data []byte, filename string) (string, error)
	CreateJob(ctx context.Context, fileID string, categories []llamaindex.Category) (*llamaindex.SplitJob, error)
	GetJob(ctx context.Context, jobID string) (*llamaindex.SplitJob, error)
	Wait(ctx context.Context, jobID string, interval time.Duration, maxAttempts int) (*llamaindex.SplitJob, error)
}

// RemoteFactory yields a Remote, optionally rebound to a per-request API key
// override (the X-API-Key header).
type RemoteFactory func(apiKeyOverride string) Remote

// JobStore is the injected job bookkeeping abstraction.
type JobStore interface {
	Put(ctx context.Context, job store.Job) error
	Get(ctx context.Context, jobID string) (store.Job, bool, error)
}

// Limiter gates remote work while the API is rate limiting us. A nil Limiter
// disables the gate.
type Limiter interface {
	IsOpen(ctx context.Context, scope string) bool
	Open(ctx context.Context, scope string)
	Reset(ctx context.Context, scope string)
}

// cooldown scope for all LlamaIndex calls
const remoteScope = "llamaindex"

type Dependencies struct {
	Jobs    JobStore
	Remote  RemoteFactory
	Limiter Limiter

	CategoryDescription string
	PollInterval        time.Duration
	PollMaxAttempts     int
	MaxUploadBytes      int64
}

type Orchestrator struct {
	deps Dependencies
}

func New(deps Dependencies) *Orchestrator {
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = 64 << 20
	}
	return &Orchestrator{deps: deps}
}

func (o *Orchestrator) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/api/jobs", o.handleCreateJob)
	mux.HandleFunc("/api/jobs/", o.handleJobSubtree)
}

func (o *Orchestrator) handleJobSubtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/jobs/"), "/")
	switch {
	case strings.HasSuffix(rest, "/split-pdf"):
		o.handleSplitPDF(w, r, strings.TrimSuffix(rest, "/split-pdf"))
	case strings.HasSuffix(rest, "/wait"):
		o.handleWait(w, r, strings.TrimSuffix(rest, "/wait"))
	default:
		o.handleGetJob(w, r, rest)
	}
}

type jobResp struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type jobDetails struct {
	JobID        string                  `json:"job_id"`
	Status       string                  `json:"status"`
	CreatedAt    string                  `json:"created_at"`
	Result       *llamaindex.SplitResult `json:"result,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// handleCreateJob accepts a multipart form with one of: a PDF upload ("file"),
// an id of a file already known to the remote service ("file_id"), or a
// fetchable reference ("file_ref", http(s)/s3/file). Optional fields:
// category_description; X-API-Key header overrides the configured key.
func (o *Orchestrator) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseMultipartForm(o.deps.MaxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}

	if o.deps.Limiter != nil && o.deps.Limiter.IsOpen(r.Context(), remoteScope) {
		http.Error(w, "remote API is rate limiting requests, retry later", http.StatusTooManyRequests)
		return
	}

	remote := o.deps.Remote(r.Header.Get("X-API-Key"))
	categories := llamaindex.DefaultCategories(o.categoryDescription(r.FormValue("category_description")))

	var (
		data     []byte
		filename string
		fileID   string
		source   string
	)

	if f, hdr, err := r.FormFile("file"); err == nil {
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			http.Error(w, "failed to read upload", http.StatusBadRequest)
			return
		}
		filename = filepath.Base(hdr.Filename)
		source = "upload"
	} else if v := r.FormValue("file_id"); v != "" {
		if _, err := uuid.Parse(v); err != nil {
			http.Error(w, fmt.Sprintf("invalid file_id format, must be a valid UUID: %s", v), http.StatusBadRequest)
			return
		}
		fileID = v
		source = "file_id"
	} else if ref := r.FormValue("file_ref"); ref != "" {
		var err error
		data, filename, err = fetch.Fetch(r.Context(), ref)
		if err != nil {
			http.Error(w, fmt.Sprintf("failed to fetch file_ref: %v", err), http.StatusBadGateway)
			return
		}
		source = "file_ref"
	} else {
		http.Error(w, "either 'file', 'file_id' or 'file_ref' must be provided", http.StatusBadRequest)
		return
	}

	if len(data) > 0 {
		if !filetype.IsPDF(data) {
			mime, _ := filetype.Detect(data)
			http.Error(w, fmt.Sprintf("unsupported file type %s, expected application/pdf", mime), http.StatusBadRequest)
			return
		}
		if filename == "" {
			filename = "document.pdf"
		}
	}

	if fileID == "" {
		start := time.Now()
		id, err := remote.Upload(r.Context(), data, filename)
		if err != nil {
			metrics.ObserveRemote("upload", "error", time.Since(start))
			o.noteRemoteErr(r.Context(), err)
			log.Error().Err(err).Str("filename", filename).Msg("file upload failed")
			http.Error(w, fmt.Sprintf("file upload failed: %v", err), http.StatusBadGateway)
			return
		}
		metrics.ObserveRemote("upload", "ok", time.Since(start))
		fileID = id
	}

	start := time.Now()
	remoteJob, err := remote.CreateJob(r.Context(), fileID, categories)
	if err != nil {
		metrics.ObserveRemote("create_job", "error", time.Since(start))
		o.noteRemoteErr(r.Context(), err)
		log.Error().Err(err).Str("file_id", fileID).Msg("split job creation failed")
		http.Error(w, fmt.Sprintf("failed to create split job: %v", err), http.StatusBadGateway)
		return
	}
	metrics.ObserveRemote("create_job", "ok", time.Since(start))
	if o.deps.Limiter != nil {
		o.deps.Limiter.Reset(r.Context(), remoteScope)
	}

	jobID := uuid.NewString()
	status := remoteJob.Status
	if status == "" {
		status = llamaindex.StatusPending
	}
	rec := store.Job{
		ID:        jobID,
		RemoteID:  remoteJob.ID,
		Status:    status,
		CreatedAt: time.Now(),
		FileID:    fileID,
		Filename:  filename,
		Original:  data,
	}
	if err := o.deps.Jobs.Put(r.Context(), rec); err != nil {
		log.Error().Err(err).Str("job_id", jobID).Msg("job store put failed")
		http.Error(w, "job store unavailable", http.StatusServiceUnavailable)
		return
	}

	metrics.IncJobCreated(source)
	log.Info().Str("job_id", jobID).Str("remote_id", remoteJob.ID).
		Str("source", source).Str("filename", filename).Msg("split job created")
	writeJSON(w, http.StatusCreated, jobResp{JobID: jobID, Status: status, Message: "Job created successfully"})
}

// handleGetJob refreshes the job from the remote service and returns the
// merged view. Remote errors fall back to the stored state.
func (o *Orchestrator) handleGetJob(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, ok, err := o.deps.Jobs.Get(r.Context(), jobID)
	if err != nil {
		http.Error(w, "job store unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	rec = o.refresh(r.Context(), rec, r.Header.Get("X-API-Key"))
	writeJSON(w, http.StatusOK, detailsOf(rec))
}

// handleWait blocks until the remote job reaches a terminal status or the
// bounded polling budget runs out.
func (o *Orchestrator) handleWait(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, ok, err := o.deps.Jobs.Get(r.Context(), jobID)
	if err != nil {
		http.Error(w, "job store unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	remote := o.deps.Remote(r.Header.Get("X-API-Key"))
	start := time.Now()
	remoteJob, err := remote.Wait(r.Context(), rec.RemoteID, o.deps.PollInterval, o.deps.PollMaxAttempts)
	if err != nil {
		metrics.ObserveRemote("wait", "error", time.Since(start))
		if remoteJob != nil {
			rec = mergeRemote(rec, remoteJob)
			_ = o.deps.Jobs.Put(r.Context(), rec)
		}
		log.Warn().Err(err).Str("job_id", jobID).Msg("wait for job did not complete")
		http.Error(w, fmt.Sprintf("timed out waiting for job: %v", err), http.StatusGatewayTimeout)
		return
	}
	metrics.ObserveRemote("wait", "ok", time.Since(start))

	rec = mergeRemote(rec, remoteJob)
	if err := o.deps.Jobs.Put(r.Context(), rec); err != nil {
		log.Warn().Err(err).Str("job_id", jobID).Msg("job store update failed")
	}
	writeJSON(w, http.StatusOK, detailsOf(rec))
}

// handleSplitPDF re-slices the stored original PDF along the remote result's
// high confidence page marks and streams the parts back as a ZIP. Any core
// error aborts the call; a partial archive is never returned.
func (o *Orchestrator) handleSplitPDF(w http.ResponseWriter, r *http.Request, jobID string) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rec, ok, err := o.deps.Jobs.Get(r.Context(), jobID)
	if err != nil {
		http.Error(w, "job store unavailable", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "job not found", http.StatusNotFound)
		return
	}

	if rec.Status != llamaindex.StatusCompleted {
		rec = o.refresh(r.Context(), rec, r.Header.Get("X-API-Key"))
	}
	if rec.Status != llamaindex.StatusCompleted {
		http.Error(w, fmt.Sprintf("job is not completed, current status: %s", rec.Status), http.StatusBadRequest)
		return
	}
	if len(rec.Original) == 0 {
		http.Error(w, "original file not available, upload the file instead of passing file_id", http.StatusBadRequest)
		return
	}

	marks, err := splitter.HighConfidencePages(rec.Result)
	if err != nil {
		metrics.IncSplit("rejected")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	totalPages, err := splitter.PageCount(rec.Original)
	if err != nil {
		metrics.IncSplit("error")
		http.Error(w, fmt.Sprintf("error splitting PDF: %v", err), http.StatusInternalServerError)
		return
	}

	ranges, err := splitter.DeriveRanges(totalPages, marks)
	if err != nil {
		metrics.IncSplit("rejected")
		code := http.StatusBadRequest
		if !errors.Is(err, splitter.ErrNoMarkedPages) && !splitter.IsPageOutOfRange(err) {
			code = http.StatusInternalServerError
		}
		http.Error(w, err.Error(), code)
		return
	}

	outs, err := splitter.Slice(rec.Original, ranges, rec.Filename)
	if err != nil {
		metrics.IncSplit("error")
		code := http.StatusInternalServerError
		if splitter.IsPageOutOfRange(err) {
			code = http.StatusBadRequest
		}
		http.Error(w, fmt.Sprintf("error splitting PDF: %v", err), code)
		return
	}

	archive, err := splitter.Bundle(outs)
	if err != nil {
		metrics.IncSplit("error")
		http.Error(w, fmt.Sprintf("error splitting PDF: %v", err), http.StatusInternalServerError)
		return
	}

	metrics.IncSplit("success")
	metrics.ObserveSplitParts(len(outs))
	log.Info().Str("job_id", jobID).Int("parts", len(outs)).Int("total_pages", totalPages).Msg("pdf split completed")

	base := baseName(rec.Filename)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s_split_pdfs.zip", base))
	_, _ = w.Write(archive)
}

// refresh pulls the latest remote status into the record, keeping the stored
// state when the remote call fails. apiKey carries a per-request override and
// may be empty.
func (o *Orchestrator) refresh(ctx context.Context, rec store.Job, apiKey string) store.Job {
	remote := o.deps.Remote(apiKey)
	start := time.Now()
	remoteJob, err := remote.GetJob(ctx, rec.RemoteID)
	if err != nil {
		metrics.ObserveRemote("get_job", "error", time.Since(start))
		log.Warn().Err(err).Str("job_id", rec.ID).Msg("remote status refresh failed, serving stored state")
		return rec
	}
	metrics.ObserveRemote("get_job", "ok", time.Since(start))
	rec = mergeRemote(rec, remoteJob)
	if err := o.deps.Jobs.Put(ctx, rec); err != nil {
		log.Warn().Err(err).Str("job_id", rec.ID).Msg("job store update failed")
	}
	return rec
}

// noteRemoteErr opens the cooldown when the remote API starts rate limiting.
func (o *Orchestrator) noteRemoteErr(ctx context.Context, err error) {
	if o.deps.Limiter != nil && llamaindex.IsRateLimited(err) {
		o.deps.Limiter.Open(ctx, remoteScope)
	}
}

func mergeRemote(rec store.Job, remoteJob *llamaindex.SplitJob) store.Job {
	if remoteJob.Status != "" {
		rec.Status = remoteJob.Status
	}
	if remoteJob.Status == llamaindex.StatusCompleted && remoteJob.Result != nil {
		rec.Result = remoteJob.Result
	}
	if remoteJob.Status == llamaindex.StatusFailed {
		rec.ErrorMessage = remoteJob.ErrorMessage
		if rec.ErrorMessage == "" {
			rec.ErrorMessage = "job failed"
		}
	}
	return rec
}

func detailsOf(rec store.Job) jobDetails {
	return jobDetails{
		JobID:        rec.ID,
		Status:       rec.Status,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		Result:       rec.Result,
		ErrorMessage: rec.ErrorMessage,
	}
}

func (o *Orchestrator) categoryDescription(fromRequest string) string {
	if fromRequest != "" {
		return fromRequest
	}
	return o.deps.CategoryDescription
}

func baseName(filename string) string {
	if filename == "" {
		return "document"
	}
	name := filepath.Base(filename)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	if name == "" {
		return "document"
	}
	return name
}
