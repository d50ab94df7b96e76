package store

import (
	"time"

	"github.com/jonykpi/docs2ai-llamaindex-autosplit/internal/llamaindex"
)

// Job is the locally bookkept view of one split job: the mapping to the
// remote job, the last observed status, and the original document bytes
// needed for local slicing. Records live only for the configured TTL.
type Job struct {
	ID           string                  `json:"job_id"`
	RemoteID     string                  `json:"remote_id"`
	Status       string                  `json:"status"`
	CreatedAt    time.Time               `json:"created_at"`
	FileID       string                  `json:"file_id,omitempty"`
	Filename     string                  `json:"filename,omitempty"`
	Original     []byte                  `json:"-"`
	Result       *llamaindex.SplitResult `json:"result,omitempty"`
	ErrorMessage string                  `json:"error_message,omitempty"`
}
