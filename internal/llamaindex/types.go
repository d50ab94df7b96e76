package llamaindex

import "errors"

// Job statuses reported by the split API.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

// ConfidenceHigh is the confidence category that drives local splitting.
const ConfidenceHigh = "high"

// DefaultCategoryDescription is used when the caller supplies none.
const DefaultCategoryDescription = "Pages that belong to the same FACTURA CAMBIARIA invoice but are not the first page. " +
	"Includes rotated pages, stamps, signatures, Walmart review stamps, or continuation content without the full invoice header."

// Category describes one splitting category sent with job creation.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DefaultCategories builds the category list, optionally overriding the
// default description.
func DefaultCategories(description string) []Category {
	if description == "" {
		description = DefaultCategoryDescription
	}
	return []Category{{Name: "default", Description: description}}
}

// Segment is one result unit: a set of pages plus the category and confidence
// label the service assigned to them.
type Segment struct {
	Category           string `json:"category"`
	Pages              []int  `json:"pages"`
	ConfidenceCategory string `json:"confidence_category"`
}

// SplitResult holds the ordered segments of a completed job.
type SplitResult struct {
	Segments []Segment `json:"segments"`
}

// SplitJob mirrors the remote job resource.
type SplitJob struct {
	ID           string       `json:"id"`
	Status       string       `json:"status"`
	Result       *SplitResult `json:"result,omitempty"`
	ErrorMessage string       `json:"error_message,omitempty"`
}

// Terminal reports whether the job reached a final status.
func (j *SplitJob) Terminal() bool {
	switch j.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

var ErrRateLimited = errors.New("rate_limited")

func IsRateLimited(err error) bool { return errors.Is(err, ErrRateLimited) }
