package llamaindex

import (
	"context"
	"fmt"
	"time"
)

// Wait polls the job until it reaches a terminal status. The remote API has
// no push channel, so this is plain fixed-interval polling with a bounded
// attempt budget; exhausting the budget returns the last observed job along
// with an error.
func (c *Client) Wait(ctx context.Context, jobID string, interval time.Duration, maxAttempts int) (*SplitJob, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 150
	}

	var job *SplitJob
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var err error
		job, err = c.GetJob(ctx, jobID)
		if err != nil {
			return nil, err
		}
		if job.Terminal() {
			return job, nil
		}
		select {
		case <-ctx.Done():
			return job, ctx.Err()
		case <-time.After(interval):
		}
	}
	return job, fmt.Errorf("job %s still %q after %d polls", jobID, job.Status, maxAttempts)
}
