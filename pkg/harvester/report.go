package harvester

import (
	"time"
)

// Failure records one item that could not be downloaded
type Failure struct {
	Index int
	ID    string
	Err   error
}

// Report summarises a finished run
type Report struct {
	RunID string
	RunState

	Failures []Failure
	// Batches is the number of batches the catalog was split into
	Batches int
	// Pauses is the number of inter-batch pauses actually taken
	Pauses int

	StartedAt  time.Time
	FinishedAt time.Time

	// Err is the fatal error of an Aborted run
	Err error
}

// Duration returns the wall time of the run
func (r *Report) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedIDs returns the ids of failed items in processing order
func (r *Report) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failures))
	for _, f := range r.Failures {
		ids = append(ids, f.ID)
	}
	return ids
}
