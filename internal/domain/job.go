package domain

import "time"

// JobStatus enumerates batch job lifecycle states.
type JobStatus string

const (
	JobStatusProcessing JobStatus = "processing"
	JobStatusComplete   JobStatus = "complete"
)

// BatchJob tracks one concurrent multi-item generation. Completed+Failed
// only grows, never exceeds Total, and Status flips to complete exactly
// once, after every unit has resolved.
type BatchJob struct {
	ID        string       `json:"id"`
	Total     int          `json:"total"`
	Completed int          `json:"completed"`
	Failed    int          `json:"failed"`
	Results   []ImageAsset `json:"results"`
	Errors    []string     `json:"errors,omitempty"`
	Status    JobStatus    `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// Done reports whether every unit has resolved.
func (j BatchJob) Done() bool {
	return j.Completed+j.Failed >= j.Total
}
