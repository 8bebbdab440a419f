package constants

// JobStatus is the canonical per-file status inside a batch.
type JobStatus string

// Stable values (surfaced to the UI layer as-is).
const (
	JobStatusPending    JobStatus = "PENDING"    // queued, not yet picked up
	JobStatusProcessing JobStatus = "PROCESSING" // in progress
	JobStatusSuccess    JobStatus = "SUCCESS"    // a page parsed into a full record
	JobStatusFailure    JobStatus = "FAILURE"    // every page failed both stages, or the file blew up
)

// BatchStatus is the status of the whole run.
type BatchStatus string

const (
	BatchStatusIdle       BatchStatus = "IDLE"
	BatchStatusProcessing BatchStatus = "PROCESSING"
	BatchStatusFinished   BatchStatus = "FINISHED"
)

// Terminal reports whether a job status is final.
func (s JobStatus) Terminal() bool {
	return s == JobStatusSuccess || s == JobStatusFailure
}
