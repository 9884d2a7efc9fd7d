package constants

// JobStatus is the outcome of one document in a batch.
type JobStatus string

// Reported per file in batch results and logs.
const (
	JobStatusQueued    JobStatus = "QUEUED"    // waiting in the processor queue
	JobStatusRunning   JobStatus = "RUNNING"   // in progress
	JobStatusExtracted JobStatus = "EXTRACTED" // fields extracted, file moved to processed
	JobStatusNoOrder   JobStatus = "NO_ORDER"  // order number not found, file left in inbox
	JobStatusFailed    JobStatus = "FAILED"    // terminal failure
)
