package async

import (
	"context"
	"time"
)

// Job asks for one inbox file to be processed as its own batch.
type Job struct {
	Filename    string
	SubmittedAt time.Time
	RequestID   string
}

type Queue interface {
	Enqueue(ctx context.Context, job Job) error
	Shutdown(ctx context.Context)
}
