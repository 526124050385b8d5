package scheduler

import "context"

// Job represents a unit of work that can be executed by the worker pool.
type Job interface {
	// Execute runs the job. Implementations must respect ctx cancellation.
	Execute(ctx context.Context) error

	// UserID returns the user whose data the job processes.
	UserID() string

	// Description returns a human-readable description of the job, used in logs and spans.
	Description() string
}
