package model

import "time"

// Job is one batch record flowing through the scoring queue.
type Job struct {
	ID         string        // batch-scoped id used in logs
	Index      int           // position in the originating batch
	Request    Request       // raw record, validated by the worker
	Reply      chan<- Result // buffered by the submitter; workers never block on it
	EnqueuedAt time.Time     // stamped by the queue
}

// Result carries a worker's outcome for a Job.
type Result struct {
	Index      int
	Assessment Assessment
	Err        error
}
