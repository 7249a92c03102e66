package queuex

// Status is the lifecycle state of a queue entry.
//
//	queued -> running -> fulfilled | rejected
//	queued -> cancelled
type Status string

const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusFulfilled Status = "fulfilled"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is possible.
func (s Status) Terminal() bool {
	switch s {
	case StatusFulfilled, StatusRejected, StatusCancelled:
		return true
	default:
		return false
	}
}

// Stats is a point-in-time snapshot of a queue.
type Stats struct {
	Name        string `json:"name"`
	Queued      int    `json:"queued"`
	Running     int    `json:"running"`
	Fulfilled   int    `json:"fulfilled"`
	Rejected    int    `json:"rejected"`
	Cancelled   int    `json:"cancelled"`
	Enqueued    uint64 `json:"enqueued"`
	Concurrency int    `json:"concurrency"`
	Paused      bool   `json:"paused"`
	Closed      bool   `json:"closed"`
}

// Settled is the number of entries in a terminal state.
func (s Stats) Settled() int {
	return s.Fulfilled + s.Rejected + s.Cancelled
}
