package transcribe

import "time"

type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
	StatusCancelled  JobStatus = "cancelled"
)

// Terminal — дальше переходов нет.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Job — одна задача транскрибации и её результат.
type Job struct {
	ID       string
	Status   JobStatus
	Progress int
	Message  string

	// заполняются только при status=completed
	Text            string
	Language        string
	DurationSeconds float64

	// заполняется только при status=failed
	Error string

	// взводится один раз, обратно не сбрасывается
	CancelRequested bool

	CreatedAt   time.Time
	CompletedAt *time.Time
}

func (j *Job) clone() Job {
	out := *j
	if j.CompletedAt != nil {
		t := *j.CompletedAt
		out.CompletedAt = &t
	}
	return out
}
