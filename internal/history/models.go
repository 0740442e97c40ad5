package history

import "time"

// Outcome summarizes how a dispatch ended.
type Outcome string

const (
	OutcomeOK     Outcome = "ok"
	OutcomeFailed Outcome = "failed"
)

// Entry is one journaled dispatch attempt.
type Entry struct {
	ID           string
	RequestID    string // correlation id shared with log lines
	CreatedAt    time.Time
	URL          string
	Outcome      Outcome
	ErrorKind    string
	ErrorMessage string
	RelayID      string
	RelayEvent   string
	Duration     time.Duration
}
