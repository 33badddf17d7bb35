package tick

import "github.com/google/uuid"

// Status is the terminal state of one world's per-cycle processing.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// ReasonAlreadyLocked is the skip reason used when another worker holds the
// world's lock this cycle.
const ReasonAlreadyLocked = "another worker is already processing this world"

// Outcome is the immutable per-world result of one tick attempt.
type Outcome struct {
	WorldID uuid.UUID `json:"world_id"`
	Status  Status    `json:"status"`
	Day     int64     `json:"day,omitempty"`
	Reason  string    `json:"reason,omitempty"`

	// Err carries the underlying error for failed outcomes. It is kept out
	// of the JSON form; Reason holds its message.
	Err error `json:"-"`
}

// Succeeded builds a success outcome carrying the world's new day.
func Succeeded(id uuid.UUID, day int64) Outcome {
	return Outcome{WorldID: id, Status: StatusSucceeded, Day: day}
}

// Skipped builds a skip outcome with the given reason.
func Skipped(id uuid.UUID, reason string) Outcome {
	return Outcome{WorldID: id, Status: StatusSkipped, Reason: reason}
}

// Failed builds a failure outcome wrapping err.
func Failed(id uuid.UUID, err error) Outcome {
	o := Outcome{WorldID: id, Status: StatusFailed, Err: err}
	if err != nil {
		o.Reason = err.Error()
	}
	return o
}
