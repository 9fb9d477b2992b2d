package step

import "time"

// Status is the recorded result of executing one step.
type Status string

const (
	// StatusSuccess indicates the step's desired state was reached.
	StatusSuccess Status = "success"
	// StatusWarning indicates a non-blocking problem: an optional step
	// failed, a precondition was unmet, or a dependency failed.
	StatusWarning Status = "warning"
	// StatusFailure indicates a required step failed.
	StatusFailure Status = "failure"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Outcome captures the result of executing a single step.
// Outcomes are immutable and appended to the ledger exactly once per step.
type Outcome struct {
	stepID    ID
	status    Status
	message   string
	timestamp time.Time
}

// NewOutcome creates an Outcome stamped with the current time.
func NewOutcome(stepID ID, status Status, message string) Outcome {
	return Outcome{
		stepID:    stepID,
		status:    status,
		message:   message,
		timestamp: time.Now(),
	}
}

// StepID returns the ID of the step that produced this outcome.
func (o Outcome) StepID() ID {
	return o.stepID
}

// Status returns the recorded status.
func (o Outcome) Status() Status {
	return o.status
}

// Message returns the human-readable detail.
func (o Outcome) Message() string {
	return o.message
}

// Timestamp returns when the outcome was recorded.
func (o Outcome) Timestamp() time.Time {
	return o.timestamp
}

// Success returns true if the step succeeded.
func (o Outcome) Success() bool {
	return o.status == StatusSuccess
}
