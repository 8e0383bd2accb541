package domain

import "time"

// RunStatus is the lifecycle state of a qualifier run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunStep names a step of the qualifier flow.
type RunStep string

const (
	StepGenerateWebhook RunStep = "generate_webhook"
	StepSelectAnswer    RunStep = "select_answer"
	StepSubmitAnswer    RunStep = "submit_answer"
)

// Run records one execution of the qualifier flow. Step is the last step
// reached; for a failed run it is the step that failed.
type Run struct {
	RunID      string
	Status     RunStatus
	Step       RunStep
	Parity     string
	Response   string
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
