package trigger

import (
	"context"

	"github.com/lambda-feedback/warden/internal/supervisor"
)

// Controller is the part of the supervisor the triggers drive.
type Controller interface {
	CurrentStatus() supervisor.Status
	StartIfEnabled(ctx context.Context) supervisor.Status
	Stop()
}

var _ Controller = (*supervisor.Supervisor)(nil)

// Outcome describes what a trigger did.
type Outcome string

const (
	OutcomeSkipped        Outcome = "skipped"
	OutcomeAlreadyRunning Outcome = "already_running"
	OutcomeDisabled       Outcome = "disabled"
	OutcomeFailed         Outcome = "failed"
	OutcomeStarted        Outcome = "started"
)

// Result is returned by a trigger. Status is nil if the supervisor was
// not consulted.
type Result struct {
	Outcome Outcome            `json:"outcome"`
	Status  *supervisor.Status `json:"status,omitempty"`
}

func result(outcome Outcome, status supervisor.Status) Result {
	return Result{Outcome: outcome, Status: &status}
}
