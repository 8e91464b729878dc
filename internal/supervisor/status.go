package supervisor

import "time"

const (
	MessageDisabled           = "service disabled"
	MessageDisabledInSettings = "disabled in settings"
	MessageRunning            = "running"
	MessageStopped            = "stopped"
)

// Status describes the gateway service at the time it was taken.
type Status struct {
	Enabled bool   `json:"enabled"`
	Running bool   `json:"running"`
	Message string `json:"message"`
}

// NewStatus creates a status. A disabled service is never reported as
// running.
func NewStatus(enabled, running bool, message string) Status {
	return Status{
		Enabled: enabled,
		Running: enabled && running,
		Message: message,
	}
}

// Info describes the currently owned process.
type Info struct {
	PID        int           `json:"pid,omitempty"`
	Executable string        `json:"executable,omitempty"`
	StartedAt  time.Time     `json:"started_at,omitempty"`
	Uptime     time.Duration `json:"uptime,omitempty"`
}
