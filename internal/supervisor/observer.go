package supervisor

// Observer receives lifecycle events of the supervised process.
// Implementations must be safe for concurrent use and must not block.
type Observer interface {
	// Launched is called after a process has been spawned.
	Launched(pid int)

	// LaunchFailed is called when spawning a process failed.
	LaunchFailed(err error)

	// Exited is called once per process after it has been reaped.
	// requested reports whether the exit was caused by Stop.
	Exited(pid int, exit ExitEvent, requested bool)

	// ForceKilled is called when a process had to be killed after the
	// graceful timeout.
	ForceKilled(pid int)
}

type nopObserver struct{}

func (nopObserver) Launched(int)                {}
func (nopObserver) LaunchFailed(error)          {}
func (nopObserver) Exited(int, ExitEvent, bool) {}
func (nopObserver) ForceKilled(int)             {}
