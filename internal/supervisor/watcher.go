package supervisor

import "go.uber.org/zap"

// watch blocks until p exits and classifies the exit. An exit is a crash
// unless a stop of p was in progress at the moment it was reaped.
func (s *Supervisor) watch(p *proc) {
	exit := s.reap(p)

	s.observer.Exited(p.pid, exit, p.requested)

	if p.requested {
		p.log.Info("process terminated as requested", zap.Stringer("exit", exit))
		return
	}

	crash := &CrashError{Name: s.config.Name, PID: p.pid, Exit: exit}

	p.log.Error("process terminated unexpectedly",
		zap.Stringer("exit", exit),
		zap.Duration("uptime", p.info().Uptime))

	s.notifier.Error(crash.Error())
}

// reap waits for p and records under mu whether its exit was requested.
// Whoever reaps first classifies the exit, so an aborted launch and its
// watcher agree.
func (s *Supervisor) reap(p *proc) ExitEvent {
	return p.wait(func(ExitEvent) {
		s.mu.Lock()
		defer s.mu.Unlock()

		// a newer process owns the state, this one is not ours to report
		if s.state.proc != p {
			p.requested = true
			return
		}

		p.requested = s.state.shutdownRequested
		s.state.running = false
	})
}
