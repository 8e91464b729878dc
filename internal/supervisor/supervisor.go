package supervisor

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lambda-feedback/warden/internal/notify"
	"github.com/lambda-feedback/warden/internal/pool"
	"github.com/lambda-feedback/warden/internal/settings"
	"go.uber.org/zap"
)

// Params holds the dependencies of a Supervisor.
type Params struct {
	Config   Config
	Settings settings.Provider
	Notifier notify.Notifier

	// Observer is optional and receives lifecycle events.
	Observer Observer

	// HomeDir is optional and defaults to os.UserHomeDir.
	HomeDir HomeDirFunc

	Log *zap.Logger
}

// state is guarded by Supervisor.mu.
type state struct {
	proc              *proc
	running           bool
	shutdownRequested bool
	pool              *pool.Pool
}

// Supervisor owns the lifecycle of the gateway process.
type Supervisor struct {
	config   Config
	settings settings.Provider
	notifier notify.Notifier
	observer Observer
	homeDir  HomeDirFunc

	// lifecycle serializes start, stop and restart
	lifecycle sync.Mutex

	// mu guards state and is never held while waiting on the process
	mu    sync.Mutex
	state state

	log *zap.Logger
}

func New(params Params) *Supervisor {
	config := params.Config.withDefaults()

	observer := params.Observer
	if observer == nil {
		observer = nopObserver{}
	}

	homeDir := params.HomeDir
	if homeDir == nil {
		homeDir = os.UserHomeDir
	}

	notifier := params.Notifier
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Supervisor{
		config:   config,
		settings: params.Settings,
		notifier: notifier,
		observer: observer,
		homeDir:  homeDir,
		log:      params.Log.Named("supervisor").With(zap.String("name", config.Name)),
	}
}

// CurrentStatus reports the status of the gateway without side effects.
func (s *Supervisor) CurrentStatus() Status {
	cfg, err := s.settings.Settings()
	if err != nil {
		s.log.Warn("failed to read settings", zap.Error(err))
		return NewStatus(false, false, "status unavailable: "+err.Error())
	}

	if !cfg.EnableService {
		return NewStatus(false, false, MessageDisabled)
	}

	if s.IsRunning() {
		return NewStatus(true, true, MessageRunning)
	}

	return NewStatus(true, false, MessageStopped)
}

// IsRunning reports whether the owned process is alive.
func (s *Supervisor) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.isRunningLocked()
}

func (s *Supervisor) isRunningLocked() bool {
	return s.state.running && s.state.proc != nil && s.state.proc.Alive()
}

// Info describes the running process. ok is false if nothing is running.
func (s *Supervisor) Info() (info Info, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunningLocked() {
		return Info{}, false
	}

	return s.state.proc.info(), true
}

// StartIfEnabled starts the gateway if it is enabled in the settings and
// not running yet. Concurrent calls launch at most one process. Failures
// are reported through the returned status and the notifier.
func (s *Supervisor) StartIfEnabled(ctx context.Context) Status {
	spec, status, ok := s.prepare()
	if !ok {
		return status
	}

	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	return s.launchLocked(ctx, spec)
}

// Restart stops the running gateway, if any, and starts it again. No
// other start or stop can interleave with a restart.
func (s *Supervisor) Restart(ctx context.Context) Status {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.log.Info("restart requested")

	s.stopLocked()

	spec, status, ok := s.prepare()
	if !ok {
		return status
	}

	return s.launchLocked(ctx, spec)
}

// Stop terminates the gateway. It sends SIGTERM, waits for the graceful
// timeout and kills the process group if it is still alive. Stop is a
// no-op if nothing is running.
func (s *Supervisor) Stop() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.stopLocked()
}

// prepare reads the settings and validates the executable. ok is false
// if nothing should be launched, status then describes why.
func (s *Supervisor) prepare() (launchSpec, Status, bool) {
	cfg, err := s.settings.Settings()
	if err != nil {
		cerr := &ConfigError{Err: err}
		s.log.Warn("not starting", zap.Error(cerr))
		return launchSpec{}, NewStatus(false, false, cerr.Error()), false
	}

	if !cfg.EnableService {
		s.log.Info("service disabled in settings, not starting")
		return launchSpec{}, NewStatus(false, false, MessageDisabledInSettings), false
	}

	path, err := ResolvePath(cfg.ExecutablePath, s.config.DefaultPath, s.homeDir)
	if err != nil {
		err = &PathError{Path: cfg.ExecutablePath, Err: err}
	} else {
		err = ValidateExecutable(path)
	}

	if err != nil {
		s.log.Error("invalid executable", zap.Error(err))
		s.notifier.Error(err.Error())
		return launchSpec{}, NewStatus(true, false, err.Error()), false
	}

	return launchSpec{
		path: path,
		args: s.config.Args,
		dir:  filepath.Dir(path),
		env:  s.gatewayEnv(cfg),
	}, Status{}, true
}

// gatewayEnv points the gateway at its settings file inside the
// configured config path, if that file exists.
func (s *Supervisor) gatewayEnv(cfg settings.Settings) []string {
	if cfg.ConfigPath == "" {
		return nil
	}

	dir, err := expandHome(cfg.ConfigPath, s.homeDir)
	if err != nil {
		s.log.Warn("failed to resolve config path", zap.Error(err))
		return nil
	}

	file := filepath.Join(dir, s.config.SettingsFileName)
	if _, err := os.Stat(file); err != nil {
		s.log.Warn("gateway settings file not found, using gateway defaults",
			zap.String("file", file))
		return nil
	}

	s.log.Debug("passing gateway settings file",
		zap.String("env", s.config.SettingsEnv),
		zap.String("file", file))

	return []string{s.config.SettingsEnv + "=" + file}
}

func (s *Supervisor) launchLocked(ctx context.Context, spec launchSpec) Status {
	if s.IsRunning() {
		s.log.Debug("already running, not starting another instance")
		return NewStatus(true, true, MessageRunning)
	}

	s.releaseExited()

	log := s.log.With(zap.String("executable", spec.path))
	log.Info("starting process")

	p, err := startProc(spec, s.log)
	if err != nil {
		return s.launchFailed(log, err)
	}

	s.mu.Lock()
	s.state.proc = p
	s.state.running = true
	s.state.shutdownRequested = false
	workers, err := s.ensurePoolLocked()
	s.mu.Unlock()

	if err == nil {
		err = s.spawnWorkers(ctx, workers, p)
	}

	if err != nil {
		s.abortLaunch(p)
		return s.launchFailed(log, err)
	}

	log.Info("process started", zap.Int("pid", p.pid))
	s.observer.Launched(p.pid)

	return NewStatus(true, true, MessageRunning)
}

func (s *Supervisor) ensurePoolLocked() (*pool.Pool, error) {
	if current := s.state.pool; current != nil && !current.IsShutdown() {
		return current, nil
	}

	workers, err := pool.New(poolSize, s.log)
	if err != nil {
		return nil, err
	}

	s.state.pool = workers

	return workers, nil
}

func (s *Supervisor) spawnWorkers(ctx context.Context, workers *pool.Pool, p *proc) error {
	// slot acquisition is bounded, but a caller cancelling its request
	// must not abort a launch that already spawned a process
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), slotTimeout)
	defer cancel()

	stdoutCapture, stderrCapture := s.config.Output.Writers(s.config.Name)

	monitors := []*streamMonitor{
		s.newMonitor(StreamStdout, p.stdout, stdoutCapture, p),
		s.newMonitor(StreamStderr, p.stderr, stderrCapture, p),
	}

	if err := workers.Go(ctx, "watcher", func() { s.watch(p) }); err != nil {
		closeCaptures(stdoutCapture, stderrCapture)
		return err
	}

	for i, m := range monitors {
		if err := workers.Go(ctx, "monitor", m.run); err != nil {
			for _, rest := range monitors[i:] {
				rest.closeCapture()
			}
			return err
		}
	}

	return nil
}

func (s *Supervisor) newMonitor(stream string, r *os.File, capture io.WriteCloser, p *proc) *streamMonitor {
	return &streamMonitor{
		stream:            stream,
		reader:            r,
		capture:           capture,
		shutdownRequested: func() bool { return p.outputClosed.Load() || s.isShutdownRequested() },
		log:               p.log.Named("output").With(zap.String("stream", stream)),
	}
}

// abortLaunch tears down a process whose workers could not be started.
func (s *Supervisor) abortLaunch(p *proc) {
	s.mu.Lock()
	s.state.shutdownRequested = true
	workers := s.state.pool
	s.state.pool = nil
	s.mu.Unlock()

	if err := p.Kill(); err != nil {
		p.log.Error("failed to kill process", zap.Error(err))
	}
	s.reap(p)

	s.drain(p.log, p, workers)

	s.mu.Lock()
	s.state = state{}
	s.mu.Unlock()
}

func (s *Supervisor) launchFailed(log *zap.Logger, err error) Status {
	lerr := &LaunchError{Err: err}

	log.Error("failed to start process", zap.Error(err))
	s.notifier.Error(lerr.Error())
	s.observer.LaunchFailed(err)

	s.mu.Lock()
	s.state.running = false
	s.state.shutdownRequested = false
	s.mu.Unlock()

	return NewStatus(true, false, lerr.Error())
}

func (s *Supervisor) stopLocked() {
	s.mu.Lock()
	if !s.state.running || s.state.proc == nil {
		s.state.shutdownRequested = false
		s.mu.Unlock()
		s.releaseExited()
		return
	}
	s.state.shutdownRequested = true
	p := s.state.proc
	workers := s.state.pool
	s.mu.Unlock()

	log := p.log
	log.Info("stopping process")

	s.terminate(log, p)

	s.mu.Lock()
	s.state.running = false
	s.state.pool = nil
	s.mu.Unlock()

	s.drain(log, p, workers)

	s.mu.Lock()
	s.state.proc = nil
	s.state.shutdownRequested = false
	s.mu.Unlock()

	log.Info("process stopped")
}

// terminate sends SIGTERM and escalates to SIGKILL after the graceful
// timeout. It returns once the process has been reaped.
func (s *Supervisor) terminate(log *zap.Logger, p *proc) {
	if err := p.Terminate(); err != nil {
		log.Warn("failed to send SIGTERM", zap.Error(err))
	}

	timer := time.NewTimer(s.config.GracefulTimeout)
	defer timer.Stop()

	select {
	case <-p.Done():
		log.Info("process terminated gracefully")
		return
	case <-timer.C:
	}

	log.Warn("forcing termination",
		zap.Error(ErrShutdownTimeout),
		zap.Duration("timeout", s.config.GracefulTimeout))

	if err := p.Kill(); err != nil {
		log.Error("failed to kill process", zap.Error(err))
	}

	s.observer.ForceKilled(p.pid)

	<-p.Done()
}

// releaseExited drains a process that exited on its own. Children of the
// gateway may keep its output pipes open after the crash, which would
// leave the monitors and the pool of the old instance blocked.
func (s *Supervisor) releaseExited() {
	s.mu.Lock()
	p, workers := s.state.proc, s.state.pool
	if p == nil || s.state.running {
		s.mu.Unlock()
		return
	}
	s.state.proc = nil
	s.state.pool = nil
	s.mu.Unlock()

	p.log.Debug("releasing exited process")

	s.drain(p.log, p, workers)
}

// drain waits for the workers of p to finish. Output readers still
// blocked after the drain timeout are unblocked by closing the pipes.
func (s *Supervisor) drain(log *zap.Logger, p *proc, workers *pool.Pool) {
	if workers == nil {
		p.closeOutput()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.config.DrainTimeout)
	defer cancel()

	if err := workers.Shutdown(ctx); err == nil {
		// monitors that never ran leave their pipes open
		p.closeOutput()
		return
	}

	log.Warn("output still open after exit, closing streams",
		zap.Duration("timeout", s.config.DrainTimeout))

	p.closeOutput()

	if err := workers.Shutdown(context.Background()); err != nil {
		log.Error("failed to shut down workers", zap.Error(err))
	}
}

func (s *Supervisor) isShutdownRequested() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state.shutdownRequested
}

func closeCaptures(captures ...io.WriteCloser) {
	for _, c := range captures {
		if c != nil {
			_ = c.Close()
		}
	}
}
