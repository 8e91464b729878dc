package supervisor

import (
	"errors"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"go.uber.org/zap"
)

type launchSpec struct {
	path string
	args []string
	dir  string
	env  []string
}

// proc is a single launched gateway process. The output streams are
// plain pipes owned by proc, so reaping the process does not close them
// under the readers.
type proc struct {
	cmd     *exec.Cmd
	pid     int
	path    string
	started time.Time

	stdout *os.File
	stderr *os.File

	waitOnce sync.Once
	exit     ExitEvent
	done     chan struct{}

	// requested is set by the exit callback before done is closed
	requested bool

	// set before the supervisor closes the output pipes itself
	outputClosed atomic.Bool

	log *zap.Logger
}

func startProc(spec launchSpec, log *zap.Logger) (*proc, error) {
	cmd := exec.Command(spec.path, spec.args...)
	cmd.Dir = spec.dir
	cmd.Env = append(os.Environ(), spec.env...)

	initCmd(cmd)

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return nil, err
	}

	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		closeAll(stdoutR, stdoutW)
		return nil, err
	}

	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		closeAll(stdoutR, stdoutW, stderrR, stderrW)
		return nil, err
	}

	// the child holds its own copies of the write ends
	closeAll(stdoutW, stderrW)

	return &proc{
		cmd:     cmd,
		pid:     cmd.Process.Pid,
		path:    spec.path,
		started: time.Now(),
		stdout:  stdoutR,
		stderr:  stderrR,
		done:    make(chan struct{}),
		log:     log.With(zap.Int("pid", cmd.Process.Pid)),
	}, nil
}

// wait reaps the process. The first caller performs the wait and runs
// onExit before Done is closed; later callers block until then.
func (p *proc) wait(onExit func(ExitEvent)) ExitEvent {
	p.waitOnce.Do(func() {
		err := p.cmd.Wait()

		p.exit = getExitEvent(err)
		if onExit != nil {
			onExit(p.exit)
		}

		close(p.done)
	})

	<-p.done

	return p.exit
}

// Done is closed once the process has been reaped.
func (p *proc) Done() <-chan struct{} {
	return p.done
}

func (p *proc) Alive() bool {
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}

// Terminate asks the process group to shut down.
func (p *proc) Terminate() error {
	return p.signal(false)
}

// Kill forcibly stops the process group.
func (p *proc) Kill() error {
	return p.signal(true)
}

func (p *proc) signal(force bool) error {
	if !p.Alive() {
		p.log.Debug("process already terminated")
		return nil
	}

	err := killProcess(p.cmd, force)
	if errors.Is(err, os.ErrProcessDone) || errors.Is(err, syscall.ESRCH) {
		return nil
	}

	return err
}

// closeOutput closes the read ends of both output pipes, unblocking any
// reader still attached to them.
func (p *proc) closeOutput() {
	p.outputClosed.Store(true)
	closeAll(p.stdout, p.stderr)
}

func (p *proc) info() Info {
	return Info{
		PID:        p.pid,
		Executable: p.path,
		StartedAt:  p.started,
		Uptime:     time.Since(p.started).Round(time.Second),
	}
}

func getExitEvent(err error) ExitEvent {
	var cell int

	if err == nil {
		return ExitEvent{Code: &cell}
	}

	var exitError *exec.ExitError
	if !errors.As(err, &exitError) {
		return ExitEvent{}
	}

	status, ok := exitError.Sys().(syscall.WaitStatus)
	if !ok {
		cell = exitError.ExitCode()
		return ExitEvent{Code: &cell}
	}

	if status.Signaled() {
		cell = int(status.Signal())
		return ExitEvent{Signal: &cell}
	}

	cell = status.ExitStatus()
	return ExitEvent{Code: &cell}
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		// already closed files report os.ErrClosed
		_ = f.Close()
	}
}
