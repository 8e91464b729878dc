package supervisor

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	StreamStdout = "STDOUT"
	StreamStderr = "STDERR"

	readBufferSize = 64 * 1024
)

// streamMonitor forwards one output stream of the gateway line by line
// into the log. STDOUT lines are logged at info level, STDERR lines at
// warn level.
type streamMonitor struct {
	stream  string
	reader  io.ReadCloser
	capture io.WriteCloser

	// reports whether a stop is in progress, read errors are expected then
	shutdownRequested func() bool

	log *zap.Logger
}

func (m *streamMonitor) run() {
	defer m.close()

	r := bufio.NewReaderSize(m.reader, readBufferSize)

	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			m.emit(strings.TrimRight(line, "\r\n"))
		}

		if err == nil {
			continue
		}

		if errors.Is(err, io.EOF) {
			m.log.Debug("stream closed")
		} else if m.shutdownRequested() {
			m.log.Debug("stream read interrupted by shutdown", zap.Error(err))
		} else {
			m.log.Error("failed to read stream", zap.Error(err))
		}

		return
	}
}

func (m *streamMonitor) emit(line string) {
	msg := "[" + m.stream + "] " + line

	if m.stream == StreamStderr {
		m.log.Warn(msg)
	} else {
		m.log.Info(msg)
	}

	if m.capture == nil {
		return
	}

	if _, err := io.WriteString(m.capture, line+"\n"); err != nil {
		m.log.Warn("failed to capture output, disabling capture", zap.Error(err))
		m.closeCapture()
	}
}

func (m *streamMonitor) close() {
	_ = m.reader.Close()
	m.closeCapture()
}

func (m *streamMonitor) closeCapture() {
	if m.capture == nil {
		return
	}
	if err := m.capture.Close(); err != nil {
		m.log.Debug("failed to close capture", zap.Error(err))
	}
	m.capture = nil
}
