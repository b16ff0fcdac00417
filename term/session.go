// Copyright © 2025 Termlaunch contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: term/session.go
// Summary: Child process lifecycle on a pseudo-terminal.
//
// A reader goroutine funnels PTY output into a channel and a waiter
// goroutine reaps the child; everything the event loop calls (ReadOutput,
// TryWait, Write, Resize, Close) is non-blocking or bounded, so the UI tick
// never stalls on the child.

package term

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/creack/pty"
)

// Status is the final state of an exited child.
type Status struct {
	Code     int
	Signal   syscall.Signal
	Signaled bool
}

func (s Status) String() string {
	if s.Signaled {
		return fmt.Sprintf("signal: %s", s.Signal)
	}
	return fmt.Sprintf("exit %d", s.Code)
}

// ErrSessionClosed is returned by Write after Close.
var ErrSessionClosed = errors.New("session closed")

const killGracePeriod = 2 * time.Second

// Session owns a child process wired to a pseudo-terminal.
type Session struct {
	cmd *exec.Cmd
	pty *os.File

	output chan []byte
	exit   chan Status
	stop   chan struct{}

	mu       sync.Mutex
	closed   bool
	status   *Status
	sawEOF   bool
	closeOne sync.Once
}

// StartSession runs command under `sh -c` attached to a new PTY with the
// given initial dimensions. Spawn failures return a typed error and no
// partial session.
func StartSession(command string, cols, rows int) (*Session, error) {
	if cols <= 0 || rows <= 0 {
		cols, rows = 80, 24
	}

	cmd := exec.Command("sh", "-c", command)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	})
	if err != nil {
		return nil, fmt.Errorf("spawn %q: %w", command, err)
	}

	s := &Session{
		cmd:    cmd,
		pty:    ptmx,
		output: make(chan []byte, 64),
		exit:   make(chan Status, 1),
		stop:   make(chan struct{}),
	}

	go s.readLoop()
	go s.waitLoop()

	return s, nil
}

// readLoop pumps PTY output into the channel. The PTY read returning an
// error (EIO once the child side closes on Linux) ends the stream.
func (s *Session) readLoop() {
	defer close(s.output)
	buf := make([]byte, 4096)
	for {
		n, err := s.pty.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			select {
			case s.output <- chunk:
			case <-s.stop:
				return
			}
		}
		if err != nil {
			// io.EOF, or EIO once the child side closes; both end the stream.
			return
		}
	}
}

func (s *Session) waitLoop() {
	err := s.cmd.Wait()

	st := Status{}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			st = Status{Signal: ws.Signal(), Signaled: true}
		} else {
			st = Status{Code: exitErr.ExitCode()}
		}
	} else if err != nil {
		st = Status{Code: -1}
	}

	s.exit <- st
}

// ReadOutput returns buffered child output without blocking. The second
// return value is false once the child has closed its output and the
// buffer is drained; (nil, true) means no data yet.
func (s *Session) ReadOutput() ([]byte, bool) {
	s.mu.Lock()
	sawEOF := s.sawEOF
	s.mu.Unlock()
	if sawEOF {
		return nil, false
	}

	select {
	case chunk, ok := <-s.output:
		if !ok {
			s.mu.Lock()
			s.sawEOF = true
			s.mu.Unlock()
			return nil, false
		}
		return chunk, true
	default:
		return nil, true
	}
}

// Write delivers the full payload to the child's input, retrying partial
// writes. Errors other than would-block surface to the caller.
func (s *Session) Write(data []byte) error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	for len(data) > 0 {
		n, err := s.pty.Write(data)
		data = data[n:]
		if err != nil {
			return fmt.Errorf("pty write: %w", err)
		}
	}
	return nil
}

// Resize propagates new dimensions to the kernel terminal, which also
// raises SIGWINCH in the child. Safe and idempotent at any point after
// spawn, including after exit.
func (s *Session) Resize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	if s.isClosed() {
		return nil
	}
	if err := pty.Setsize(s.pty, &pty.Winsize{
		Rows: uint16(rows),
		Cols: uint16(cols),
	}); err != nil {
		return fmt.Errorf("pty resize: %w", err)
	}
	return nil
}

// TryWait polls the child status without blocking. The second return value
// is false while the child is still running. After the first true result
// the status is remembered and returned on every call.
func (s *Session) TryWait() (Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != nil {
		return *s.status, true
	}

	select {
	case st := <-s.exit:
		s.status = &st
		return st, true
	default:
		return Status{}, false
	}
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Kill sends SIGTERM to the child's process group. Used for user-requested
// aborts; teardown escalation lives in Close.
func (s *Session) Kill() {
	if s.cmd.Process != nil {
		_ = s.cmd.Process.Signal(syscall.SIGTERM)
	}
}

// Close tears the session down: stops the pumps, closes the PTY, and makes
// sure the child is terminated and reaped so no zombie is left behind.
// Idempotent; closing an already-exited session is a no-op beyond cleanup.
func (s *Session) Close() {
	s.closeOne.Do(func() {
		s.mu.Lock()
		s.closed = true
		exited := s.status != nil
		s.mu.Unlock()

		close(s.stop)
		_ = s.pty.Close()

		if exited {
			return
		}
		if _, done := s.TryWait(); done {
			return
		}

		s.Kill()
		// The waiter goroutine reaps; escalate if the child ignores SIGTERM.
		go func() {
			select {
			case st := <-s.exit:
				s.mu.Lock()
				s.status = &st
				s.mu.Unlock()
			case <-time.After(killGracePeriod):
				if s.cmd.Process != nil {
					_ = s.cmd.Process.Kill()
				}
				st := <-s.exit
				s.mu.Lock()
				s.status = &st
				s.mu.Unlock()
			}
		}()
	})
}
