package smt

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"syscall"
	"time"
)

var ErrSessionClosed = errors.New("session is closed")

// Logger receives the diagnostics of solver processes
var Logger = log.Default()

// Session is a synchronous request/response channel to one solver process speaking a line-oriented text protocol.
// A session must be closed exactly once on every path, which reaps the underlying process
type Session interface {
	// Writes the statement followed by a newline and flushes it to the solver
	Send(statement string) error
	// Blocks until the solver answers one line; the trailing newline is stripped
	ReceiveLine() (string, error)
	// Closes both streams and waits for the process to terminate
	Close() error
}

// Starter spawns a new session; it exists so that callers can swap the process-backed session for another one
type Starter func(ctx context.Context, config Config) (Session, error)

type processSession struct {
	cmd    *exec.Cmd
	cancel context.CancelFunc
	stdin  io.WriteCloser
	stdout io.ReadCloser
	writer *bufio.Writer
	reader *bufio.Reader
	stderr bytes.Buffer
	grace  time.Duration
	closed bool
}

// Start spawns the configured solver. The process is bound by a context deadline of TimeBudget+Grace: once it expires
// the process receives SIGTERM and, if it is still alive after Grace, SIGKILL
func Start(ctx context.Context, config Config) (Session, error) {
	name, args := command(config)

	ctx, cancel := context.WithTimeout(ctx, config.TimeBudget+config.Grace)
	session := &processSession{cancel: cancel, grace: config.Grace}

	cmd := exec.CommandContext(ctx, name, args...)
	if config.Grace > 0 {
		cmd.Cancel = func() error { return cmd.Process.Signal(syscall.SIGTERM) }
		cmd.WaitDelay = config.Grace
	}
	cmd.Stderr = &session.stderr
	session.cmd = cmd

	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		return nil, &SpawnError{Path: name, Err: err}
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		stdin.Close()
		cancel()
		return nil, &SpawnError{Path: name, Err: err}
	}

	if err := cmd.Start(); err != nil {
		stdin.Close()
		stdout.Close()
		cancel()
		return nil, &SpawnError{Path: name, Err: err}
	}

	session.stdin, session.stdout = stdin, stdout
	session.writer = bufio.NewWriter(stdin)
	session.reader = bufio.NewReader(stdout)
	return session, nil
}

func (session *processSession) Send(statement string) error {
	if session.closed {
		return &ProtocolError{Op: "send", Err: ErrSessionClosed}
	}

	if _, err := session.writer.WriteString(statement); err != nil {
		return &ProtocolError{Op: "send", Err: err}
	}
	if err := session.writer.WriteByte('\n'); err != nil {
		return &ProtocolError{Op: "send", Err: err}
	}
	// Nothing happens on the other side until the statement is flushed
	if err := session.writer.Flush(); err != nil {
		return &ProtocolError{Op: "send", Err: err}
	}
	return nil
}

func (session *processSession) ReceiveLine() (string, error) {
	if session.closed {
		return "", &ProtocolError{Op: "receive", Err: ErrSessionClosed}
	}

	line, err := session.reader.ReadString('\n')
	if err != nil {
		// An unterminated last line is still a line
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimRight(line, "\r"), nil
		} else if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return "", &ProtocolError{Op: "receive", Err: err}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (session *processSession) Close() error {
	if session.closed {
		return nil
	}
	session.closed = true
	defer session.cancel()

	session.stdin.Close()
	session.stdout.Close()

	// A solver that does not leave on end of input gets Grace to do so before it is terminated
	timer := time.AfterFunc(session.grace, session.cancel)
	err := session.cmd.Wait()
	timer.Stop()
	if err == nil {
		return nil
	}

	// The solver may already be dead (timeout, kill, closed pipe); all of these are expected here
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) ||
		errors.Is(err, exec.ErrWaitDelay) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, context.Canceled) {
		Logger.Printf("solver process exited abnormally: %v: %v", err, strings.TrimSpace(session.stderr.String()))
		return nil
	}
	return fmt.Errorf("cannot reap solver process: %w", err)
}

func command(config Config) (name string, args []string) {
	if config.TimeLimitPath == "" {
		return config.SolverPath, config.SolverArgs
	}

	args = []string{
		"-q",
		"-t" + seconds(config.TimeBudget.Seconds()),
		"-T" + seconds(config.Grace.Seconds()),
		config.SolverPath,
	}
	return config.TimeLimitPath, append(args, config.SolverArgs...)
}

func seconds(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
