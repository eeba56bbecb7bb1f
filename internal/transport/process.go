package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// processTransport speaks newline-delimited JSON-RPC over the stdio of a
// spawned agent subprocess.
type processTransport struct {
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	stdout  io.ReadCloser
	handler Handler

	writeLock sync.Mutex
	closeOnce sync.Once
	closed    chan struct{}
}

// StartAgentProcess spawns command with args and wires its stdio up as a
// transport. The agent's stderr is copied to the given writer so diagnostics
// never interleave with protocol frames; pass nil to discard it. The
// returned transport delivers nothing until Start is called.
func StartAgentProcess(command string, args []string, stderr io.Writer, handler Handler) (Transport, error) {
	if handler == nil {
		return nil, errors.New("transport handler required")
	}
	if command == "" {
		return nil, errors.New("agent command required")
	}

	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("agent stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("agent stdout pipe: %w", err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		_ = stdin.Close()
		_ = stdout.Close()
		return nil, fmt.Errorf("agent stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start agent %s: %w", command, err)
	}

	// Drain stderr so the agent never blocks on a full pipe.
	go func() {
		if stderr == nil {
			_, _ = io.Copy(io.Discard, stderrPipe)
			return
		}
		_, _ = io.Copy(stderr, stderrPipe)
	}()

	return &processTransport{
		cmd:     cmd,
		stdin:   stdin,
		stdout:  stdout,
		handler: handler,
		closed:  make(chan struct{}),
	}, nil
}

// Start launches the read pump.
func (t *processTransport) Start() {
	go t.readLoop()
}

// readLoop delivers newline-delimited frames until stdout closes.
func (t *processTransport) readLoop() {
	scanner := bufio.NewScanner(t.stdout)
	// Generous line cap: tool outputs embedded in frames can be large.
	const maxFrameSize = 10 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		payload := make([]byte, len(line))
		copy(payload, line)
		t.handler.HandleMessage(payload)
	}

	if err := scanner.Err(); err != nil {
		select {
		case <-t.closed:
		default:
			t.handler.HandleError(fmt.Errorf("agent stdout: %w", err))
		}
	}
	_ = t.cmd.Wait()
	t.handler.HandleClose()
}

// Send writes one payload followed by the newline frame delimiter.
func (t *processTransport) Send(payload []byte) error {
	t.writeLock.Lock()
	defer t.writeLock.Unlock()
	if _, err := t.stdin.Write(append(payload, '\n')); err != nil {
		return fmt.Errorf("agent stdin write: %w", err)
	}
	return nil
}

// Close shuts the agent down by closing stdin; the read pump observes EOF.
func (t *processTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.closed)
		err = t.stdin.Close()
		if t.cmd.Process != nil {
			_ = t.cmd.Process.Kill()
		}
	})
	return err
}
