package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"
)

// OutPlaceholder in Command.Args is replaced by the temporary output path.
const OutPlaceholder = "{out}"

// stopGrace is how long a recorder gets to flush after an interrupt before
// it is killed.
const stopGrace = 3 * time.Second

// Command records through an external program such as `rec` (sox) or
// `arecord`. The program must write its output to the path in place of
// OutPlaceholder (appended when Args has none) and finish the file when
// interrupted.
type Command struct {
	Program string
	Args    []string
	// Format is the output file extension without the dot. Default "wav".
	Format string
	// TempDir holds in-progress recordings. Default os.TempDir().
	TempDir string
}

// DefaultCommand returns a sox `rec` recorder producing 16 kHz mono WAV.
func DefaultCommand() *Command {
	return &Command{
		Program: "rec",
		Args:    []string{"-q", "-c", "1", "-r", "16000", "-b", "16", OutPlaceholder},
		Format:  "wav",
	}
}

// Begin starts the recorder process.
func (c *Command) Begin(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	format := c.Format
	if format == "" {
		format = "wav"
	}
	f, err := os.CreateTemp(c.TempDir, "reciter-*."+format)
	if err != nil {
		return nil, fmt.Errorf("create recording file: %w", err)
	}
	path := f.Name()
	f.Close()

	cmd := exec.Command(c.Program, c.argv(path)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Start(); err != nil {
		os.Remove(path)
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrPermission) {
			return nil, fmt.Errorf("%w: %v", ErrPermissionDenied, err)
		}
		return nil, fmt.Errorf("start recorder: %w", err)
	}
	slog.Debug("recorder started", "program", c.Program, "pid", cmd.Process.Pid, "path", path)

	cc := &commandCapture{cmd: cmd, path: path, stderr: &stderr, done: make(chan struct{})}
	go func() {
		cc.waitErr = cmd.Wait()
		close(cc.done)
	}()
	return cc, nil
}

func (c *Command) argv(path string) []string {
	args := make([]string, 0, len(c.Args)+1)
	replaced := false
	for _, a := range c.Args {
		if strings.Contains(a, OutPlaceholder) {
			a = strings.ReplaceAll(a, OutPlaceholder, path)
			replaced = true
		}
		args = append(args, a)
	}
	if !replaced {
		args = append(args, path)
	}
	return args
}

type commandCapture struct {
	mu      sync.Mutex
	cmd     *exec.Cmd
	path    string
	stderr  *bytes.Buffer
	paused  bool
	stopped bool

	done    chan struct{}
	waitErr error
}

func (c *commandCapture) exited() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// exitError describes why the recorder quit on its own.
func (c *commandCapture) exitError() error {
	msg := strings.TrimSpace(c.stderr.String())
	if strings.Contains(strings.ToLower(msg), "permission") {
		return fmt.Errorf("%w: %s", ErrPermissionDenied, msg)
	}
	if msg == "" && c.waitErr != nil {
		msg = c.waitErr.Error()
	}
	return fmt.Errorf("recorder exited: %s", msg)
}

func (c *commandCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if c.paused {
		return nil
	}
	if c.exited() {
		return c.exitError()
	}
	if err := pauseProcess(c.cmd.Process); err != nil {
		return fmt.Errorf("pause recorder: %w", err)
	}
	c.paused = true
	return nil
}

func (c *commandCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return ErrStopped
	}
	if !c.paused {
		return nil
	}
	if err := resumeProcess(c.cmd.Process); err != nil {
		return fmt.Errorf("resume recorder: %w", err)
	}
	c.paused = false
	return nil
}

func (c *commandCapture) Stop() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil, ErrStopped
	}
	c.stopped = true
	defer os.Remove(c.path)

	if c.exited() {
		if c.waitErr != nil {
			return nil, c.exitError()
		}
	} else {
		// A stopped process leaves the interrupt pending until continued.
		if c.paused {
			_ = resumeProcess(c.cmd.Process)
			c.paused = false
		}
		if err := interruptProcess(c.cmd.Process); err != nil {
			_ = c.cmd.Process.Kill()
		}
		select {
		case <-c.done:
		case <-time.After(stopGrace):
			slog.Warn("recorder ignored interrupt, killing", "pid", c.cmd.Process.Pid)
			_ = c.cmd.Process.Kill()
			<-c.done
		}
	}

	data, err := os.ReadFile(c.path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return nil, c.exitError()
	}
	return data, nil
}

func (c *commandCapture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return nil
	}
	c.stopped = true
	if !c.exited() {
		_ = c.cmd.Process.Kill()
		<-c.done
	}
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove recording: %w", err)
	}
	return nil
}
