package audio

import (
	"context"
	"sync"
	"time"
)

// Mock is an in-memory Device for tests. Set the exported fields before
// use; inspect Captures afterwards.
type Mock struct {
	mu sync.Mutex

	// Data is returned by every Capture.Stop. Defaults to one second of
	// silence when nil.
	Data []byte

	// BeginErr, when set, is returned by Begin.
	BeginErr error

	// StopErr, when set, is returned by Capture.Stop.
	StopErr error

	// Captures records every capture started, in order.
	Captures []*MockCapture
}

func (m *Mock) Begin(ctx context.Context) (Capture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.BeginErr != nil {
		return nil, m.BeginErr
	}
	c := &MockCapture{data: m.Data, stopErr: m.StopErr}
	if c.data == nil {
		c.data = Silence(time.Second)
	}
	m.Captures = append(m.Captures, c)
	return c, nil
}

// BeginCount returns the number of captures started.
func (m *Mock) BeginCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Captures)
}

// Last returns the most recent capture, or nil.
func (m *Mock) Last() *MockCapture {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Captures) == 0 {
		return nil
	}
	return m.Captures[len(m.Captures)-1]
}

// MockCapture records the calls made on a capture.
type MockCapture struct {
	mu      sync.Mutex
	data    []byte
	stopErr error

	Pauses  int
	Resumes int
	Paused  bool
	Stopped bool
	Closed  bool
}

func (c *MockCapture) Pause() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Stopped || c.Closed {
		return ErrStopped
	}
	c.Pauses++
	c.Paused = true
	return nil
}

func (c *MockCapture) Resume() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Stopped || c.Closed {
		return ErrStopped
	}
	c.Resumes++
	c.Paused = false
	return nil
}

func (c *MockCapture) Stop() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Stopped || c.Closed {
		return nil, ErrStopped
	}
	c.Stopped = true
	if c.stopErr != nil {
		return nil, c.stopErr
	}
	return c.data, nil
}

func (c *MockCapture) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Closed = true
	return nil
}

// Released reports whether the capture was stopped or closed.
func (c *MockCapture) Released() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Stopped || c.Closed
}
