package stt

import (
	"context"
	"sync"
)

// MockResult is a canned result for the MockProvider.
type MockResult struct {
	Text string
	Err  error
}

// MockProvider is a deterministic Provider for testing.
// It returns canned results in FIFO order and records all requests.
type MockProvider struct {
	mu      sync.Mutex
	results []MockResult
	Calls   []Request
}

// NewMockProvider creates a MockProvider with the given canned results.
func NewMockProvider(results ...MockResult) *MockProvider {
	return &MockProvider{results: results}
}

// Transcribe returns the next canned result or ErrProviderUnavailable if
// the queue is empty.
func (m *MockProvider) Transcribe(_ context.Context, req Request) (*Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)

	if len(m.results) == 0 {
		return nil, &ErrProviderUnavailable{}
	}

	res := m.results[0]
	m.results = m.results[1:]

	if res.Err != nil {
		return nil, res.Err
	}
	return &Result{Text: res.Text, Language: req.Language, Model: "mock"}, nil
}

// ModelID returns "mock".
func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResult appends a canned result to the queue.
func (m *MockProvider) AddResult(res MockResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, res)
}

// CallCount returns the number of Transcribe calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// EchoProvider transcribes every recording as its hint, i.e. a flawless
// recitation. It backs the "mock" provider setting so the practice flow can
// be tried offline.
type EchoProvider struct{}

func (EchoProvider) Transcribe(_ context.Context, req Request) (*Result, error) {
	return &Result{Text: req.Hint, Language: req.Language, Model: "echo"}, nil
}

func (EchoProvider) ModelID() string { return "echo" }
