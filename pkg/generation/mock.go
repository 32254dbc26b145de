package generation

import (
	"context"
	"sync"

	"github.com/voxflow/voxflow/pkg/protocol"
)

// MockGenerator is a scriptable in-memory generator for tests.
type MockGenerator struct {
	Provider string
	Model    string

	// Respond computes the reply; when nil, Response is returned verbatim.
	Respond  func(req protocol.GenerationRequest) (string, error)
	Response string

	mu       sync.Mutex
	requests []protocol.GenerationRequest
}

func (m *MockGenerator) Generate(_ context.Context, req protocol.GenerationRequest) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Respond != nil {
		return m.Respond(req)
	}

	return m.Response, nil
}

func (m *MockGenerator) ProviderID() string {
	if m.Provider == "" {
		return "mock"
	}

	return m.Provider
}

func (m *MockGenerator) DefaultModel() string {
	if m.Model == "" {
		return "mock-model"
	}

	return m.Model
}

// Requests returns every request seen so far.
func (m *MockGenerator) Requests() []protocol.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()

	requests := make([]protocol.GenerationRequest, len(m.requests))
	copy(requests, m.requests)

	return requests
}

var _ protocol.Generator = (*MockGenerator)(nil)
