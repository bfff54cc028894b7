package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, productType model.ProductType, views []results.View) error
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error       error
	ProductType model.ProductType
	Views       []results.View
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, productType model.ProductType, views []results.View) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, productType, views)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		ProductType: productType,
		Views:       views,
		Error:       err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return an error on every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, model.ProductType, []results.View) error {
		return err
	}
}
