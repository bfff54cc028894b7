// Package testutil provides test doubles shared across packages.
package testutil

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/service"
)

// MockAnalyzer is a mock implementation of service.Analyzer for testing.
// ProcessFunc and DownloadFunc run outside the lock, so they may block.
type MockAnalyzer struct {
	ProcessFunc   func(ctx context.Context, req service.AnalysisRequest) (model.ClassificationResult, error)
	DownloadFunc  func(ctx context.Context, req service.AnalysisRequest) (service.Artifact, error)
	ProcessCalls  []service.AnalysisRequest
	DownloadCalls []service.AnalysisRequest
	mu            sync.Mutex
}

// NewMockAnalyzer creates a mock that answers every Process call with result.
func NewMockAnalyzer(result model.ClassificationResult) *MockAnalyzer {
	return &MockAnalyzer{
		ProcessFunc: func(context.Context, service.AnalysisRequest) (model.ClassificationResult, error) {
			return result, nil
		},
	}
}

// Process implements service.Analyzer.
func (m *MockAnalyzer) Process(ctx context.Context, req service.AnalysisRequest) (model.ClassificationResult, error) {
	m.mu.Lock()
	m.ProcessCalls = append(m.ProcessCalls, req)
	fn := m.ProcessFunc
	m.mu.Unlock()

	if fn == nil {
		return model.ClassificationResult{}, nil
	}
	return fn(ctx, req)
}

// Download implements service.Analyzer.
func (m *MockAnalyzer) Download(ctx context.Context, req service.AnalysisRequest) (service.Artifact, error) {
	m.mu.Lock()
	m.DownloadCalls = append(m.DownloadCalls, req)
	fn := m.DownloadFunc
	m.mu.Unlock()

	if fn == nil {
		return ArtifactOf(""), nil
	}
	return fn(ctx, req)
}

// SetProcessError configures every following Process call to fail with err.
func (m *MockAnalyzer) SetProcessError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessFunc = func(context.Context, service.AnalysisRequest) (model.ClassificationResult, error) {
		return model.ClassificationResult{}, err
	}
}

// SetProcessResult configures every following Process call to return result.
func (m *MockAnalyzer) SetProcessResult(result model.ClassificationResult) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ProcessFunc = func(context.Context, service.AnalysisRequest) (model.ClassificationResult, error) {
		return result, nil
	}
}

// ProcessCallCount returns the number of Process calls so far.
func (m *MockAnalyzer) ProcessCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ProcessCalls)
}

// DownloadCallCount returns the number of Download calls so far.
func (m *MockAnalyzer) DownloadCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.DownloadCalls)
}

// LastProcessRequest returns the most recent Process request.
func (m *MockAnalyzer) LastProcessRequest() (service.AnalysisRequest, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.ProcessCalls) == 0 {
		return service.AnalysisRequest{}, false
	}
	return m.ProcessCalls[len(m.ProcessCalls)-1], true
}

// ArtifactOf wraps body as a downloaded artifact of known size.
func ArtifactOf(body string) service.Artifact {
	return service.Artifact{
		Body: io.NopCloser(strings.NewReader(body)),
		Size: int64(len(body)),
	}
}

// Gate blocks mock calls until released, to hold a request in flight.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{
		entered: make(chan struct{}, 16),
		release: make(chan struct{}),
	}
}

// Wait records that a caller arrived, then blocks until Release or ctx ends.
func (g *Gate) Wait(ctx context.Context) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Entered returns a channel that receives once per caller reaching Wait.
func (g *Gate) Entered() <-chan struct{} {
	return g.entered
}

// Release lets every current and future caller through.
func (g *Gate) Release() {
	g.once.Do(func() { close(g.release) })
}
