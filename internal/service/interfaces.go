// Package service defines the interfaces shared between application packages.
package service

import (
	"context"
	"io"
	"time"

	"github.com/Veraticus/search-term-analyzer/internal/model"
	"github.com/Veraticus/search-term-analyzer/internal/results"
)

// AnalysisRequest carries the inputs of one classification run.
type AnalysisRequest struct {
	ProductType   model.ProductType
	SearchFile    string
	TargetingFile string
	Threshold     int
}

// Artifact is a server-rendered export streamed back to the client.
// Size is -1 when the server did not announce a length.
type Artifact struct {
	Body io.ReadCloser
	Size int64
}

// Analyzer is the contract of the external classification service.
type Analyzer interface {
	// Process uploads the reports and returns the classified keywords.
	Process(ctx context.Context, req AnalysisRequest) (model.ClassificationResult, error)
	// Download asks the service to render the same analysis as a spreadsheet.
	Download(ctx context.Context, req AnalysisRequest) (Artifact, error)
}

// ArtifactExporter saves a server-rendered export to the local filesystem.
type ArtifactExporter interface {
	Export(ctx context.Context, req AnalysisRequest, dir string) (string, error)
}

// ReportWriter publishes derived views somewhere outside the terminal.
type ReportWriter interface {
	Write(ctx context.Context, productType model.ProductType, views []results.View) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
